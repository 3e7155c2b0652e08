package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/StickerNest/internal/model"
)

// DefaultProfilesPath returns the default file path for custom nesting profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom nesting profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.NestProfile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomProfiles loads custom nesting profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.NestProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.NestProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.NestProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}

	// Loaded profiles are never built-in
	for i := range profiles {
		profiles[i].IsBuiltIn = false
	}
	return profiles, nil
}

// AllProfiles returns the built-in profiles followed by the custom profiles
// loaded from the given path.
func AllProfiles(path string) ([]model.NestProfile, error) {
	custom, err := LoadCustomProfiles(path)
	if err != nil {
		return nil, err
	}
	return append(model.BuiltInProfiles(), custom...), nil
}

// ExportProfile exports a single profile to a JSON file for sharing.
func ExportProfile(path string, profile model.NestProfile) error {
	profile.IsBuiltIn = false
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile imports a single profile from a JSON file.
func ImportProfile(path string) (model.NestProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.NestProfile{}, err
	}

	var profile model.NestProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.NestProfile{}, err
	}

	profile.IsBuiltIn = false
	if profile.Name == "" {
		return model.NestProfile{}, errors.New("imported profile has no name")
	}
	return profile, nil
}
