package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/piwi3910/StickerNest/internal/model"
)

// maxProjectBackups caps the rotating backups kept per project file.
const maxProjectBackups = 5

// SaveProject writes a project to the given path as JSON, updating its
// modification timestamp. Parent directories are created as needed, and an
// existing file is preserved as a timestamped backup first.
func SaveProject(path string, p *model.Project) error {
	p.Touch()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := backupExisting(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// backupExisting renames an existing project file to a timestamped backup
// and prunes the oldest backups beyond the retention cap. A missing file is
// not an error.
func backupExisting(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	stamp := time.Now().UTC().Format("20060102-150405.000000000")
	if err := os.Rename(path, fmt.Sprintf("%s.bak-%s", path, stamp)); err != nil {
		return err
	}

	backups, err := filepath.Glob(path + ".bak-*")
	if err != nil {
		return err
	}
	sort.Strings(backups) // timestamps sort lexically
	for len(backups) > maxProjectBackups {
		if err := os.Remove(backups[0]); err != nil {
			return err
		}
		backups = backups[1:]
	}
	return nil
}

// ProjectBackups lists a project file's backups, oldest first.
func ProjectBackups(path string) ([]string, error) {
	backups, err := filepath.Glob(path + ".bak-*")
	if err != nil {
		return nil, err
	}
	sort.Strings(backups)
	return backups, nil
}

// LoadProject reads a project from the given path.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, err
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if p.Parts == nil {
		p.Parts = []model.Part{}
	}
	return p, nil
}
