package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StickerNest/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultSpacing = 0.125
	cfg.DefaultPreset = "fine"
	cfg.AutoSaveInterval = 5
	cfg.RecentProjects = []string{"/tmp/proj1.json", "/tmp/proj2.json"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultSpacing != 0.125 {
		t.Errorf("expected DefaultSpacing=0.125, got %f", loaded.DefaultSpacing)
	}
	if loaded.DefaultPreset != "fine" {
		t.Errorf("expected DefaultPreset=fine, got %s", loaded.DefaultPreset)
	}
	if loaded.AutoSaveInterval != 5 {
		t.Errorf("expected AutoSaveInterval=5, got %d", loaded.AutoSaveInterval)
	}
	if len(loaded.RecentProjects) != 2 {
		t.Errorf("expected 2 recent projects, got %d", len(loaded.RecentProjects))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultSpacing != defaults.DefaultSpacing {
		t.Errorf("expected default spacing %f, got %f", defaults.DefaultSpacing, cfg.DefaultSpacing)
	}
	if cfg.Units != "in" {
		t.Errorf("expected units=in, got %s", cfg.Units)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentProjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Write config with null recent_projects
	data := []byte(`{"default_spacing":0.0625,"units":"in","recent_projects":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after loading")
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := model.DefaultAppConfig()

	AddRecentProject(&cfg, "/tmp/a.json")
	AddRecentProject(&cfg, "/tmp/b.json")
	AddRecentProject(&cfg, "/tmp/a.json") // re-open moves to front

	if len(cfg.RecentProjects) != 2 {
		t.Fatalf("expected 2 recent projects, got %d", len(cfg.RecentProjects))
	}
	if cfg.RecentProjects[0] != "/tmp/a.json" {
		t.Errorf("expected most recent first, got %v", cfg.RecentProjects)
	}
}

func TestAddRecentProjectCap(t *testing.T) {
	cfg := model.DefaultAppConfig()
	for i := 0; i < 15; i++ {
		AddRecentProject(&cfg, filepath.Join("/tmp", string(rune('a'+i))+".json"))
	}
	if len(cfg.RecentProjects) != 10 {
		t.Errorf("expected recent list capped at 10, got %d", len(cfg.RecentProjects))
	}
}
