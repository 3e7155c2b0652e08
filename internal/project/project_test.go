package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/StickerNest/internal/model"
)

func TestSaveAndLoadProject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stickers.json")

	p := model.NewProject("Convention Pack")
	logo := model.NewRectPart("Logo", 2.5, 2.5)
	logo.Quantity = 10
	p.Parts = append(p.Parts, logo)
	p.Settings.Preset = "balanced"
	p.Result = &model.MultiSheetResult{
		Sheets: []model.SheetResult{
			{SheetIndex: 0, Placements: []model.Placement{{ID: logo.ID + "#0", X: 1, Y: 1}}, Utilization: 6.7},
		},
		TotalUtilization: 6.7,
		Quantities:       map[string]int{logo.ID: 1},
	}

	if err := SaveProject(path, &p); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	loaded, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if loaded.Name != "Convention Pack" {
		t.Errorf("expected name 'Convention Pack', got %q", loaded.Name)
	}
	if len(loaded.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(loaded.Parts))
	}
	if loaded.Parts[0].Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", loaded.Parts[0].Quantity)
	}
	if len(loaded.Parts[0].Boundary) != 4 {
		t.Errorf("expected 4 boundary points, got %d", len(loaded.Parts[0].Boundary))
	}
	if loaded.Settings.Preset != "balanced" {
		t.Errorf("expected preset 'balanced', got %q", loaded.Settings.Preset)
	}
	if loaded.Result == nil {
		t.Fatal("expected result to survive the round trip")
	}
	if loaded.Result.Quantities[logo.ID] != 1 {
		t.Errorf("expected placed quantity 1, got %d", loaded.Result.Quantities[logo.ID])
	}
}

func TestSaveProjectTouchesTimestamp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.json")

	p := model.NewProject("Test")
	p.UpdatedAt = "2020-01-01T00:00:00Z"

	if err := SaveProject(path, &p); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}
	if p.UpdatedAt == "2020-01-01T00:00:00Z" {
		t.Error("expected SaveProject to update the modification timestamp")
	}
}

func TestSaveProjectKeepsRotatingBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.json")

	p := model.NewProject("Test")
	for i := 0; i < 8; i++ {
		if err := SaveProject(path, &p); err != nil {
			t.Fatalf("SaveProject failed on save %d: %v", i, err)
		}
	}

	backups, err := ProjectBackups(path)
	if err != nil {
		t.Fatalf("ProjectBackups failed: %v", err)
	}
	// 8 saves leave 7 backups, pruned to the retention cap.
	if len(backups) != maxProjectBackups {
		t.Errorf("expected %d backups, got %d", maxProjectBackups, len(backups))
	}

	// The live file still loads after all the renaming.
	if _, err := LoadProject(path); err != nil {
		t.Errorf("LoadProject failed after backups: %v", err)
	}
	// Backups are valid project files themselves.
	if _, err := LoadProject(backups[0]); err != nil {
		t.Errorf("backup should load as a project: %v", err)
	}
}

func TestProjectBackupsEmptyForFreshFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.json")

	p := model.NewProject("Test")
	if err := SaveProject(path, &p); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	backups, err := ProjectBackups(path)
	if err != nil {
		t.Fatalf("ProjectBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("first save should create no backups, got %d", len(backups))
	}
}

func TestLoadProjectMissingFile(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing project file")
	}
}

func TestLoadProjectNilParts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.json")

	p := model.Project{Name: "Bare"}
	if err := SaveProject(path, &p); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	loaded, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if loaded.Parts == nil {
		t.Error("Parts should not be nil after loading")
	}
}
