package model

import (
	"testing"
	"time"
)

func TestNewProject(t *testing.T) {
	p := NewProject("March stickers")
	if p.Name != "March stickers" {
		t.Errorf("expected name to be set, got %q", p.Name)
	}
	if p.CreatedAt == "" || p.CreatedAt != p.UpdatedAt {
		t.Error("timestamps should be set and equal on creation")
	}
	if _, err := time.Parse(time.RFC3339, p.CreatedAt); err != nil {
		t.Errorf("timestamp should be RFC3339: %v", err)
	}
	if p.Parts == nil {
		t.Error("parts should be an empty slice, not nil")
	}
	if p.Settings.Preset != "fast" {
		t.Errorf("new projects should start from default settings, got %q", p.Settings.Preset)
	}
}

func TestBuiltInProfiles(t *testing.T) {
	profiles := BuiltInProfiles()
	if len(profiles) != 4 {
		t.Fatalf("expected one profile per preset, got %d", len(profiles))
	}
	seen := map[string]bool{}
	for _, p := range profiles {
		if !p.IsBuiltIn {
			t.Errorf("profile %q should be built-in", p.Name)
		}
		if p.ID == "" {
			t.Errorf("profile %q has no id", p.Name)
		}
		seen[p.Settings.Preset] = true
	}
	for _, preset := range []string{"fast", "balanced", "fine", "maximum"} {
		if !seen[preset] {
			t.Errorf("missing built-in profile for preset %q", preset)
		}
	}
}

func TestNewNestProfile(t *testing.T) {
	s := DefaultSettings()
	s.Strategy = StrategyAnneal
	p := NewNestProfile("Annealed", s)

	if p.Name != "Annealed" || p.IsBuiltIn {
		t.Errorf("unexpected profile: %+v", p)
	}
	if len(p.ID) != 8 {
		t.Errorf("expected generated 8-char id, got %q", p.ID)
	}
	if p.Settings.Strategy != StrategyAnneal {
		t.Error("settings should be stored as given")
	}
}

func TestTemplateStore(t *testing.T) {
	store := NewTemplateStore()
	if store.Templates == nil {
		t.Fatal("new store should have a non-nil slice")
	}

	tmpl := NewProjectTemplate("Pack", "desc", []Part{NewRectPart("A", 1, 1)}, DefaultSettings())
	store.Add(tmpl)

	if got := store.FindByID(tmpl.ID); got == nil || got.Name != "Pack" {
		t.Error("FindByID should locate the added template")
	}
	if store.FindByID("nope") != nil {
		t.Error("FindByID should return nil for unknown ids")
	}
	if got := store.FindByName("Pack"); got == nil {
		t.Error("FindByName should locate the template")
	}
	names := store.Names()
	if len(names) != 1 || names[0] != "Pack" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestNewProjectTemplateCopiesParts(t *testing.T) {
	parts := []Part{NewRectPart("A", 1, 1)}
	tmpl := NewProjectTemplate("Pack", "", parts, DefaultSettings())

	parts[0].Label = "mutated"
	if tmpl.Parts[0].Label == "mutated" {
		t.Error("template must hold its own copy of the parts")
	}
}

func TestMediaStockSheet(t *testing.T) {
	m := NewMediaStock("Letter Vinyl", 8.5, 11, "in", "Vinyl", 10)
	s := m.Sheet()
	if s.Width != 8.5 || s.Height != 11 {
		t.Errorf("unexpected sheet: %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("stock sheet should be valid: %v", err)
	}
}

func TestDefaultInventory(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Stocks) == 0 {
		t.Fatal("default inventory should not be empty")
	}
	names := inv.StockNames()
	if len(names) != len(inv.Stocks) {
		t.Errorf("expected %d names, got %d", len(inv.Stocks), len(names))
	}

	first := inv.Stocks[0]
	if got := inv.FindStockByID(first.ID); got == nil || got.Name != first.Name {
		t.Error("FindStockByID should locate the entry")
	}
	if inv.FindStockByID("nope") != nil {
		t.Error("FindStockByID should return nil for unknown ids")
	}
}

func TestAppConfigApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultPreset = "fine"
	cfg.DefaultSpacing = 0.125
	cfg.DefaultSheetSize = "A4"

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.Preset != "fine" || s.Spacing != 0.125 {
		t.Errorf("defaults not applied: %+v", s)
	}
	if s.Sheet.Width != 210 || s.Sheet.Height != 297 {
		t.Errorf("expected A4 sheet, got %+v", s.Sheet)
	}
}

func TestAppConfigUnknownSheetSizeKeepsSheet(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultSheetSize = "Imaginary"

	s := DefaultSettings()
	before := s.Sheet
	cfg.ApplyToSettings(&s)

	if s.Sheet != before {
		t.Error("unknown sheet size name should leave the sheet unchanged")
	}
}
