package export

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StickerNest/internal/model"
)

// testParts returns a small sticker set with known ids.
func testParts() []model.Part {
	logo := model.NewRectPart("Logo", 2.5, 2.5)
	logo.ID = "logo"
	logo.Quantity = 2

	badge := model.NewPart("Badge", model.Outline{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1.5},
	})
	badge.ID = "badge"
	badge.Quantity = 1

	return []model.Part{logo, badge}
}

// buildTestResult creates a realistic two-sheet nesting result.
func buildTestResult() model.MultiSheetResult {
	return model.MultiSheetResult{
		Sheets: []model.SheetResult{
			{
				SheetIndex: 0,
				Placements: []model.Placement{
					{ID: "logo#0", X: 0.1, Y: 0.1, Rotation: 0},
					{ID: "badge#0", X: 3.0, Y: 0.2, Rotation: 90},
				},
				Utilization: 11.2,
			},
			{
				SheetIndex: 1,
				Placements: []model.Placement{
					{ID: "logo#1", X: 0.1, Y: 0.1, Rotation: 180},
				},
				Utilization: 6.7,
			},
		},
		TotalUtilization: 8.95,
		Quantities:       map[string]int{"logo": 2, "badge": 1},
	}
}

func testSheet() model.Sheet {
	return model.Sheet{Width: 8.5, Height: 11}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.pdf")

	err := ExportPDF(path, buildTestResult(), testParts(), testSheet())
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	// A valid PDF with 3 pages (2 sheets + summary) should be a reasonable size
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	err := ExportPDF(path, model.MultiSheetResult{}, testParts(), testSheet())
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportPDF_UnknownPlacementID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unknown.pdf")

	result := buildTestResult()
	result.Sheets[0].Placements = append(result.Sheets[0].Placements,
		model.Placement{ID: "ghost#0", X: 1, Y: 1})

	// Placements without a matching part are skipped, not fatal.
	err := ExportPDF(path, result, testParts(), testSheet())
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestExportPDF_ManyParts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many.pdf")

	// More placements than palette colors to exercise color cycling
	parts := make([]model.Part, 20)
	placements := make([]model.Placement, 20)
	for i := range parts {
		p := model.NewRectPart(fmt.Sprintf("Sticker %d", i+1), 1, 0.8)
		p.ID = fmt.Sprintf("p%d", i)
		parts[i] = p
		placements[i] = model.Placement{
			ID: fmt.Sprintf("p%d#0", i),
			X:  float64(i%5) * 1.1,
			Y:  float64(i/5) * 0.9,
		}
	}

	result := model.MultiSheetResult{
		Sheets: []model.SheetResult{
			{SheetIndex: 0, Placements: placements, Utilization: 17.1},
		},
		TotalUtilization: 17.1,
		Quantities:       map[string]int{},
	}

	err := ExportPDF(path, result, parts, testSheet())
	if err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{30, 25, 7},
		{10, 15, 6},
	}
	for _, tt := range tests {
		got := labelFontSize(tt.w, tt.h)
		if got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestPartIndex_Lookup(t *testing.T) {
	idx := NewPartIndex(testParts())

	if _, ok := idx.Lookup("logo"); !ok {
		t.Error("expected lookup by plain id to succeed")
	}
	if _, ok := idx.Lookup("logo#3"); !ok {
		t.Error("expected lookup to strip the instance suffix")
	}
	if _, ok := idx.Lookup("ghost#0"); ok {
		t.Error("expected lookup of unknown id to fail")
	}
}

func TestPlacedOutline_Translation(t *testing.T) {
	part := model.NewRectPart("sq", 2, 2)
	outline := placedOutline(part, model.Placement{X: 3, Y: 4, Rotation: 0})

	min, max := outline.BoundingBox()
	if min.X != 3 || min.Y != 4 {
		t.Errorf("expected bbox min (3,4), got (%g,%g)", min.X, min.Y)
	}
	if max.X != 5 || max.Y != 6 {
		t.Errorf("expected bbox max (5,6), got (%g,%g)", max.X, max.Y)
	}
}
