package export

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/StickerNest/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestExportReport_CreatesWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xlsx")

	err := ExportReport(path, buildTestResult(), testParts(), testSheet())
	if err != nil {
		t.Fatalf("ExportReport returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Summary": false, "Sheets": false, "Placements": false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected sheet %q in workbook, got %v", name, sheets)
		}
	}
}

func TestExportReport_SummaryValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xlsx")

	result := buildTestResult()
	if err := ExportReport(path, result, testParts(), testSheet()); err != nil {
		t.Fatalf("ExportReport returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	used, err := f.GetCellValue("Summary", "B2")
	if err != nil {
		t.Fatalf("cannot read cell: %v", err)
	}
	if used != "2" {
		t.Errorf("expected 2 sheets used, got %q", used)
	}

	placed, err := f.GetCellValue("Summary", "B4")
	if err != nil {
		t.Fatalf("cannot read cell: %v", err)
	}
	if placed != "3" {
		t.Errorf("expected 3 stickers placed, got %q", placed)
	}
}

func TestExportReport_PlacementRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xlsx")

	if err := ExportReport(path, buildTestResult(), testParts(), testSheet()); err != nil {
		t.Fatalf("ExportReport returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Placements")
	if err != nil {
		t.Fatalf("cannot read placements: %v", err)
	}
	// header + 3 placements
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[1][1] != "Logo" {
		t.Errorf("expected first placement 'Logo', got %q", rows[1][1])
	}
	if rows[2][4] != "90" {
		t.Errorf("expected rotation 90 for second placement, got %q", rows[2][4])
	}
}

func TestExportReport_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.xlsx")

	err := ExportReport(path, model.MultiSheetResult{}, testParts(), testSheet())
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}
