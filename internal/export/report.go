package export

import (
	"fmt"

	"github.com/piwi3910/StickerNest/internal/model"
	"github.com/xuri/excelize/v2"
)

// ExportReport writes a nesting run to an XLSX workbook with three sheets:
// a summary, per-sheet utilization, and the full placement list.
func ExportReport(path string, result model.MultiSheetResult, parts []model.Part, sheet model.Sheet) error {
	if len(result.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	idx := NewPartIndex(parts)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, headerStyle, result, parts, sheet); err != nil {
		return err
	}
	if err := writeSheetsSheet(f, headerStyle, result); err != nil {
		return err
	}
	if err := writePlacementsSheet(f, headerStyle, result, idx); err != nil {
		return err
	}

	// Drop the default sheet created by NewFile
	f.DeleteSheet("Sheet1")
	if i, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(i)
	}

	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, headerStyle int, result model.MultiSheetResult, parts []model.Part, sheet model.Sheet) error {
	const name = "Summary"
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Sheet Size", fmt.Sprintf("%g x %g", sheet.Width, sheet.Height)},
		{"Sheets Used", len(result.Sheets)},
		{"Total Utilization", fmt.Sprintf("%.1f%%", result.TotalUtilization)},
		{"Stickers Placed", result.PlacedCount()},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(name, "A1", "A4", headerStyle); err != nil {
		return err
	}

	// Quantity fulfillment table below the stats block
	tableTop := len(rows) + 2
	header := []interface{}{"Sticker", "Width", "Height", "Requested", "Placed"}
	cell, _ := excelize.CoordinatesToCellName(1, tableTop)
	if err := f.SetSheetRow(name, cell, &header); err != nil {
		return err
	}
	endCell, _ := excelize.CoordinatesToCellName(len(header), tableTop)
	if err := f.SetCellStyle(name, cell, endCell, headerStyle); err != nil {
		return err
	}

	for i, part := range parts {
		requested := part.Quantity
		if requested < 1 {
			requested = 1
		}
		row := []interface{}{part.Label, part.Width, part.Height, requested, result.Quantities[part.ID]}
		cell, _ := excelize.CoordinatesToCellName(1, tableTop+1+i)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(name, "A", "A", 24)
}

func writeSheetsSheet(f *excelize.File, headerStyle int, result model.MultiSheetResult) error {
	const name = "Sheets"
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheets sheet: %w", err)
	}

	header := []interface{}{"Sheet", "Stickers", "Utilization"}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", "C1", headerStyle); err != nil {
		return err
	}

	for i, sr := range result.Sheets {
		row := []interface{}{sr.SheetIndex + 1, len(sr.Placements), sr.Utilization / 100.0}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}

	// Percent format for the utilization column
	pctStyle, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return err
	}
	endCell, _ := excelize.CoordinatesToCellName(3, len(result.Sheets)+1)
	return f.SetCellStyle(name, "C2", endCell, pctStyle)
}

func writePlacementsSheet(f *excelize.File, headerStyle int, result model.MultiSheetResult, idx PartIndex) error {
	const name = "Placements"
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create placements sheet: %w", err)
	}

	header := []interface{}{"Sheet", "Sticker", "X", "Y", "Rotation"}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", "E1", headerStyle); err != nil {
		return err
	}

	rowNum := 2
	for _, sr := range result.Sheets {
		for _, pl := range sr.Placements {
			label := pl.ID
			if part, ok := idx.Lookup(pl.ID); ok && part.Label != "" {
				label = part.Label
			}
			row := []interface{}{sr.SheetIndex + 1, label, pl.X, pl.Y, pl.Rotation}
			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return err
			}
			rowNum++
		}
	}

	return f.SetColWidth(name, "B", "B", 24)
}
