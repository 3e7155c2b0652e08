package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/StickerNest/internal/model"
)

// partColor represents an RGB fill color for a placed shape.
type partColor struct {
	R, G, B int
}

// partColors is the fill palette, cycled when a sheet holds more shapes
// than colors.
var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF preview of a nesting run. Each sheet is rendered
// on its own page with the placed outlines drawn to scale, followed by a
// summary page with utilization and quantity statistics.
func ExportPDF(path string, result model.MultiSheetResult, parts []model.Part, sheet model.Sheet) error {
	if len(result.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	idx := NewPartIndex(parts)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, sr := range result.Sheets {
		pdf.AddPage()
		renderSheetPage(pdf, sr, idx, sheet)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, parts, sheet)

	return pdf.OutputFileAndClose(path)
}

// renderSheetPage draws a single sheet's layout on the current PDF page.
func renderSheetPage(pdf *fpdf.Fpdf, sr model.SheetResult, idx PartIndex, sheet model.Sheet) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d (%g x %g)", sr.SheetIndex+1, sheet.Width, sheet.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Stickers: %d | Utilization: %.1f%%", len(sr.Placements), sr.Utilization)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Scale the sheet to fit the drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/sheet.Width, drawHeight/sheet.Height)

	canvasW := sheet.Width * scale
	canvasH := sheet.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Sheet background
	pdf.SetFillColor(250, 250, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Placed outlines. Sheet coordinates grow upward; PDF coordinates grow
	// downward, so Y flips around the sheet height.
	for i, pl := range sr.Placements {
		part, ok := idx.Lookup(pl.ID)
		if !ok || len(part.Boundary) < 3 {
			continue
		}
		outline := placedOutline(part, pl)

		points := make([]fpdf.PointType, len(outline))
		for j, pt := range outline {
			points[j] = fpdf.PointType{
				X: offsetX + pt.X*scale,
				Y: offsetY + (sheet.Height-pt.Y)*scale,
			}
		}

		col := partColors[i%len(partColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Polygon(points, "FD")

		drawShapeLabel(pdf, part, pl, outline, scale, offsetX, offsetY, sheet.Height)
	}

	drawDimensionAnnotations(pdf, sheet, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, sr, idx, offsetY+canvasH+5)
}

// drawShapeLabel writes the part label at the placed outline's bounding-box
// center when the shape is large enough on the page.
func drawShapeLabel(pdf *fpdf.Fpdf, part model.Part, pl model.Placement, outline model.Outline, scale, offsetX, offsetY, sheetHeight float64) {
	min, max := outline.BoundingBox()
	w := (max.X - min.X) * scale
	h := (max.Y - min.Y) * scale
	if w < 12 || h < 6 {
		return
	}

	label := part.Label
	if label == "" {
		label = part.ID
	}

	pdf.SetFont("Helvetica", "", labelFontSize(w, h))
	pdf.SetTextColor(0, 0, 0)
	labelW := pdf.GetStringWidth(label)
	if labelW > w-2 {
		return
	}

	cx := offsetX + (min.X+max.X)/2*scale
	cy := offsetY + (sheetHeight-(min.Y+max.Y)/2)*scale
	pdf.SetXY(cx-labelW/2, cy-2)
	pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
}

// drawDimensionAnnotations adds width and height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sheet model.Sheet, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Width annotation (below the sheet)
	widthLabel := fmt.Sprintf("%g", sheet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height annotation (to the left, rotated)
	heightLabel := fmt.Sprintf("%g", sheet.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders a compact legend of placed shapes below the sheet.
func drawLegend(pdf *fpdf.Fpdf, sr model.SheetResult, idx PartIndex, startY float64) {
	if len(sr.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Stickers placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, pl := range sr.Placements {
		part, ok := idx.Lookup(pl.ID)
		if !ok {
			continue
		}
		col := partColors[i%len(partColors)]
		label := fmt.Sprintf("%s (%.2gx%.2g)", part.Label, part.Width, part.Height)
		if pl.Rotation != 0 {
			label += fmt.Sprintf(" @%g\xb0", pl.Rotation)
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with run statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.MultiSheetResult, parts []model.Part, sheet model.Sheet) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Nesting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Sheets Used", fmt.Sprintf("%d", len(result.Sheets))},
		{"Sheet Size", fmt.Sprintf("%g x %g", sheet.Width, sheet.Height)},
		{"Total Utilization", fmt.Sprintf("%.1f%%", result.TotalUtilization)},
		{"Stickers Placed", fmt.Sprintf("%d", result.PlacedCount())},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Quantity fulfillment table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Quantities", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{70, 40, 35, 35}
	headers := []string{"Sticker", "Size", "Requested", "Placed"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	shorted := false
	for i, part := range parts {
		requested := part.Quantity
		if requested < 1 {
			requested = 1
		}
		placed := result.Quantities[part.ID]
		if placed < requested {
			shorted = true
		}

		xPos = marginLeft
		rowData := []string{
			part.Label,
			fmt.Sprintf("%.2g x %.2g", part.Width, part.Height),
			fmt.Sprintf("%d", requested),
			fmt.Sprintf("%d", placed),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if shorted {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Not all requested copies fit on the available sheets", "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by StickerNest", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size for the shape's on-page size.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
