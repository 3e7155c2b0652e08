package export

import (
	"fmt"

	"github.com/piwi3910/StickerNest/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
)

// ExportDXF writes the cut paths for one sheet of a nesting run as a DXF
// file. Each placed outline becomes a closed loop of LINE entities on the
// CUT layer, in sheet coordinates, plus the sheet border on its own layer.
func ExportDXF(path string, sr model.SheetResult, parts []model.Part, sheet model.Sheet) error {
	if len(sr.Placements) == 0 {
		return fmt.Errorf("sheet %d has no placements to export", sr.SheetIndex+1)
	}

	idx := NewPartIndex(parts)

	d := dxf.NewDrawing()

	if _, err := d.AddLayer("SHEET", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add sheet layer: %w", err)
	}
	drawLoop(d, model.RectOutline(sheet.Width, sheet.Height))

	if _, err := d.AddLayer("CUT", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add cut layer: %w", err)
	}
	for _, pl := range sr.Placements {
		part, ok := idx.Lookup(pl.ID)
		if !ok || len(part.Boundary) < 3 {
			continue
		}
		drawLoop(d, placedOutline(part, pl))
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawLoop emits a closed outline as consecutive LINE entities.
func drawLoop(d *drawing.Drawing, outline model.Outline) {
	n := len(outline)
	for i := 0; i < n; i++ {
		a := outline[i]
		b := outline[(i+1)%n]
		d.Line(a.X, a.Y, 0, b.X, b.Y, 0)
	}
}
