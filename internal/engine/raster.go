package engine

import (
	"math"

	"github.com/piwi3910/StickerNest/internal/model"
)

// rasterizer converts polygons into the grid cells they cover at a fixed
// resolution.
type rasterizer struct {
	cellsPerUnit float64
}

func newRasterizer(cellsPerUnit float64) rasterizer {
	return rasterizer{cellsPerUnit: cellsPerUnit}
}

// transformOutline applies the full placement transform: inflate the
// boundary outward by spacing/2 to reserve the cutting margin, rotate about
// the boundary's own centroid, then translate. Rotation about the centroid
// rather than the sheet origin keeps the shape near its pre-rotation
// position so the scan translation stays meaningful.
func transformOutline(boundary model.Outline, tx, ty, rotationDegrees, spacing float64) model.Outline {
	inflated := boundary.Inflate(spacing / 2)
	rotated := inflated.RotateAround(boundary.Centroid(), rotationDegrees)
	return rotated.Translate(tx, ty)
}

// rasterizePolygon returns the cells covered by the boundary after the
// placement transform. A cell is covered when its center lies inside the
// transformed polygon.
func (r rasterizer) rasterizePolygon(boundary model.Outline, tx, ty, rotationDegrees, spacing float64) []model.GridCell {
	return r.cells(transformOutline(boundary, tx, ty, rotationDegrees, spacing))
}

// cells scan-converts an already-transformed outline.
func (r rasterizer) cells(outline model.Outline) []model.GridCell {
	if len(outline) < 3 {
		return nil
	}
	min, max := outline.BoundingBox()
	x0 := int(math.Floor(min.X * r.cellsPerUnit))
	y0 := int(math.Floor(min.Y * r.cellsPerUnit))
	x1 := int(math.Ceil(max.X * r.cellsPerUnit))
	y1 := int(math.Ceil(max.Y * r.cellsPerUnit))

	var result []model.GridCell
	for cy := y0; cy < y1; cy++ {
		centerY := (float64(cy) + 0.5) / r.cellsPerUnit
		for cx := x0; cx < x1; cx++ {
			center := model.Point2D{
				X: (float64(cx) + 0.5) / r.cellsPerUnit,
				Y: centerY,
			}
			if outline.Contains(center) {
				result = append(result, model.GridCell{X: cx, Y: cy})
			}
		}
	}
	return result
}
