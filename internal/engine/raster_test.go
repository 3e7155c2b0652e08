package engine

import (
	"testing"

	"github.com/piwi3910/StickerNest/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRasterizePolygon_UnitSquare(t *testing.T) {
	r := newRasterizer(10)
	cells := r.rasterizePolygon(model.RectOutline(1, 1), 0, 0, 0, 0)

	// Every cell center in [0,1)x[0,1) lies inside the square.
	assert.Len(t, cells, 100)
}

func TestRasterizePolygon_Triangle(t *testing.T) {
	r := newRasterizer(10)
	tri := model.Outline{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	cells := r.rasterizePolygon(tri, 0, 0, 0, 0)

	// Roughly half the square's cells, never more than the square.
	assert.Greater(t, len(cells), 30)
	assert.Less(t, len(cells), 60)
}

func TestRasterizePolygon_DegenerateOutline(t *testing.T) {
	r := newRasterizer(10)
	assert.Nil(t, r.rasterizePolygon(model.Outline{{X: 0, Y: 0}, {X: 1, Y: 1}}, 0, 0, 0, 0))
	assert.Nil(t, r.rasterizePolygon(nil, 0, 0, 0, 0))
}

func TestRasterizePolygon_TranslationShiftsCells(t *testing.T) {
	r := newRasterizer(10)
	at00 := r.rasterizePolygon(model.RectOutline(1, 1), 0, 0, 0, 0)
	at21 := r.rasterizePolygon(model.RectOutline(1, 1), 2, 1, 0, 0)

	assert.Equal(t, len(at00), len(at21))
	for i := range at00 {
		assert.Equal(t, at00[i].X+20, at21[i].X)
		assert.Equal(t, at00[i].Y+10, at21[i].Y)
	}
}

func TestRasterizePolygon_SpacingInflatesFootprint(t *testing.T) {
	r := newRasterizer(10)
	bare := r.rasterizePolygon(model.RectOutline(1, 1), 0, 0, 0, 0)

	// Spacing 1 inflates by 0.5 per side: a 2x2 footprint.
	inflated := r.rasterizePolygon(model.RectOutline(1, 1), 0, 0, 0, 1.0)
	assert.Len(t, bare, 100)
	assert.Len(t, inflated, 400)
}

func TestTransformOutline_RotationAboutCentroid(t *testing.T) {
	// Rotating a square 90 degrees about its own centroid leaves the
	// bounding box where it was.
	sq := model.RectOutline(2, 2)
	rotated := transformOutline(sq, 0, 0, 90, 0)

	min, max := rotated.BoundingBox()
	assert.InDelta(t, 0, min.X, 1e-9)
	assert.InDelta(t, 0, min.Y, 1e-9)
	assert.InDelta(t, 2, max.X, 1e-9)
	assert.InDelta(t, 2, max.Y, 1e-9)
}

func TestTransformOutline_RectangleRotation(t *testing.T) {
	// A 4x2 rectangle rotated 90 about its centroid swaps its extents.
	rect := model.RectOutline(4, 2)
	rotated := transformOutline(rect, 0, 0, 90, 0)

	min, max := rotated.BoundingBox()
	assert.InDelta(t, 2, max.X-min.X, 1e-9)
	assert.InDelta(t, 4, max.Y-min.Y, 1e-9)
}
