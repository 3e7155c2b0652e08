package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Sentinel errors for request validation. Geometry problems are detected at
// ingestion; an invalid part never aborts a multi-part run, the caller drops
// it and continues.
var (
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrInvalidSheet    = errors.New("invalid sheet dimensions")
)

// areaTolerance is the maximum relative disagreement allowed between a
// part's declared area and the area computed from its boundary.
const areaTolerance = 0.01

// Part represents one shape to be nested.
type Part struct {
	ID       string  `json:"id"`
	Label    string  `json:"label,omitempty"`
	Boundary Outline `json:"boundary"`
	Width    float64 `json:"width"`  // unrotated bounding-box width
	Height   float64 `json:"height"` // unrotated bounding-box height
	Area     float64 `json:"area"`   // true polygon area, precomputed
	Quantity int     `json:"quantity,omitempty"`
}

// NewPart builds a part from an outline, normalizing the boundary so its
// bounding-box min corner sits at the origin and precomputing the
// dimensions and area.
func NewPart(label string, boundary Outline) Part {
	min, max := boundary.BoundingBox()
	normalized := boundary.Translate(-min.X, -min.Y)
	return Part{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Boundary: normalized,
		Width:    max.X - min.X,
		Height:   max.Y - min.Y,
		Area:     normalized.Area(),
		Quantity: 1,
	}
}

// NewRectPart builds a rectangular part of the given dimensions.
func NewRectPart(label string, w, h float64) Part {
	return NewPart(label, RectOutline(w, h))
}

// Validate checks the part's geometry at ingestion time.
func (p Part) Validate() error {
	if len(p.Boundary) < 3 {
		return fmt.Errorf("part %s: boundary has %d points: %w", p.ID, len(p.Boundary), ErrInvalidGeometry)
	}
	if p.Boundary.SelfIntersects() {
		return fmt.Errorf("part %s: boundary self-intersects: %w", p.ID, ErrInvalidGeometry)
	}
	computed := p.Boundary.Area()
	if p.Area > 0 && computed > 0 {
		if math.Abs(p.Area-computed)/computed > areaTolerance {
			return fmt.Errorf("part %s: declared area %.4f disagrees with computed %.4f: %w",
				p.ID, p.Area, computed, ErrInvalidGeometry)
		}
	}
	return nil
}

// Sheet is the fixed rectangular area parts are placed on. The origin is the
// bottom-left corner; all placements and grid coordinates are relative to it.
type Sheet struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate rejects malformed sheet dimensions. This is the only fatal
// precondition: no grid can be built from a non-positive sheet.
func (s Sheet) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("sheet %gx%g: %w", s.Width, s.Height, ErrInvalidSheet)
	}
	return nil
}

// Area returns the sheet area.
func (s Sheet) Area() float64 {
	return s.Width * s.Height
}

// GridCell is an integer index into a sheet's occupancy grid.
type GridCell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Placement records a part's accepted position on a sheet. X,Y is the
// translation applied after the boundary is rotated about its own centroid
// by Rotation degrees. Cells is optional audit output: the grid cells the
// placement covered at the packing resolution.
type Placement struct {
	ID       string     `json:"id"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Rotation float64    `json:"rotation"`
	Cells    []GridCell `json:"cells,omitempty"`
}

// PerformanceMetrics holds observational packing statistics. They never
// influence placement decisions.
type PerformanceMetrics struct {
	PositionsTried int     `json:"positionsTried"`
	ElapsedMs      float64 `json:"elapsedMs"`
	PerItemMs      float64 `json:"perItemMs"`
	Rotations      int     `json:"rotations"`
	CellsPerUnit   float64 `json:"cellsPerUnit"`
	StepSize       float64 `json:"stepSize"`
}

// PackingResult is the outcome of packing one sheet.
type PackingResult struct {
	Placements  []Placement         `json:"placements"`
	UnplacedIDs []string            `json:"unplacedPartIds"`
	Utilization float64             `json:"utilization"` // percent of sheet area covered
	Metrics     *PerformanceMetrics `json:"performanceMetrics,omitempty"`
}

// SheetResult is one sheet of a multi-sheet run.
type SheetResult struct {
	SheetIndex  int         `json:"sheetIndex"`
	Placements  []Placement `json:"placements"`
	Utilization float64     `json:"utilization"`
}

// MultiSheetResult aggregates a production run over a fixed sheet count.
// Quantities reports copies actually placed per original part id, with the
// per-copy instance suffix stripped.
type MultiSheetResult struct {
	Sheets           []SheetResult  `json:"sheets"`
	TotalUtilization float64        `json:"totalUtilization"`
	Quantities       map[string]int `json:"quantities"`
}

// PlacedCount returns the total number of placements across all sheets.
func (r MultiSheetResult) PlacedCount() int {
	total := 0
	for _, s := range r.Sheets {
		total += len(s.Placements)
	}
	return total
}

// StrategyName selects the single-sheet packing strategy.
type StrategyName string

const (
	StrategyGridScan StrategyName = "grid"    // rasterized position scan (reference)
	StrategyNFP      StrategyName = "nfp"     // greedy no-fit-polygon nester
	StrategyAnneal   StrategyName = "anneal"  // simulated annealing
	StrategyGenetic  StrategyName = "genetic" // genetic algorithm
)

// SheetSize is a named standard sheet preset.
type SheetSize struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// SheetSizes lists common sticker sheet formats.
var SheetSizes = []SheetSize{
	{Name: "US Letter", Width: 8.5, Height: 11.0, Unit: "in"},
	{Name: "A4", Width: 210.0, Height: 297.0, Unit: "mm"},
	{Name: "12x12 Craft", Width: 12.0, Height: 12.0, Unit: "in"},
	{Name: "A3", Width: 297.0, Height: 420.0, Unit: "mm"},
}

// SheetSizeByName returns the named preset, or false if unknown.
func SheetSizeByName(name string) (SheetSize, bool) {
	for _, s := range SheetSizes {
		if s.Name == name {
			return s, true
		}
	}
	return SheetSize{}, false
}
