package model

import "fmt"

// Sticker is the wire form of a part in a nesting request: the traced
// boundary of one sticker image plus its precomputed dimensions.
type Sticker struct {
	ID       string    `json:"id"`
	Points   []Point2D `json:"points"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Area     float64   `json:"area,omitempty"`
	Quantity int       `json:"quantity,omitempty"`
}

// NestRequest is a complete nesting job description. It mirrors the JSON
// contract of the packing service: single-sheet by default, production mode
// distributes per-sticker quantities over a fixed sheet count.
type NestRequest struct {
	Stickers    []Sticker `json:"stickers"`
	SheetWidth  float64   `json:"sheetWidth"`
	SheetHeight float64   `json:"sheetHeight"`
	Spacing     float64   `json:"spacing"`

	// Search configuration. Preset names a rotation/resolution preset;
	// the explicit fields override individual preset values when set.
	Preset       string       `json:"preset,omitempty"`
	Rotations    []float64    `json:"rotations,omitempty"`
	CellsPerUnit float64      `json:"cellsPerUnit,omitempty"`
	StepSize     float64      `json:"stepSize,omitempty"`
	Strategy     StrategyName `json:"strategy,omitempty"`

	// Production mode.
	ProductionMode bool `json:"productionMode,omitempty"`
	SheetCount     int  `json:"sheetCount,omitempty"`
	PackAllItems   bool `json:"packAllItems,omitempty"`

	TrackPerformance bool `json:"trackPerformance,omitempty"`
}

// Sheet returns the request's sheet geometry.
func (r NestRequest) Sheet() Sheet {
	return Sheet{Width: r.SheetWidth, Height: r.SheetHeight}
}

// Validate checks the fatal preconditions of a request.
func (r NestRequest) Validate() error {
	if err := r.Sheet().Validate(); err != nil {
		return err
	}
	if r.ProductionMode && r.SheetCount < 1 {
		return fmt.Errorf("production mode requires a positive sheet count, got %d", r.SheetCount)
	}
	return nil
}

// Parts converts the request's stickers to parts, validating each one.
// Invalid stickers are reported in errs and skipped; valid parts are still
// returned so one bad sticker never sinks the whole request.
func (r NestRequest) Parts() (parts []Part, errs []error) {
	for _, s := range r.Stickers {
		qty := s.Quantity
		if qty < 1 {
			qty = 1
		}
		p := Part{
			ID:       s.ID,
			Boundary: Outline(s.Points),
			Width:    s.Width,
			Height:   s.Height,
			Area:     s.Area,
			Quantity: qty,
		}
		if p.Area == 0 {
			p.Area = p.Boundary.Area()
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		parts = append(parts, p)
	}
	return parts, errs
}

// NestResponse is the wire form of a nesting result. Exactly one of the
// single-sheet or multi-sheet field groups is populated.
type NestResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// Single-sheet form.
	Placements  []Placement         `json:"placements,omitempty"`
	UnplacedIDs []string            `json:"unplacedPartIds,omitempty"`
	Utilization float64             `json:"utilization,omitempty"`
	Metrics     *PerformanceMetrics `json:"performanceMetrics,omitempty"`

	// Multi-sheet form.
	Sheets           []SheetResult  `json:"sheets,omitempty"`
	TotalUtilization float64        `json:"totalUtilization,omitempty"`
	Quantities       map[string]int `json:"quantities,omitempty"`
}

// SingleResponse wraps a single-sheet result for the wire.
func SingleResponse(r PackingResult) NestResponse {
	return NestResponse{
		Success:     true,
		Placements:  r.Placements,
		UnplacedIDs: r.UnplacedIDs,
		Utilization: r.Utilization,
		Metrics:     r.Metrics,
	}
}

// MultiResponse wraps a production-mode result for the wire.
func MultiResponse(r MultiSheetResult) NestResponse {
	return NestResponse{
		Success:          true,
		Sheets:           r.Sheets,
		TotalUtilization: r.TotalUtilization,
		Quantities:       r.Quantities,
	}
}

// ErrorResponse wraps a fatal request error for the wire.
func ErrorResponse(err error) NestResponse {
	return NestResponse{Success: false, Error: err.Error()}
}

// NestSettings holds the persisted nesting defaults for a project.
type NestSettings struct {
	Sheet          Sheet        `json:"sheet"`
	Spacing        float64      `json:"spacing"`
	Preset         string       `json:"preset"`
	RotationStep   float64      `json:"rotation_step,omitempty"` // degrees; >0 derives a custom preset
	Strategy       StrategyName `json:"strategy"`
	ProductionMode bool         `json:"production_mode"`
	SheetCount     int          `json:"sheet_count"`
	PackAllItems   bool         `json:"pack_all_items"`
}

// DefaultSettings returns settings for a US Letter sheet in inches with a
// 1/16 inch cutting margin. Preset resolutions are tuned for inch-scale
// sheets; metric callers should override CellsPerUnit accordingly.
func DefaultSettings() NestSettings {
	return NestSettings{
		Sheet:          Sheet{Width: 8.5, Height: 11.0},
		Spacing:        0.0625,
		Preset:         "fast",
		Strategy:       StrategyGridScan,
		ProductionMode: false,
		SheetCount:     1,
		PackAllItems:   false,
	}
}
