package engine

import (
	"fmt"
	"math"
	"time"
)

// QualityTier labels the expected packing quality of a preset.
type QualityTier string

const (
	TierBasic     QualityTier = "basic"
	TierGood      QualityTier = "good"
	TierExcellent QualityTier = "excellent"
	TierOptimal   QualityTier = "optimal"
)

// Preset bundles the rotation/resolution trade-off for a packing run.
// Coarse rotation sets pair with a fine position step and a high grid
// resolution; finer rotation sets deliberately pair with a coarser step and
// a lower resolution so the added rotation cost is partially offset.
// Resolutions are tuned for inch-scale sheets.
type Preset struct {
	Name         string      `json:"name"`
	Rotations    []float64   `json:"rotations"` // degrees, tried in order
	StepSize     float64     `json:"stepSize"`  // position scan spacing
	CellsPerUnit float64     `json:"cellsPerUnit"`
	SpeedFactor  float64     `json:"speedFactor"` // runtime multiplier vs the fast preset
	QualityTier  QualityTier `json:"qualityTier"`
}

var presets = []Preset{
	{
		Name:         "fast",
		Rotations:    []float64{0, 90, 180, 270},
		StepSize:     0.05,
		CellsPerUnit: 100,
		SpeedFactor:  1.0,
		QualityTier:  TierBasic,
	},
	{
		Name:         "balanced",
		Rotations:    rotationsFromStep(45),
		StepSize:     0.075,
		CellsPerUnit: 80,
		SpeedFactor:  2.5,
		QualityTier:  TierGood,
	},
	{
		Name:         "fine",
		Rotations:    rotationsFromStep(15),
		StepSize:     0.1,
		CellsPerUnit: 60,
		SpeedFactor:  6.0,
		QualityTier:  TierExcellent,
	},
	{
		Name:         "maximum",
		Rotations:    rotationsFromStep(5),
		StepSize:     0.15,
		CellsPerUnit: 50,
		SpeedFactor:  15.0,
		QualityTier:  TierOptimal,
	},
}

// PresetByName returns the named preset.
func PresetByName(name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}

// PresetNames returns all named presets in speed order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

// rotationsFromStep builds the angle list {0, step, 2*step, ...} covering
// [0, 360).
func rotationsFromStep(stepDegrees float64) []float64 {
	count := int(math.Floor(360.0 / stepDegrees))
	angles := make([]float64, count)
	for i := range angles {
		angles[i] = float64(i) * stepDegrees
	}
	return angles
}

// CustomPreset derives a preset from a single rotation step in degrees.
// The quality tier follows the angle count, and the position step and grid
// resolution are taken from the matching named tier so the trade-off curve
// stays consistent with the built-in presets.
func CustomPreset(rotationStepDegrees float64) (Preset, error) {
	if rotationStepDegrees <= 0 || rotationStepDegrees > 360 {
		return Preset{}, fmt.Errorf("rotation step %.2f out of range (0, 360]", rotationStepDegrees)
	}
	angles := rotationsFromStep(rotationStepDegrees)
	p := Preset{
		Name:      fmt.Sprintf("custom-%g", rotationStepDegrees),
		Rotations: angles,
	}
	switch n := len(angles); {
	case n >= 72:
		p.QualityTier = TierOptimal
		p.StepSize, p.CellsPerUnit = 0.15, 50
	case n >= 24:
		p.QualityTier = TierExcellent
		p.StepSize, p.CellsPerUnit = 0.1, 60
	case n >= 8:
		p.QualityTier = TierGood
		p.StepSize, p.CellsPerUnit = 0.075, 80
	default:
		p.QualityTier = TierBasic
		p.StepSize, p.CellsPerUnit = 0.05, 100
	}
	p.SpeedFactor = float64(len(angles)) / 4.0
	return p, nil
}

// EstimateRuntime scales a caller-supplied baseline per-item time by the
// preset's speed factor and the item count. Advisory only; never gates
// packing.
func (p Preset) EstimateRuntime(itemCount int, baselinePerItem time.Duration) time.Duration {
	if itemCount < 0 {
		itemCount = 0
	}
	return time.Duration(float64(baselinePerItem) * p.SpeedFactor * float64(itemCount))
}

// FormatDuration renders an estimate for display as seconds, minutes or
// hours.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0f seconds", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1f minutes", d.Minutes())
	default:
		return fmt.Sprintf("%.1f hours", d.Hours())
	}
}
