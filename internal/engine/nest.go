package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/StickerNest/internal/model"
)

// ConfigFromRequest resolves a request's preset and overrides into a
// strategy configuration. Explicit rotations, grid resolution, or step size
// in the request take precedence over the named preset's values.
func ConfigFromRequest(r model.NestRequest) (Config, error) {
	name := r.Preset
	if name == "" {
		name = "fast"
	}
	preset, err := PresetByName(name)
	if err != nil {
		return Config{}, err
	}

	if len(r.Rotations) > 0 {
		preset.Rotations = r.Rotations
	}
	if r.CellsPerUnit > 0 {
		preset.CellsPerUnit = r.CellsPerUnit
	}
	if r.StepSize > 0 {
		preset.StepSize = r.StepSize
	}

	return Config{
		Sheet:            r.Sheet(),
		Spacing:          r.Spacing,
		Preset:           preset,
		TrackPerformance: r.TrackPerformance,
	}, nil
}

// ConfigFromSettings builds a strategy configuration from persisted project
// settings. A positive RotationStep derives a custom preset.
func ConfigFromSettings(s model.NestSettings) (Config, error) {
	var preset Preset
	var err error
	if s.RotationStep > 0 {
		preset, err = CustomPreset(s.RotationStep)
	} else {
		name := s.Preset
		if name == "" {
			name = "fast"
		}
		preset, err = PresetByName(name)
	}
	if err != nil {
		return Config{}, err
	}
	return Config{
		Sheet:   s.Sheet,
		Spacing: s.Spacing,
		Preset:  preset,
	}, nil
}

// Nest executes a complete nesting request: validation, part conversion,
// strategy dispatch, and single- or multi-sheet packing. Invalid stickers
// are skipped; only a malformed sheet or configuration fails the request.
func Nest(ctx context.Context, r model.NestRequest) model.NestResponse {
	if err := r.Validate(); err != nil {
		return model.ErrorResponse(err)
	}

	cfg, err := ConfigFromRequest(r)
	if err != nil {
		return model.ErrorResponse(err)
	}

	parts, partErrs := r.Parts()
	if len(parts) == 0 && len(partErrs) > 0 {
		return model.ErrorResponse(fmt.Errorf("no valid stickers in request: %v", partErrs[0]))
	}

	if r.ProductionMode {
		result, err := NestMultiSheet(ctx, r.Strategy, cfg, parts, r.SheetCount, r.PackAllItems)
		if err != nil {
			return model.ErrorResponse(err)
		}
		return model.MultiResponse(result)
	}

	strategy, err := New(r.Strategy, cfg)
	if err != nil {
		return model.ErrorResponse(err)
	}
	return model.SingleResponse(strategy.Pack(ctx, parts))
}
