package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/StickerNest/internal/model"
)

// Progress carries a snapshot of the best-known solution of a long-running
// strategy. Delivery is fire-and-forget; dropped notifications never affect
// the final result.
type Progress struct {
	Generation  int
	Fitness     float64
	Utilization float64
	Placements  []model.Placement
}

// ProgressFunc receives progress notifications. It is called from the
// packing goroutine, so implementations should hand off quickly.
type ProgressFunc func(Progress)

// Config holds everything a single-sheet strategy needs. It is a pure
// value: strategies never mutate it, which keeps packing a pure function of
// its inputs and makes offloading to a worker goroutine trivial.
type Config struct {
	Sheet            model.Sheet
	Spacing          float64
	Preset           Preset
	TrackPerformance bool
	Progress         ProgressFunc
	Anneal           AnnealConfig
	Genetic          GeneticConfig
}

// Strategy is a single-sheet packer. All strategies produce the same result
// shape so callers, including the multi-sheet scheduler, can swap them
// freely. Pack polls ctx between units of work and returns the best result
// found so far on cancellation.
type Strategy interface {
	Name() model.StrategyName
	Pack(ctx context.Context, parts []model.Part) model.PackingResult
}

// New builds the named strategy. The sheet dimensions are the only fatal
// precondition; everything else degrades to per-part outcomes.
func New(name model.StrategyName, cfg Config) (Strategy, error) {
	if err := cfg.Sheet.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Preset.Rotations) == 0 {
		p, _ := PresetByName("fast")
		cfg.Preset = p
	}
	if cfg.Anneal.Iterations == 0 {
		cfg.Anneal = DefaultAnnealConfig()
	}
	if cfg.Genetic.PopulationSize == 0 {
		cfg.Genetic = DefaultGeneticConfig()
	}
	switch name {
	case model.StrategyGridScan, "":
		return &GridPacker{cfg: cfg, raster: newRasterizer(cfg.Preset.CellsPerUnit)}, nil
	case model.StrategyNFP:
		return &NFPPacker{cfg: cfg}, nil
	case model.StrategyAnneal:
		return newAnnealPacker(cfg), nil
	case model.StrategyGenetic:
		return newGeneticPacker(cfg), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// cancelled reports whether the context has been cancelled without blocking.
func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
