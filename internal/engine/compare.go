package engine

import (
	"context"
	"time"

	"github.com/piwi3910/StickerNest/internal/model"
)

// ComparisonScenario defines a named strategy/configuration to compare.
type ComparisonScenario struct {
	Name     string
	Strategy model.StrategyName
	Config   Config
}

// ComparisonResult holds the packing result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackingResult
	PlacedCount   int
	UnplacedCount int
	Utilization   float64
	Elapsed       time.Duration
}

// CompareScenarios runs each scenario against the same parts and returns
// the results in scenario order. This enables side-by-side comparison of
// strategies and presets on one request.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, parts []model.Part) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		strategy, err := New(scenario.Strategy, scenario.Config)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		packed := strategy.Pack(ctx, parts)
		elapsed := time.Since(start)

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        packed,
			PlacedCount:   len(packed.Placements),
			UnplacedCount: len(packed.UnplacedIDs),
			Utilization:   packed.Utilization,
			Elapsed:       elapsed,
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates comparison scenarios from a base
// configuration: the selected strategy as-is, the other strategies on the
// same preset, and the base strategy one quality tier up.
func BuildDefaultScenarios(base Config, strategy model.StrategyName) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Strategy: strategy, Config: base},
	}

	for _, alt := range []model.StrategyName{
		model.StrategyGridScan, model.StrategyNFP, model.StrategyAnneal, model.StrategyGenetic,
	} {
		if alt == strategy {
			continue
		}
		scenarios = append(scenarios, ComparisonScenario{
			Name:     string(alt) + " strategy",
			Strategy: alt,
			Config:   base,
		})
	}

	if next, ok := nextPresetUp(base.Preset.Name); ok {
		cfg := base
		cfg.Preset = next
		scenarios = append(scenarios, ComparisonScenario{
			Name:     next.Name + " preset",
			Strategy: strategy,
			Config:   cfg,
		})
	}

	return scenarios
}

// nextPresetUp returns the named preset one quality tier above the given
// one, if any.
func nextPresetUp(name string) (Preset, bool) {
	for i, p := range presets {
		if p.Name == name && i+1 < len(presets) {
			return presets[i+1], true
		}
	}
	return Preset{}, false
}
