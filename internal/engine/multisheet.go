package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/piwi3910/StickerNest/internal/model"
)

// Scheduler turns a single-sheet strategy into a production run: it invokes
// the strategy once per sheet, distributing each part's requested quantity
// over the fixed sheet count. Every copy is an independent packable
// instance distinguished by an instance suffix on its id.
type Scheduler struct {
	strategy Strategy
	sheet    model.Sheet
}

// NewScheduler builds a scheduler around the named strategy.
func NewScheduler(name model.StrategyName, cfg Config) (*Scheduler, error) {
	s, err := New(name, cfg)
	if err != nil {
		return nil, err
	}
	return &Scheduler{strategy: s, sheet: cfg.Sheet}, nil
}

// Nest packs up to sheetCount sheets. With packAllItems false the remaining
// copies of each part are spread evenly over the remaining sheets; with it
// true every remaining copy is offered to every sheet, cramming early
// sheets as full as possible. Either way a copy that fails to place stays
// in the remaining demand and is retried on later sheets, and the result
// never reports more copies than were requested.
func (s *Scheduler) Nest(ctx context.Context, parts []model.Part, sheetCount int, packAllItems bool) model.MultiSheetResult {
	result := model.MultiSheetResult{Quantities: make(map[string]int)}

	remaining := make(map[string]int, len(parts))
	byID := make(map[string]model.Part, len(parts))
	instanceSeq := make(map[string]int, len(parts))
	for _, p := range parts {
		qty := p.Quantity
		if qty < 1 {
			qty = 1
		}
		remaining[p.ID] = qty
		byID[p.ID] = p
		result.Quantities[p.ID] = 0
	}

	utilSum := 0.0
	for sheetIdx := 0; sheetIdx < sheetCount; sheetIdx++ {
		if cancelled(ctx) {
			break
		}
		totalDemand := 0
		for _, r := range remaining {
			totalDemand += r
		}
		if totalDemand == 0 {
			break
		}

		working := s.workingList(parts, remaining, instanceSeq, sheetCount-sheetIdx, packAllItems)
		packed := s.strategy.Pack(ctx, working)

		for _, pl := range packed.Placements {
			orig := stripInstanceSuffix(pl.ID)
			if remaining[orig] > 0 {
				remaining[orig]--
				result.Quantities[orig]++
			}
		}

		result.Sheets = append(result.Sheets, model.SheetResult{
			SheetIndex:  sheetIdx,
			Placements:  packed.Placements,
			Utilization: packed.Utilization,
		})
		utilSum += packed.Utilization
	}

	// All sheets share one geometry, so the area-weighted mean reduces to
	// the plain mean over the sheets actually produced.
	if len(result.Sheets) > 0 {
		result.TotalUtilization = utilSum / float64(len(result.Sheets))
	}
	return result
}

// workingList expands remaining quantities into per-copy instances for one
// sheet. sheetsLeft includes the current sheet.
func (s *Scheduler) workingList(parts []model.Part, remaining, instanceSeq map[string]int, sheetsLeft int, packAllItems bool) []model.Part {
	var working []model.Part
	for _, p := range parts {
		rem := remaining[p.ID]
		if rem == 0 {
			continue
		}
		copies := rem
		if !packAllItems && sheetsLeft > 1 {
			// Spread demand over the remaining sheets instead of cramming
			// everything onto the first one.
			copies = (rem + sheetsLeft - 1) / sheetsLeft
		}
		for c := 0; c < copies; c++ {
			inst := p
			inst.ID = fmt.Sprintf("%s#%d", p.ID, instanceSeq[p.ID])
			instanceSeq[p.ID]++
			inst.Quantity = 1
			working = append(working, inst)
		}
	}
	return working
}

// stripInstanceSuffix recovers the original part id from a per-copy
// instance id.
func stripInstanceSuffix(id string) string {
	if i := strings.LastIndex(id, "#"); i >= 0 {
		return id[:i]
	}
	return id
}

// NestMultiSheet is the one-call production entry point.
func NestMultiSheet(ctx context.Context, name model.StrategyName, cfg Config, parts []model.Part, sheetCount int, packAllItems bool) (model.MultiSheetResult, error) {
	if sheetCount < 1 {
		return model.MultiSheetResult{}, fmt.Errorf("sheet count must be positive, got %d", sheetCount)
	}
	sched, err := NewScheduler(name, cfg)
	if err != nil {
		return model.MultiSheetResult{}, err
	}
	return sched.Nest(ctx, parts, sheetCount, packAllItems), nil
}
