package engine

import (
	"context"
	"time"

	"github.com/piwi3910/StickerNest/internal/model"
)

// GridPacker is the reference single-sheet strategy: a rasterized
// first-fit scan. For each part, rotations are tried in preset order; for
// each rotation, candidate positions are scanned row-major from the sheet
// origin at the preset step, and the first collision-free candidate wins.
// The fixed scan order makes results reproducible.
type GridPacker struct {
	cfg    Config
	raster rasterizer
}

func (p *GridPacker) Name() model.StrategyName { return model.StrategyGridScan }

// Pack places as many parts as fit, in input order. The caller controls
// priority by ordering the slice, typically largest-first. One part's
// failure never aborts the run.
func (p *GridPacker) Pack(ctx context.Context, parts []model.Part) model.PackingResult {
	grid := newOccupancyGrid(p.cfg.Sheet.Width, p.cfg.Sheet.Height, p.cfg.Preset.CellsPerUnit)

	result := model.PackingResult{}
	start := time.Now()
	positionsTried := 0

	for i, part := range parts {
		if cancelled(ctx) {
			// Anytime semantics: report the rest as unplaced and return
			// what we have.
			for _, rest := range parts[i:] {
				result.UnplacedIDs = append(result.UnplacedIDs, rest.ID)
			}
			break
		}

		// Degenerate geometry covers no cells and always "fits"; callers
		// should have rejected it upstream.
		if len(part.Boundary) < 3 {
			result.Placements = append(result.Placements, model.Placement{ID: part.ID})
			continue
		}

		placement, tried, ok := p.placePart(grid, part)
		positionsTried += tried
		if ok {
			result.Placements = append(result.Placements, placement)
		} else {
			result.UnplacedIDs = append(result.UnplacedIDs, part.ID)
		}
	}

	result.Utilization = grid.utilization()
	if p.cfg.TrackPerformance {
		elapsed := time.Since(start)
		perItem := time.Duration(0)
		if len(parts) > 0 {
			perItem = elapsed / time.Duration(len(parts))
		}
		result.Metrics = &model.PerformanceMetrics{
			PositionsTried: positionsTried,
			ElapsedMs:      float64(elapsed.Microseconds()) / 1000.0,
			PerItemMs:      float64(perItem.Microseconds()) / 1000.0,
			Rotations:      len(p.cfg.Preset.Rotations),
			CellsPerUnit:   p.cfg.Preset.CellsPerUnit,
			StepSize:       p.cfg.Preset.StepSize,
		}
	}
	return result
}

// placePart scans rotations and positions for one part. First fit wins: the
// scan stops at the first collision-free candidate, with no backtracking
// across rotations once a placement is found.
func (p *GridPacker) placePart(grid *occupancyGrid, part model.Part) (model.Placement, int, bool) {
	step := p.cfg.Preset.StepSize
	sheetW := p.cfg.Sheet.Width
	sheetH := p.cfg.Sheet.Height
	centroid := part.Boundary.Centroid()
	inflated := part.Boundary.Inflate(p.cfg.Spacing / 2)

	tried := 0
	const eps = 1e-9

	for _, rot := range p.cfg.Preset.Rotations {
		rotated := inflated.RotateAround(centroid, rot)
		rmin, rmax := rotated.BoundingBox()
		bw := rmax.X - rmin.X
		bh := rmax.Y - rmin.Y
		if bw > sheetW+eps || bh > sheetH+eps {
			continue
		}

		for scanY := 0.0; scanY+bh <= sheetH+eps; scanY += step {
			for scanX := 0.0; scanX+bw <= sheetW+eps; scanX += step {
				tried++
				dx := scanX - rmin.X
				dy := scanY - rmin.Y
				cells := p.raster.cells(rotated.Translate(dx, dy))
				if grid.checkCollision(cells) {
					continue
				}
				grid.markOccupied(cells)
				placement := model.Placement{
					ID:       part.ID,
					X:        dx,
					Y:        dy,
					Rotation: rot,
				}
				if p.cfg.TrackPerformance {
					placement.Cells = cells
				}
				return placement, tried, true
			}
		}
	}
	return model.Placement{}, tried, false
}
