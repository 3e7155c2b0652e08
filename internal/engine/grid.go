package engine

import (
	"math"

	"github.com/piwi3910/StickerNest/internal/model"
)

// occupancyGrid is a discretized free/occupied map of one sheet. A grid is
// created fresh for each sheet packing call, mutated only by markOccupied,
// and discarded when that sheet finishes. It is never shared across
// concurrent packing runs.
type occupancyGrid struct {
	width         int // cells
	height        int // cells
	cellsPerUnit  float64
	occupied      []bool
	occupiedCount int
}

func newOccupancyGrid(sheetWidth, sheetHeight, cellsPerUnit float64) *occupancyGrid {
	w := int(math.Ceil(sheetWidth * cellsPerUnit))
	h := int(math.Ceil(sheetHeight * cellsPerUnit))
	return &occupancyGrid{
		width:        w,
		height:       h,
		cellsPerUnit: cellsPerUnit,
		occupied:     make([]bool, w*h),
	}
}

// checkCollision reports true if any cell is already occupied or lies
// outside the grid. Out of bounds is a collision, not an error: the scan
// loop treats the sheet edge like any other obstacle.
func (g *occupancyGrid) checkCollision(cells []model.GridCell) bool {
	for _, c := range cells {
		if c.X < 0 || c.Y < 0 || c.X >= g.width || c.Y >= g.height {
			return true
		}
		if g.occupied[c.Y*g.width+c.X] {
			return true
		}
	}
	return false
}

// markOccupied marks cells as occupied. Marking an already-occupied cell is
// a no-op, and out-of-bounds cells are skipped.
func (g *occupancyGrid) markOccupied(cells []model.GridCell) {
	for _, c := range cells {
		if c.X < 0 || c.Y < 0 || c.X >= g.width || c.Y >= g.height {
			continue
		}
		idx := c.Y*g.width + c.X
		if !g.occupied[idx] {
			g.occupied[idx] = true
			g.occupiedCount++
		}
	}
}

// utilization returns the occupied percentage, recomputed from the cell
// count on every call so it can never drift.
func (g *occupancyGrid) utilization() float64 {
	total := g.width * g.height
	if total == 0 {
		return 0
	}
	return 100.0 * float64(g.occupiedCount) / float64(total)
}
