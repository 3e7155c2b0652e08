package engine

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/piwi3910/StickerNest/internal/model"
)

// AnnealConfig holds parameters for the simulated annealing optimizer.
type AnnealConfig struct {
	InitialTemperature float64
	CoolingRate        float64 // geometric decay per iteration
	Iterations         int
	NeighbourhoodSize  int // candidate neighbours evaluated per iteration
	Seed               int64
}

// DefaultAnnealConfig returns sensible default parameters.
func DefaultAnnealConfig() AnnealConfig {
	return AnnealConfig{
		InitialTemperature: 10.0,
		CoolingRate:        0.95,
		Iterations:         400,
		NeighbourhoodSize:  4,
		Seed:               42,
	}
}

// AnnealPacker searches the (part order, rotation assignment) space by
// simulated annealing. States are decoded into placements by the greedy
// no-fit-polygon nester; worse states are accepted with probability
// exp(-delta/T) and T decays geometrically each iteration.
type AnnealPacker struct {
	cfg          Config
	rng          *rand.Rand
	improvements int
}

func newAnnealPacker(cfg Config) *AnnealPacker {
	return &AnnealPacker{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Anneal.Seed)),
	}
}

func (p *AnnealPacker) Name() model.StrategyName { return model.StrategyAnneal }

// Improvements returns the number of accepted strictly-better moves of the
// last Pack call. Diagnostic only.
func (p *AnnealPacker) Improvements() int { return p.improvements }

// annealState is one candidate solution: a part ordering plus a rotation
// assignment per part (indexed by position in the original slice).
type annealState struct {
	order []int
	rots  []float64
}

func (s annealState) clone() annealState {
	order := make([]int, len(s.order))
	copy(order, s.order)
	rots := make([]float64, len(s.rots))
	copy(rots, s.rots)
	return annealState{order: order, rots: rots}
}

func (p *AnnealPacker) Pack(ctx context.Context, parts []model.Part) model.PackingResult {
	p.improvements = 0
	if len(parts) == 0 {
		return model.PackingResult{}
	}

	nester := newNFPNester(p.cfg)
	decode := func(s annealState) model.PackingResult {
		ordered := make([]model.Part, len(s.order))
		preferred := make([]float64, len(s.order))
		for i, idx := range s.order {
			ordered[i] = parts[idx]
			preferred[i] = s.rots[idx]
		}
		return nester.pack(context.Background(), ordered, preferred)
	}

	cur := p.initialState(parts)
	curResult := decode(cur)
	curEnergy := energy(curResult)

	bestResult := curResult
	bestEnergy := curEnergy

	cfg := p.cfg.Anneal
	temp := cfg.InitialTemperature

	for it := 0; it < cfg.Iterations; it++ {
		if cancelled(ctx) {
			break
		}

		// Evaluate a small neighbourhood and move toward its best member.
		var cand annealState
		var candResult model.PackingResult
		candEnergy := math.Inf(1)
		for k := 0; k < cfg.NeighbourhoodSize; k++ {
			nb := p.neighbour(cur)
			r := decode(nb)
			if e := energy(r); e < candEnergy {
				cand, candResult, candEnergy = nb, r, e
			}
		}

		delta := candEnergy - curEnergy
		if delta < 0 || p.rng.Float64() < math.Exp(-delta/temp) {
			cur, curResult, curEnergy = cand, candResult, candEnergy
		}
		if curEnergy < bestEnergy {
			bestResult = curResult
			bestEnergy = curEnergy
			p.improvements++
			p.notify(it, bestResult)
		}
		temp *= cfg.CoolingRate
	}

	return bestResult
}

// initialState seeds the search with the greedy ordering: largest area
// first, every part at the preset's first rotation.
func (p *AnnealPacker) initialState(parts []model.Part) annealState {
	order := make([]int, len(parts))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return parts[order[i]].Area > parts[order[j]].Area
	})
	rots := make([]float64, len(parts))
	for i := range rots {
		rots[i] = p.cfg.Preset.Rotations[0]
	}
	return annealState{order: order, rots: rots}
}

// neighbour perturbs a state: swap two order positions, reassign a random
// part's rotation, or move one part to a different position in the order.
func (p *AnnealPacker) neighbour(s annealState) annealState {
	nb := s.clone()
	n := len(nb.order)
	if n < 2 {
		return nb
	}
	switch p.rng.Intn(3) {
	case 0:
		i, j := p.rng.Intn(n), p.rng.Intn(n)
		nb.order[i], nb.order[j] = nb.order[j], nb.order[i]
	case 1:
		i := p.rng.Intn(n)
		rots := p.cfg.Preset.Rotations
		nb.rots[nb.order[i]] = rots[p.rng.Intn(len(rots))]
	default:
		from := p.rng.Intn(n)
		to := p.rng.Intn(n)
		v := nb.order[from]
		nb.order = append(nb.order[:from], nb.order[from+1:]...)
		if to > len(nb.order) {
			to = len(nb.order)
		}
		nb.order = append(nb.order[:to], append([]int{v}, nb.order[to:]...)...)
	}
	return nb
}

func (p *AnnealPacker) notify(iteration int, r model.PackingResult) {
	if p.cfg.Progress == nil {
		return
	}
	p.cfg.Progress(Progress{
		Generation:  iteration,
		Fitness:     -energy(r),
		Utilization: r.Utilization,
		Placements:  r.Placements,
	})
}

// energy scores a decoded result; lower is better. Unplaced parts dominate
// utilization so the search always prefers placing one more part.
func energy(r model.PackingResult) float64 {
	return -r.Utilization + 10.0*float64(len(r.UnplacedIDs))
}
