package engine

import (
	"context"

	"github.com/piwi3910/StickerNest/internal/model"
)

// NFPPacker is the greedy no-fit-polygon strategy. Instead of scanning a
// dense position grid it computes, for each placed item, the locus of
// translations where the moving part first touches it (the no-fit polygon
// of their convex hulls) and only evaluates candidates on that contact set
// plus the sheet corners. Candidates are validated with an exact polygon
// overlap test, so concave parts stay collision-free even though the
// contact set comes from their hulls.
type NFPPacker struct {
	cfg Config
}

func (p *NFPPacker) Name() model.StrategyName { return model.StrategyNFP }

func (p *NFPPacker) Pack(ctx context.Context, parts []model.Part) model.PackingResult {
	nester := newNFPNester(p.cfg)
	return nester.pack(ctx, parts, nil)
}

// placedItem records one accepted placement's transformed, inflated outline.
type placedItem struct {
	outline model.Outline
	hull    model.Outline
	area    float64 // original, uninflated part area
}

// nfpNester is the greedy placement core. The annealing and genetic
// strategies reuse it to decode an (order, rotation) state into placements.
type nfpNester struct {
	sheet     model.Sheet
	spacing   float64
	rotations []float64
	placed    []placedItem
}

func newNFPNester(cfg Config) *nfpNester {
	return &nfpNester{
		sheet:     cfg.Sheet,
		spacing:   cfg.Spacing,
		rotations: cfg.Preset.Rotations,
	}
}

// pack places parts in order. When preferred is non-nil it holds one
// rotation per part; that rotation is tried first and wins if it fits,
// which is what lets the metaheuristics steer rotation assignment. With a
// nil preferred list every rotation competes and the lowest bottom-left
// position wins.
func (n *nfpNester) pack(ctx context.Context, parts []model.Part, preferred []float64) model.PackingResult {
	n.placed = n.placed[:0]
	result := model.PackingResult{}
	placedArea := 0.0

	for i, part := range parts {
		if cancelled(ctx) {
			for _, rest := range parts[i:] {
				result.UnplacedIDs = append(result.UnplacedIDs, rest.ID)
			}
			break
		}
		if len(part.Boundary) < 3 {
			result.Placements = append(result.Placements, model.Placement{ID: part.ID})
			continue
		}

		var prefer *float64
		if preferred != nil {
			prefer = &preferred[i]
		}
		placement, ok := n.placePart(part, prefer)
		if ok {
			result.Placements = append(result.Placements, placement)
			placedArea += part.Area
		} else {
			result.UnplacedIDs = append(result.UnplacedIDs, part.ID)
		}
	}

	if a := n.sheet.Area(); a > 0 {
		result.Utilization = 100.0 * placedArea / a
	}
	return result
}

func (n *nfpNester) placePart(part model.Part, prefer *float64) (model.Placement, bool) {
	centroid := part.Boundary.Centroid()
	inflated := part.Boundary.Inflate(n.spacing / 2)

	rotations := n.rotations
	if prefer != nil {
		rotations = append([]float64{*prefer}, withoutAngle(n.rotations, *prefer)...)
	}

	type candidate struct {
		tx, ty   float64
		rotation float64
		outline  model.Outline
		hull     model.Outline
		bx, by   float64 // placed bounding-box min corner, the selection key
	}
	var best *candidate

	for _, rot := range rotations {
		rotated := inflated.RotateAround(centroid, rot)
		rmin, rmax := rotated.BoundingBox()
		bw := rmax.X - rmin.X
		bh := rmax.Y - rmin.Y
		const eps = 1e-9
		if bw > n.sheet.Width+eps || bh > n.sheet.Height+eps {
			continue
		}

		movingHull := rotated.ConvexHull()
		for _, t := range n.candidates(rmin, rmax, movingHull) {
			if rmin.X+t.X < -eps || rmax.X+t.X > n.sheet.Width+eps ||
				rmin.Y+t.Y < -eps || rmax.Y+t.Y > n.sheet.Height+eps {
				continue
			}
			moved := rotated.Translate(t.X, t.Y)
			if n.overlapsAny(moved) {
				continue
			}
			c := candidate{
				tx: t.X, ty: t.Y,
				rotation: rot,
				outline:  moved,
				bx:       rmin.X + t.X,
				by:       rmin.Y + t.Y,
			}
			if best == nil || c.by < best.by-eps ||
				(c.by < best.by+eps && c.bx < best.bx) {
				c.hull = movingHull.Translate(t.X, t.Y)
				cc := c
				best = &cc
			}
		}

		// A preferred rotation that fits wins outright; the state encodes
		// the rotation choice, so falling through would second-guess it.
		if prefer != nil && best != nil {
			break
		}
	}

	if best == nil {
		return model.Placement{}, false
	}
	n.placed = append(n.placed, placedItem{
		outline: best.outline,
		hull:    best.hull,
		area:    part.Area,
	})
	return model.Placement{
		ID:       part.ID,
		X:        best.tx,
		Y:        best.ty,
		Rotation: best.rotation,
	}, true
}

// candidates builds the contact set of translations for the rotated moving
// hull: the sheet corners plus, for every placed item, the vertices and
// edge midpoints of the pair's no-fit polygon.
func (n *nfpNester) candidates(rmin, rmax model.Point2D, movingHull model.Outline) []model.Point2D {
	cands := []model.Point2D{
		{X: -rmin.X, Y: -rmin.Y},
		{X: n.sheet.Width - rmax.X, Y: -rmin.Y},
		{X: -rmin.X, Y: n.sheet.Height - rmax.Y},
		{X: n.sheet.Width - rmax.X, Y: n.sheet.Height - rmax.Y},
	}
	for _, item := range n.placed {
		nfp := noFitPolygon(item.hull, movingHull)
		// A hair of extra clearance keeps exactly-touching hulls from
		// tripping the overlap test on float error.
		nfp = nfp.Inflate(1e-7)
		m := len(nfp)
		for i, v := range nfp {
			cands = append(cands, v)
			next := nfp[(i+1)%m]
			cands = append(cands, model.Point2D{X: (v.X + next.X) / 2, Y: (v.Y + next.Y) / 2})
		}
	}
	return cands
}

func (n *nfpNester) overlapsAny(outline model.Outline) bool {
	for _, item := range n.placed {
		if outline.Overlaps(item.outline) {
			return true
		}
	}
	return false
}

// noFitPolygon returns the locus of translations of the moving hull (with
// its reference at its local origin) at which it touches the fixed hull:
// the convex hull of the Minkowski sum fixed + (-moving). For convex
// inputs, translations on this boundary put the shapes in contact and
// translations inside it make them overlap.
func noFitPolygon(fixed, moving model.Outline) model.Outline {
	if len(fixed) == 0 || len(moving) == 0 {
		return nil
	}
	sums := make(model.Outline, 0, len(fixed)*len(moving))
	for _, f := range fixed {
		for _, m := range moving {
			sums = append(sums, model.Point2D{X: f.X - m.X, Y: f.Y - m.Y})
		}
	}
	return sums.ConvexHull()
}

// withoutAngle returns angles with the first occurrence of a removed.
func withoutAngle(angles []float64, a float64) []float64 {
	out := make([]float64, 0, len(angles))
	removed := false
	for _, v := range angles {
		if !removed && v == a {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out
}
