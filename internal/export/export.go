// Package export writes nesting results to production file formats: a PDF
// layout preview, DXF cut paths, an XLSX report, and QR-coded job labels.
package export

import (
	"strings"

	"github.com/piwi3910/StickerNest/internal/model"
)

// PartIndex maps part ids to their definitions for placement lookup.
type PartIndex map[string]model.Part

// NewPartIndex builds a lookup from a part list.
func NewPartIndex(parts []model.Part) PartIndex {
	idx := make(PartIndex, len(parts))
	for _, p := range parts {
		idx[p.ID] = p
	}
	return idx
}

// Lookup resolves a placement id to its part. Multi-sheet runs suffix each
// copy with "#n"; the suffix is stripped before lookup.
func (idx PartIndex) Lookup(placementID string) (model.Part, bool) {
	p, ok := idx[basePartID(placementID)]
	return p, ok
}

// basePartID strips the per-copy instance suffix from a placement id.
func basePartID(id string) string {
	if i := strings.LastIndex(id, "#"); i >= 0 {
		return id[:i]
	}
	return id
}

// placedOutline returns a part's boundary transformed to its placed
// position: rotated about the boundary centroid, then translated.
func placedOutline(part model.Part, pl model.Placement) model.Outline {
	return part.Boundary.
		RotateAround(part.Boundary.Centroid(), pl.Rotation).
		Translate(pl.X, pl.Y)
}
