package model

import (
	"errors"
	"testing"
)

func TestNewPartNormalizesToOrigin(t *testing.T) {
	p := NewPart("Logo", Outline{{X: 3, Y: 4}, {X: 5, Y: 4}, {X: 5, Y: 6}, {X: 3, Y: 6}})

	min, _ := p.Boundary.BoundingBox()
	if min.X != 0 || min.Y != 0 {
		t.Errorf("boundary should be normalized to the origin, got min (%g,%g)", min.X, min.Y)
	}
	if p.Width != 2 || p.Height != 2 {
		t.Errorf("expected 2x2, got %gx%g", p.Width, p.Height)
	}
	if !almostEqual(p.Area, 4) {
		t.Errorf("expected area 4, got %g", p.Area)
	}
	if p.Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", p.Quantity)
	}
	if len(p.ID) != 8 {
		t.Errorf("expected 8-char id, got %q", p.ID)
	}
}

func TestNewPartIDsAreUnique(t *testing.T) {
	a := NewRectPart("A", 1, 1)
	b := NewRectPart("A", 1, 1)
	if a.ID == b.ID {
		t.Error("two parts should never share an id")
	}
}

func TestNewRectPart(t *testing.T) {
	p := NewRectPart("Badge", 2.5, 3)
	if p.Label != "Badge" {
		t.Errorf("expected label Badge, got %q", p.Label)
	}
	if p.Width != 2.5 || p.Height != 3 {
		t.Errorf("expected 2.5x3, got %gx%g", p.Width, p.Height)
	}
	if !almostEqual(p.Area, 7.5) {
		t.Errorf("expected area 7.5, got %g", p.Area)
	}
}

func TestPartValidate(t *testing.T) {
	if err := NewRectPart("OK", 1, 1).Validate(); err != nil {
		t.Errorf("valid part should pass: %v", err)
	}

	tooFew := Part{ID: "x", Boundary: Outline{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	if err := tooFew.Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for 2-point boundary, got %v", err)
	}

	bowtie := Part{ID: "x", Boundary: Outline{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}}}
	if err := bowtie.Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for self-intersecting boundary, got %v", err)
	}
}

func TestPartValidateAreaMismatch(t *testing.T) {
	p := NewRectPart("Liar", 2, 2)
	p.Area = 10 // declared area wildly off the computed 4
	if err := p.Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for area mismatch, got %v", err)
	}

	// A tiny disagreement within tolerance is fine.
	p.Area = 4.02
	if err := p.Validate(); err != nil {
		t.Errorf("area within tolerance should pass: %v", err)
	}
}

func TestSheetValidate(t *testing.T) {
	if err := (Sheet{Width: 8.5, Height: 11}).Validate(); err != nil {
		t.Errorf("valid sheet should pass: %v", err)
	}
	for _, s := range []Sheet{{0, 11}, {8.5, 0}, {-1, 11}} {
		if err := s.Validate(); !errors.Is(err, ErrInvalidSheet) {
			t.Errorf("sheet %+v: expected ErrInvalidSheet, got %v", s, err)
		}
	}
}

func TestSheetArea(t *testing.T) {
	if a := (Sheet{Width: 8.5, Height: 11}).Area(); !almostEqual(a, 93.5) {
		t.Errorf("expected 93.5, got %g", a)
	}
}

func TestMultiSheetResultPlacedCount(t *testing.T) {
	r := MultiSheetResult{
		Sheets: []SheetResult{
			{Placements: []Placement{{ID: "a#0"}, {ID: "a#1"}}},
			{Placements: []Placement{{ID: "a#2"}}},
		},
	}
	if n := r.PlacedCount(); n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
	if n := (MultiSheetResult{}).PlacedCount(); n != 0 {
		t.Errorf("expected 0 for empty result, got %d", n)
	}
}

func TestSheetSizeByName(t *testing.T) {
	s, ok := SheetSizeByName("US Letter")
	if !ok {
		t.Fatal("US Letter should be a known size")
	}
	if s.Width != 8.5 || s.Height != 11 || s.Unit != "in" {
		t.Errorf("unexpected US Letter definition: %+v", s)
	}

	if _, ok := SheetSizeByName("B7"); ok {
		t.Error("unknown size should report false")
	}
}
