package model

import "math"

// Point2D represents a 2D coordinate. Units are whatever the caller uses
// consistently (inches or mm); the engine never converts.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: o[0].X, Y: o[0].Y}
	max = Point2D{X: o[0].X, Y: o[0].Y}
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// RotateAround rotates all points by the given angle in degrees,
// counterclockwise, about the given center point.
func (o Outline) RotateAround(center Point2D, degrees float64) Outline {
	rad := degrees * math.Pi / 180.0
	sin, cos := math.Sin(rad), math.Cos(rad)
	result := make(Outline, len(o))
	for i, p := range o {
		dx := p.X - center.X
		dy := p.Y - center.Y
		result[i] = Point2D{
			X: center.X + dx*cos - dy*sin,
			Y: center.Y + dx*sin + dy*cos,
		}
	}
	return result
}

// SignedArea returns the signed shoelace area. Positive for counterclockwise
// winding, negative for clockwise.
func (o Outline) SignedArea() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return area / 2
}

// Area returns the unsigned polygon area.
func (o Outline) Area() float64 {
	return math.Abs(o.SignedArea())
}

// Centroid returns the area centroid of the outline. Degenerate outlines
// (fewer than 3 points or near-zero area) fall back to the vertex average.
func (o Outline) Centroid() Point2D {
	n := len(o)
	if n == 0 {
		return Point2D{}
	}
	a := o.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		var sum Point2D
		for _, p := range o {
			sum.X += p.X
			sum.Y += p.Y
		}
		return Point2D{X: sum.X / float64(n), Y: sum.Y / float64(n)}
	}
	var cx, cy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := o[i].X*o[j].Y - o[j].X*o[i].Y
		cx += (o[i].X + o[j].X) * cross
		cy += (o[i].Y + o[j].Y) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point2D{X: cx * f, Y: cy * f}
}

// Contains reports whether the point lies inside the outline, using the
// standard ray-casting test. Points exactly on an edge may land on either
// side; the rasterizer tolerates that.
func (o Outline) Contains(p Point2D) bool {
	n := len(o)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := o[i], o[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Reverse returns the outline with reversed vertex order.
func (o Outline) Reverse() Outline {
	n := len(o)
	rev := make(Outline, n)
	for i, p := range o {
		rev[n-1-i] = p
	}
	return rev
}

// ensureCCW returns the outline wound counterclockwise.
func (o Outline) ensureCCW() Outline {
	if o.SignedArea() < 0 {
		return o.Reverse()
	}
	return o
}

// Inflate offsets the outline outward by the given margin using mitered
// edge offsets. Two shapes inflated by half the cutting spacing must not
// overlap even when their bare outlines touch, so the packer inflates
// every part before rasterizing or testing contacts. A zero or negative
// margin returns the outline unchanged.
func (o Outline) Inflate(margin float64) Outline {
	n := len(o)
	if n < 3 || margin <= 0 {
		return o
	}
	ccw := o.ensureCCW()

	result := make(Outline, 0, n)
	for i := 0; i < n; i++ {
		prev := ccw[(i+n-1)%n]
		cur := ccw[i]
		next := ccw[(i+1)%n]

		// Outward normals of the two edges meeting at cur. For CCW winding
		// the interior is to the left, so outward is (dy, -dx).
		n1 := edgeNormal(prev, cur)
		n2 := edgeNormal(cur, next)

		// Offset both edges and intersect them to get the mitered corner.
		a1 := Point2D{X: prev.X + n1.X*margin, Y: prev.Y + n1.Y*margin}
		a2 := Point2D{X: cur.X + n1.X*margin, Y: cur.Y + n1.Y*margin}
		b1 := Point2D{X: cur.X + n2.X*margin, Y: cur.Y + n2.Y*margin}
		b2 := Point2D{X: next.X + n2.X*margin, Y: next.Y + n2.Y*margin}

		if pt, ok := lineIntersection(a1, a2, b1, b2); ok {
			// Clamp runaway miters at very sharp corners to a bevel point.
			limit := margin * 4
			if math.Hypot(pt.X-cur.X, pt.Y-cur.Y) <= limit {
				result = append(result, pt)
				continue
			}
		}
		// Near-parallel edges or sharp spike: average the normals.
		avg := Point2D{X: n1.X + n2.X, Y: n1.Y + n2.Y}
		l := math.Hypot(avg.X, avg.Y)
		if l < 1e-12 {
			avg = n1
			l = 1
		}
		result = append(result, Point2D{
			X: cur.X + avg.X/l*margin,
			Y: cur.Y + avg.Y/l*margin,
		})
	}

	if o.SignedArea() < 0 {
		return result.Reverse()
	}
	return result
}

// edgeNormal returns the unit outward normal of edge a->b for a CCW polygon.
func edgeNormal(a, b Point2D) Point2D {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l := math.Hypot(dx, dy)
	if l < 1e-12 {
		return Point2D{}
	}
	return Point2D{X: dy / l, Y: -dx / l}
}

// lineIntersection returns the intersection of the infinite lines through
// a1-a2 and b1-b2. ok is false when the lines are (near) parallel.
func lineIntersection(a1, a2, b1, b2 Point2D) (Point2D, bool) {
	d1x, d1y := a2.X-a1.X, a2.Y-a1.Y
	d2x, d2y := b2.X-b1.X, b2.Y-b1.Y
	denom := d1x*d2y - d1y*d2x
	if math.Abs(denom) < 1e-12 {
		return Point2D{}, false
	}
	t := ((b1.X-a1.X)*d2y - (b1.Y-a1.Y)*d2x) / denom
	return Point2D{X: a1.X + t*d1x, Y: a1.Y + t*d1y}, true
}

// ConvexHull returns the convex hull of the outline's vertices in CCW order
// (Andrew's monotone chain).
func (o Outline) ConvexHull() Outline {
	n := len(o)
	if n < 3 {
		return append(Outline{}, o...)
	}
	pts := append(Outline{}, o...)
	sortPoints(pts)

	hull := make(Outline, 0, 2*n)
	// Lower hull
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// Upper hull
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// cross returns the z component of (b-a) x (c-a).
func cross(a, b, c Point2D) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// sortPoints orders points by X then Y (insertion sort; hull inputs are small).
func sortPoints(pts Outline) {
	for i := 1; i < len(pts); i++ {
		p := pts[i]
		j := i - 1
		for j >= 0 && (pts[j].X > p.X || (pts[j].X == p.X && pts[j].Y > p.Y)) {
			pts[j+1] = pts[j]
			j--
		}
		pts[j+1] = p
	}
}

// segmentsIntersect reports whether segments a1-a2 and b1-b2 properly
// intersect (crossing, not merely sharing an endpoint).
func segmentsIntersect(a1, a2, b1, b2 Point2D) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// SelfIntersects reports whether any two non-adjacent edges of the outline
// cross each other.
func (o Outline) SelfIntersects() bool {
	n := len(o)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1 := o[i]
		a2 := o[(i+1)%n]
		for j := i + 2; j < n; j++ {
			// Skip the edge pair sharing the wrap-around vertex.
			if i == 0 && j == n-1 {
				continue
			}
			b1 := o[j]
			b2 := o[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// Overlaps reports whether two outlines overlap: any edges cross, or one
// outline contains a vertex of the other. Outlines that merely touch along
// an edge are not reported as overlapping, which is why packing always
// works on inflated outlines.
func (o Outline) Overlaps(other Outline) bool {
	if len(o) < 3 || len(other) < 3 {
		return false
	}
	minA, maxA := o.BoundingBox()
	minB, maxB := other.BoundingBox()
	if minA.X >= maxB.X || minB.X >= maxA.X || minA.Y >= maxB.Y || minB.Y >= maxA.Y {
		return false
	}
	na, nb := len(o), len(other)
	for i := 0; i < na; i++ {
		a1 := o[i]
		a2 := o[(i+1)%na]
		for j := 0; j < nb; j++ {
			if segmentsIntersect(a1, a2, other[j], other[(j+1)%nb]) {
				return true
			}
		}
	}
	return o.Contains(other[0]) || other.Contains(o[0])
}

// RectOutline builds an axis-aligned rectangular outline with its min corner
// at the origin.
func RectOutline(w, h float64) Outline {
	return Outline{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}
}
