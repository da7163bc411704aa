// Package geo implements the polygon kernel shared by every floe, boundary,
// and topography element: area, centroid, intersection, difference,
// translation, rotation, and the signed-distance/point-in-polygon tests the
// rest of the simulator builds on.
package geo

import (
	"math"

	"github.com/san-kum/subzero/internal/suberr"
)

// Point is a single 2-D coordinate.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Ring is a closed sequence of points: first == last, at least 3 distinct
// vertices, no repeated adjacent vertices.
type Ring []Point

// Polygon is an outer ring plus zero or more hole rings. Floes and
// topography store polygons without holes after construction.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// NewPolygon validates and closes pts into a hole-free Polygon.
func NewPolygon(pts []Point) (Polygon, error) {
	ring, err := newRing(pts)
	if err != nil {
 return Polygon{}, err
	}
	return Polygon{Outer: ring}, nil
}

// NewPolygonWithHoles validates the outer ring and every hole ring.
func NewPolygonWithHoles(outer []Point, holes [][]Point) (Polygon, error) {
	o, err := newRing(outer)
	if err != nil {
 return Polygon{}, err
	}
	p := Polygon{Outer: o}
	for _, h := range holes {
 r, err := newRing(h)
 if err != nil {
 return Polygon{}, err
 }
 p.Holes = append(p.Holes, r)
	}
	return p, nil
}

func newRing(pts []Point) (Ring, error) {
	cleaned := dedupeAdjacent(pts)
	if len(cleaned) > 1 && cleaned[0] == cleaned[len(cleaned)-1] {
 cleaned = cleaned[:len(cleaned)-1]
	}
	if len(cleaned) < 3 {
 return nil, suberr.Newf(suberr.InvalidGeometry, "ring has %d distinct vertices, need at least 3", len(cleaned))
	}
	ring := make(Ring, len(cleaned)+1)
	copy(ring, cleaned)
	ring[len(cleaned)] = cleaned[0]
	return ring, nil
}

func dedupeAdjacent(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
 if len(out) == 0 || out[len(out)-1] != p {
 out = append(out, p)
 }
	}
	return out
}

// vertices returns the ring without the closing duplicate of the first point.
func (r Ring) vertices() []Point {
	if len(r) == 0 {
 return nil
	}
	return r[:len(r)-1]
}

// HasHole reports whether the polygon carries any hole ring.
func (p Polygon) HasHole() bool { return len(p.Holes) > 0 }

// RemoveHoles returns a copy of p with its outer ring only.
func (p Polygon) RemoveHoles() Polygon { return Polygon{Outer: p.Outer} }

// signedRingArea computes twice the signed area via the shoelace formula;
// positive for counter-clockwise rings.
func signedRingArea(r Ring) float64 {
	v := r.vertices()
	n := len(v)
	sum := 0.0
	for i := 0; i < n; i++ {
 j := (i + 1) % n
 sum += v[i].X*v[j].Y - v[j].X*v[i].Y
	}
	return sum / 2
}

// Area returns the outer ring's area minus the area of its holes.
func (p Polygon) Area() float64 {
	a := math.Abs(signedRingArea(p.Outer))
	for _, h := range p.Holes {
 a -= math.Abs(signedRingArea(h))
	}
	return a
}

// Centroid returns the area-weighted centroid of the outer ring, holes
// excluded by mass (the floe factory removes holes before storing, so in
// practice Centroid is called on hole-free polygons; the hole term is kept
// for correctness when called mid-construction).
func (p Polygon) Centroid() Point {
	cx, cy, totalA := ringCentroidMoment(p.Outer)
	for _, h := range p.Holes {
 hx, hy, hA := ringCentroidMoment(h)
 cx -= hx
 cy -= hy
 totalA -= hA
	}
	if totalA == 0 {
 return Point{}
	}
	return Point{cx / (6 * totalA), cy / (6 * totalA)}
}

// ringCentroidMoment returns (Σ(xi+xj)(cross), Σ(yi+yj)(cross), signedArea)
// so callers can combine outer/hole contributions before dividing.
func ringCentroidMoment(r Ring) (mx, my, area float64) {
	v := r.vertices()
	n := len(v)
	a := 0.0
	for i := 0; i < n; i++ {
 j := (i + 1) % n
 cross := v[i].X*v[j].Y - v[j].X*v[i].Y
 a += cross
 mx += (v[i].X + v[j].X) * cross
 my += (v[i].Y + v[j].Y) * cross
	}
	return mx, my, a / 2
}

// RMax returns the maximum distance from centroid to any outer vertex.
func (p Polygon) RMax(centroid Point) float64 {
	r := 0.0
	for _, v := range p.Outer.vertices() {
 if d := v.DistanceTo(centroid); d > r {
 r = d
 }
	}
	return r
}

// Translate shifts every ring by d.
func (p Polygon) Translate(d Point) Polygon {
	return p.mapPoints(func(pt Point) Point { return pt.Add(d) })
}

// Rotate rotates every ring by theta radians about origin.
func (p Polygon) Rotate(theta float64) Polygon {
	s, c := math.Sin(theta), math.Cos(theta)
	return p.mapPoints(func(pt Point) Point {
 return Point{pt.X*c - pt.Y*s, pt.X*s + pt.Y*c}
	})
}

// RotateAbout rotates every ring by theta radians about center.
func (p Polygon) RotateAbout(theta float64, center Point) Polygon {
	s, c := math.Sin(theta), math.Cos(theta)
	return p.mapPoints(func(pt Point) Point {
 d := pt.Sub(center)
 return Point{d.X*c - d.Y*s, d.X*s + d.Y*c}.Add(center)
	})
}

// Scale scales every ring about origin by k.
func (p Polygon) Scale(k float64) Polygon {
	return p.mapPoints(func(pt Point) Point { return pt.Scale(k) })
}

func (p Polygon) mapPoints(f func(Point) Point) Polygon {
	out := Polygon{Outer: make(Ring, len(p.Outer))}
	for i, pt := range p.Outer {
 out.Outer[i] = f(pt)
	}
	for _, h := range p.Holes {
 nh := make(Ring, len(h))
 for i, pt := range h {
 nh[i] = f(pt)
 }
 out.Holes = append(out.Holes, nh)
	}
	return out
}

// PointInPolygon classifies point against the outer ring using an
// even-odd ray-crossing test, then subtracts hole membership. Returns (inside, onBoundary).
func (p Polygon) PointInPolygon(pt Point) (inside bool, onBoundary bool) {
	in, on := ringContains(p.Outer, pt)
	if on {
 return false, true
	}
	if !in {
 return false, false
	}
	for _, h := range p.Holes {
 hin, hon := ringContains(h, pt)
 if hon {
 return false, true
 }
 if hin {
 return false, false
 }
	}
	return true, false
}

func ringContains(r Ring, pt Point) (inside bool, onBoundary bool) {
	v := r.vertices()
	n := len(v)
	for i := 0; i < n; i++ {
 j := (i + 1) % n
 if SignedDistanceToSegment(pt, v[i], v[j]) < 1e-9 && onSegment(pt, v[i], v[j]) {
 return false, true
 }
	}
	for i := 0; i < n; i++ {
 j := (i + 1) % n
 vi, vj := v[i], v[j]
 if (vi.Y > pt.Y) != (vj.Y > pt.Y) {
 xIntersect := vi.X + (pt.Y-vi.Y)/(vj.Y-vi.Y)*(vj.X-vi.X)
 if pt.X < xIntersect {
 inside = !inside
 }
 }
	}
	return inside, false
}

func onSegment(pt, a, b Point) bool {
	const eps = 1e-9
	if pt.X < math.Min(a.X, b.X)-eps || pt.X > math.Max(a.X, b.X)+eps {
 return false
	}
	if pt.Y < math.Min(a.Y, b.Y)-eps || pt.Y > math.Max(a.Y, b.Y)+eps {
 return false
	}
	return true
}

// SignedDistanceToSegment returns |shortest distance| from pt to segment ab;
// used by PointInPolygon's on-boundary test and by the collision engine's
// edge-midpoint classification.
func SignedDistanceToSegment(pt, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
 return pt.DistanceTo(a)
	}
	t := pt.Sub(a).Dot(ab) / l2
	if t < 0 {
 t = 0
	} else if t > 1 {
 t = 1
	}
	proj := a.Add(ab.Scale(t))
	return pt.DistanceTo(proj)
}

// SignedDistance returns the signed distance from pt to the polygon's outer
// boundary: negative inside, positive outside, zero on the boundary.
func SignedDistance(pt Point, p Polygon) float64 {
	v := p.Outer.vertices()
	n := len(v)
	min := math.Inf(1)
	for i := 0; i < n; i++ {
 j := (i + 1) % n
 if d := SignedDistanceToSegment(pt, v[i], v[j]); d < min {
 min = d
 }
	}
	inside, on := p.PointInPolygon(pt)
	if on {
 return 0
	}
	if inside {
 return -min
	}
	return min
}

// LineIntersection returns the intersection point of segments p1p2 and
// p3p4, if any.
func LineIntersection(p1, p2, p3, p4 Point) (Point, bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
 return Point{}, false
	}
	diff := p3.Sub(p1)
	t := diff.Cross(d2) / denom
	u := diff.Cross(d1) / denom
	if t < -1e-9 || t > 1+1e-9 || u < -1e-9 || u > 1+1e-9 {
 return Point{}, false
	}
	return p1.Add(d1.Scale(t)), true
}

// SplitAlongHorizontalLine cuts the polygon's outer ring along y=yLine,
// returning the pieces lying below and above the line.
func SplitAlongHorizontalLine(p Polygon, yLine float64) (below, above []Polygon) {
	v := p.Outer.vertices()
	n := len(v)
	if n == 0 {
 return nil, nil
	}

	var lower, upper []Point
	for i := 0; i < n; i++ {
 cur := v[i]
 next := v[(i+1)%n]

 if cur.Y <= yLine {
 lower = append(lower, cur)
 }
 if cur.Y >= yLine {
 upper = append(upper, cur)
 }

 if (cur.Y-yLine)*(next.Y-yLine) < 0 {
 t := (yLine - cur.Y) / (next.Y - cur.Y)
 x := cur.X + t*(next.X-cur.X)
 cross := Point{x, yLine}
 lower = append(lower, cross)
 upper = append(upper, cross)
 }
	}

	if poly, err := NewPolygon(lower); err == nil && poly.Area() > 1e-12 {
 below = append(below, poly)
	}
	if poly, err := NewPolygon(upper); err == nil && poly.Area() > 1e-12 {
 above = append(above, poly)
	}
	return below, above
}

// SplitAroundFirstHole cuts the outer ring horizontally through the
// centroid of the polygon's first hole, returning the below/above piece
// lists. Holes are dropped before the cut, so the hole's area is not
// subtracted from the pieces.
func SplitAroundFirstHole(p Polygon) (below, above []Polygon, ok bool) {
	if len(p.Holes) == 0 {
 return nil, nil, false
	}
	_, _, holeArea := ringCentroidMoment(p.Holes[0])
	if holeArea == 0 {
 return nil, nil, false
	}
	hc := Polygon{Outer: p.Holes[0]}.Centroid()
	below, above = SplitAlongHorizontalLine(p.RemoveHoles(), hc.Y)
	return below, above, true
}

// MomentOfInertia returns (Ixx+Iyy) for a lamina of areal density rho*h
// occupying the polygon, via Green's-theorem summation.
func (p Polygon) MomentOfInertia(rhoH float64) float64 {
	v := p.Outer.vertices()
	n := len(v)
	sum := 0.0
	for i := 0; i < n; i++ {
 j := (i + 1) % n
 xi, yi := v[i].X, v[i].Y
 xj, yj := v[j].X, v[j].Y
 cross := xi*yj - xj*yi
 sum += cross * ((yi*yi + yi*yj + yj*yj) + (xi*xi + xi*xj + xj*xj))
	}
	return rhoH * math.Abs(sum) / 12
}

// InteriorAngles returns the interior angle (radians) at each outer vertex,
// after orienting the ring clockwise.
func (p Polygon) InteriorAngles() []float64 {
	v := p.Outer.vertices()
	n := len(v)
	if n < 3 {
 return nil
	}
	ordered := make([]Point, n)
	copy(ordered, v)
	if signedRingArea(p.Outer) > 0 {
 // CCW: reverse to make clockwise.
 for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
 ordered[i], ordered[j] = ordered[j], ordered[i]
 }
	}
	angles := make([]float64, n)
	for i := 0; i < n; i++ {
 prev := ordered[(i-1+n)%n]
 cur := ordered[i]
 next := ordered[(i+1)%n]
 a := prev.Sub(cur)
 b := next.Sub(cur)
 cosT := a.Dot(b) / (a.Norm() * b.Norm())
 cosT = math.Max(-1, math.Min(1, cosT))
 angles[i] = math.Acos(cosT)
	}
	return angles
}
