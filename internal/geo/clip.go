package geo

import "math"

// Difference implements the Greiner–Hormann polygon clipping algorithm
// against the outer rings of p and q; Intersect uses the same trace only
// when neither outer ring is convex and otherwise clips with
// Sutherland–Hodgman. Holes are not clipped
// directly: floes and topography are hole-free by the time they reach the
// collision/coupling code paths, so the algorithm operates on outer
// rings only. Degenerate cases (shared edges, tangential touches) are
// treated as no intersection rather than failing.

type clipVertex struct {
	p Point
	intersect bool
	entry bool
	alpha float64 // parametric position along the source edge, for sorting
	neighbor int // index of the paired vertex in the other polygon's list, or -1
	next, prev int
	visited bool
}

type clipList struct {
	verts []clipVertex
}

func (c *clipList) add(p Point) int {
	idx := len(c.verts)
	c.verts = append(c.verts, clipVertex{p: p, next: -1, prev: -1, neighbor: -1})
	return idx
}

// buildFromRing seeds a clip list from a ring's vertices (no closing dup).
func buildFromRing(r Ring) *clipList {
	c := &clipList{}
	v := r.vertices()
	for _, pt := range v {
 c.add(pt)
	}
	n := len(c.verts)
	for i := 0; i < n; i++ {
 c.verts[i].next = (i + 1) % n
 c.verts[i].prev = (i - 1 + n) % n
	}
	return c
}

// hit is one edge-edge crossing with its parametric positions along the
// two edges.
type hit struct {
	alphaS, alphaC float64
	pt Point
}

// insertIntersections walks every edge of subject against every edge of
// clip, inserting intersection vertices into both lists in edge-parametric
// order, and links each pair of inserted vertices as neighbors.
func insertIntersections(subject, clip *clipList) bool {
	any := false

	sEdges := originalEdges(subject)
	cEdges := originalEdges(clip)

	sHits := make([][]hit, len(sEdges))
	cHits := make([][]hit, len(cEdges))

	for si, se := range sEdges {
 for ci, ce := range cEdges {
 pt, ta, tb, ok := segIntersect(se.a, se.b, ce.a, ce.b)
 if !ok {
 continue
 }
 any = true
 sHits[si] = append(sHits[si], hit{alphaS: ta, alphaC: tb, pt: pt})
 cHits[ci] = append(cHits[ci], hit{alphaS: tb, alphaC: ta, pt: pt})
 }
	}
	if !any {
 return false
	}

	sIdx := insertHitsIntoList(subject, sEdges, sHits)
	cIdx := insertHitsIntoList(clip, cEdges, cHits)

	// Link neighbors: hits were produced in the same pairwise order, so the
	// k-th intersection vertex produced while scanning subject edge si
	// against clip edge ci pairs with the matching entry on the clip side.
	// We recover the pairing by matching coordinates (robust enough for the
	// convex, simple-polygon inputs this kernel is built for).
	for _, si := range sIdx {
 for _, ci := range cIdx {
 if samePoint(subject.verts[si].p, clip.verts[ci].p) {
 subject.verts[si].neighbor = ci
 clip.verts[ci].neighbor = si
 }
 }
	}

	return true
}

type edge struct{ a, b Point }

func originalEdges(c *clipList) []edge {
	n := len(c.verts)
	edges := make([]edge, 0, n)
	// buildFromRing seeds the list with exactly one vertex per original
	// edge start, in order, before any intersection insertion happens.
	for i := 0; i < n; i++ {
 edges = append(edges, edge{a: c.verts[i].p, b: c.verts[(i+1)%n].p})
	}
	return edges
}

func insertHitsIntoList(list *clipList, edges []edge, hits [][]hit) []int {
	n := len(edges)
	inserted := make([]int, 0)

	// Rebuild the list from scratch, walking original edges in order and
	// splicing in intersection vertices sorted by alpha along each edge.
	newVerts := make([]clipVertex, 0, n*2)
	for i := 0; i < n; i++ {
 start := clipVertex{p: edges[i].a, next: -1, prev: -1, neighbor: -1}
 newVerts = append(newVerts, start)

 es := hits[i]
 sortHitsByAlphaS(es)
 for _, h := range es {
 newVerts = append(newVerts, clipVertex{p: h.pt, intersect: true, next: -1, prev: -1, neighbor: -1})
 inserted = append(inserted, len(newVerts)-1)
 }
	}

	m := len(newVerts)
	for i := range newVerts {
 newVerts[i].next = (i + 1) % m
 newVerts[i].prev = (i - 1 + m) % m
	}
	list.verts = newVerts
	return inserted
}

func sortHitsByAlphaS(hs []hit) {
	for i := 1; i < len(hs); i++ {
 j := i
 for j > 0 && hs[j-1].alphaS > hs[j].alphaS {
 hs[j-1], hs[j] = hs[j], hs[j-1]
 j--
 }
	}
}

func samePoint(a, b Point) bool {
	const eps = 1e-7
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

// segIntersect returns the intersection of ab and cd plus the parametric
// position along each segment, excluding the segments' own endpoints from
// counting as crossings (ta, tb strictly inside (0,1)).
func segIntersect(a, b, c, d Point) (Point, float64, float64, bool) {
	d1 := b.Sub(a)
	d2 := d.Sub(c)
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
 return Point{}, 0, 0, false
	}
	diff := c.Sub(a)
	t := diff.Cross(d2) / denom
	u := diff.Cross(d1) / denom
	const eps = 1e-9
	if t <= eps || t >= 1-eps || u <= eps || u >= 1-eps {
 return Point{}, 0, 0, false
	}
	return a.Add(d1.Scale(t)), t, u, true
}

func markEntryExit(list *clipList, other Polygon, firstIsEntryIfOutside bool) {
	inside, _ := other.PointInPolygon(list.verts[0].p)
	status := inside
	if firstIsEntryIfOutside {
 status = !inside
	}
	for i := range list.verts {
 if list.verts[i].intersect {
 list.verts[i].entry = status
 status = !status
 }
	}
}

// clipOp runs the intersection/difference trace once entry/exit flags are
// set on both lists, starting from unvisited intersection vertices.
func clipOp(subject, clip *clipList) []Polygon {
	var results []Polygon

	for start := range subject.verts {
 sv := &subject.verts[start]
 if !sv.intersect || sv.visited {
 continue
 }

 var ring []Point
 cur := start
 onSubject := true

 for {
 list := subject
 if !onSubject {
 list = clip
 }
 v := &list.verts[cur]
 if v.visited && v.intersect {
 break
 }
 v.visited = true
 ring = append(ring, v.p)

 forward := v.entry
 if v.intersect {
 if forward {
 cur = v.next
 } else {
 cur = v.prev
 }
 } else {
 cur = v.next
 }

 nv := &list.verts[cur]
 if nv.intersect {
 onSubject = !onSubject
 cur = nv.neighbor
 if cur < 0 {
 onSubject = !onSubject
 }
 }

 if cur == start && onSubject {
 break
 }
 if len(ring) > 4*(len(subject.verts)+len(clip.verts))+8 {
 break // safety valve against malformed topology
 }
 }

 if poly, err := NewPolygon(ring); err == nil && poly.Area() > 1e-12 {
 results = append(results, poly)
 }
	}

	return results
}

// Intersect returns the list of polygons forming p ∩ q. An empty result
// means the polygons do not overlap (not a failure). When q's outer
// ring is convex — true of every grid cell and every Voronoi piece this
// kernel clips against — a direct Sutherland–Hodgman clip is used instead
// of the general Greiner–Hormann trace below, since it cannot produce the
// disjoint-region or self-intersecting topologies that trace is built to
// handle.
func Intersect(p, q Polygon) []Polygon {
	if !boundsOverlap(p, q) {
 return nil
	}
	if isConvex(q.Outer) {
 clipped := sutherlandHodgman(p.Outer, q.Outer)
 if poly, err := NewPolygon(clipped); err == nil && poly.Area() > 1e-12 {
 return []Polygon{poly}
 }
 return containmentFallback(p, q)
	}
	if isConvex(p.Outer) {
 clipped := sutherlandHodgman(q.Outer, p.Outer)
 if poly, err := NewPolygon(clipped); err == nil && poly.Area() > 1e-12 {
 return []Polygon{poly}
 }
 return containmentFallback(p, q)
	}

	subject := buildFromRing(p.Outer)
	clip := buildFromRing(q.Outer)

	if !insertIntersections(subject, clip) {
 return containmentFallback(p, q)
	}

	markEntryExit(subject, q, false)
	markEntryExit(clip, p, false)

	return clipOp(subject, clip)
}

// Difference returns the list of polygons forming p \ q.
func Difference(p, q Polygon) []Polygon {
	if !boundsOverlap(p, q) {
 return []Polygon{p}
	}
	subject := buildFromRing(p.Outer)
	clip := buildFromRing(q.Outer)

	if !insertIntersections(subject, clip) {
 if containedIn(p, q) {
 return nil
 }
 return []Polygon{p}
	}

	markEntryExit(subject, q, true)
	markEntryExit(clip, p, false)
	for i := range clip.verts {
 if clip.verts[i].intersect {
 clip.verts[i].entry = !clip.verts[i].entry
 }
	}

	return clipOp(subject, clip)
}

func boundsOverlap(p, q Polygon) bool {
	pMinX, pMinY, pMaxX, pMaxY := bbox(p.Outer)
	qMinX, qMinY, qMaxX, qMaxY := bbox(q.Outer)
	return pMinX <= qMaxX && pMaxX >= qMinX && pMinY <= qMaxY && pMaxY >= qMinY
}

func bbox(r Ring) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range r.vertices() {
 minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
 minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return
}

// containmentFallback handles the no-boundary-crossing case: either one
// polygon wholly contains the other, or they are disjoint.
func containmentFallback(p, q Polygon) []Polygon {
	if containedIn(p, q) {
 return []Polygon{p}
	}
	if containedIn(q, p) {
 return []Polygon{q}
	}
	return nil
}

// isConvex reports whether every turn around the ring has the same sign.
func isConvex(r Ring) bool {
	v := r.vertices()
	n := len(v)
	if n < 3 {
 return false
	}
	sign := 0.0
	for i := 0; i < n; i++ {
 a := v[i]
 b := v[(i+1)%n]
 c := v[(i+2)%n]
 cross := b.Sub(a).Cross(c.Sub(b))
 if math.Abs(cross) < 1e-12 {
 continue
 }
 if sign == 0 {
 sign = math.Copysign(1, cross)
 } else if math.Copysign(1, cross) != sign {
 return false
 }
	}
	return true
}

// sutherlandHodgman clips subject against the convex clip polygon, one
// half-plane per clip edge.
func sutherlandHodgman(subject, clip Ring) []Point {
	output := subject.vertices()
	cv := clip.vertices()
	n := len(cv)
	ccw := signedRingArea(clip) > 0

	for i := 0; i < n && len(output) > 0; i++ {
 a := cv[i]
 b := cv[(i+1)%n]
 if !ccw {
 a, b = b, a
 }
 normal := Point{X: -(b.Y - a.Y), Y: b.X - a.X}
 input := output
 output = nil
 if len(input) == 0 {
 break
 }
 prev := input[len(input)-1]
 prevInside := leftOf(a, b, prev)
 for _, cur := range input {
 curInside := leftOf(a, b, cur)
 if curInside {
 if !prevInside {
 if pt, ok := halfPlaneCross(prev, cur, a, normal); ok {
 output = append(output, pt)
 }
 }
 output = append(output, cur)
 } else if prevInside {
 if pt, ok := halfPlaneCross(prev, cur, a, normal); ok {
 output = append(output, pt)
 }
 }
 prev = cur
 prevInside = curInside
 }
	}
	return output
}

func leftOf(a, b, p Point) bool {
	return b.Sub(a).Cross(p.Sub(a)) >= -1e-12
}

// ClipHalfPlane clips subject to the half-plane {p : (p-point)·normal >= 0},
// used by the fracture engine's Voronoi cell construction (each cell is the
// intersection of the bounding box with one half-plane per other seed).
func ClipHalfPlane(subject []Point, point, normal Point) []Point {
	n := len(subject)
	if n == 0 {
 return nil
	}
	var output []Point
	prev := subject[n-1]
	prevIn := prev.Sub(point).Dot(normal) >= -1e-12
	for _, cur := range subject {
 curIn := cur.Sub(point).Dot(normal) >= -1e-12
 if curIn {
 if !prevIn {
 if pt, ok := halfPlaneCross(prev, cur, point, normal); ok {
 output = append(output, pt)
 }
 }
 output = append(output, cur)
 } else if prevIn {
 if pt, ok := halfPlaneCross(prev, cur, point, normal); ok {
 output = append(output, pt)
 }
 }
 prev = cur
 prevIn = curIn
	}
	return output
}

func halfPlaneCross(a, b, point, normal Point) (Point, bool) {
	da := a.Sub(point).Dot(normal)
	db := b.Sub(point).Dot(normal)
	denom := da - db
	if math.Abs(denom) < 1e-12 {
 return Point{}, false
	}
	t := da / denom
	return a.Add(b.Sub(a).Scale(t)), true
}

func containedIn(p, q Polygon) bool {
	if len(p.Outer.vertices()) == 0 {
 return false
	}
	in, on := q.PointInPolygon(p.Outer.vertices()[0])
	return in || on
}
