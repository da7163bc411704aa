package floe

import (
	"math"

	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/rng"
	"github.com/san-kum/subzero/internal/suberr"
)

// SubfloePointGenerator names the quadrature-point strategy used to seed a
// floe's sub-floe integration points.
type SubfloePointGenerator int

const (
	SubfloeSubGrid SubfloePointGenerator = iota
	SubfloeVertices
)

// StressCalculator names the policy used by the fracture engine to read a
// floe's accumulated stress, optionally scaled by floe area.
type StressCalculator int

const (
	StressRaw StressCalculator = iota
	StressAreaScaled
)

// Factory builds Floe values from coordinates, polygons, or a Voronoi fill,
// owning the monotonic ID counter and the shared RNG stream.
type Factory struct {
	RhoIce float64
	MaxHeight float64
	StressHistoryLen int
	SubfloeGenerator SubfloePointGenerator
	StressCalc StressCalculator
	nextID int
	rng *rng.Stream
}

// NewFactory constructs a Factory. rhoIce and maxHeight come from the
// constants/floe-settings configuration surface.
func NewFactory(rhoIce, maxHeight float64, historyLen int, gen SubfloePointGenerator, sc StressCalculator, stream *rng.Stream) *Factory {
	return &Factory{
 RhoIce: rhoIce,
 MaxHeight: maxHeight,
 StressHistoryLen: historyLen,
 SubfloeGenerator: gen,
 StressCalc: sc,
 nextID: 1,
 rng: stream,
	}
}

// NextID reserves and returns the next monotonic floe ID.
func (f *Factory) NextID() int {
	id := f.nextID
	f.nextID++
	return id
}

// PeekNextID returns the next ID without consuming it (used to record
// fracture lineage ranges before splitting).
func (f *Factory) PeekNextID() int { return f.nextID }

// SetNextID forces the ID counter, used when resuming from a snapshot.
func (f *Factory) SetNextID(id int) { f.nextID = id }

// FromPolygon builds an Active, real (GhostID==0) floe from a validated
// hole-free polygon plus height. Mass, moment, centroid, rmax, and
// sub-floe points are all derived here.
func (f *Factory) FromPolygon(poly geo.Polygon, height, u, v, xi, alpha float64) (*Floe, error) {
	if poly.HasHole() {
 poly = poly.RemoveHoles()
	}
	area := poly.Area()
	if area <= 0 {
 return nil, suberr.New(suberr.InvalidGeometry, "polygon has non-positive area")
	}
	if height <= 0 {
 return nil, suberr.New(suberr.ArgumentOutOfRange, "floe height must be positive")
	}
	h := math.Min(height, f.MaxHeight)
	centroid := poly.Centroid()
	rmax := poly.RMax(centroid)
	if rmax <= 0 {
 return nil, suberr.New(suberr.ArgumentOutOfRange, "floe rmax must be positive")
	}

	mass := f.RhoIce * h * area
	moment := poly.Translate(geo.Point{X: -centroid.X, Y: -centroid.Y}).MomentOfInertia(f.RhoIce * h)

	fl := &Floe{
 Polygon: poly,
 Centroid: centroid,
 Area: area,
 RMax: rmax,
 Height: h,
 Mass: mass,
 Moment: moment,
 U: u,
 V: v,
 Xi: xi,
 Alpha: alpha,
 Status: Active,
 ID: f.NextID(),
	}
	fl.SubFloePointsX, fl.SubFloePointsY = f.subfloePoints(poly, centroid)
	fl.StressHistory = NewStressRing(f.StressHistoryLen)
	return fl, nil
}

// FromCoords is a convenience wrapper building a floe straight from raw
// (x,y) coordinate pairs.
func (f *Factory) FromCoords(coords []geo.Point, height, u, v, xi, alpha float64) (*Floe, error) {
	poly, err := geo.NewPolygon(coords)
	if err != nil {
 return nil, err
	}
	return f.FromPolygon(poly, height, u, v, xi, alpha)
}

// FillVoronoi tessellates region into floes (one per TessellatePolygon
// piece, so possibly more than opts.NPieces), each given
// the same height and zero initial velocity.
func (f *Factory) FillVoronoi(region geo.Polygon, height float64, opts VoronoiOptions) ([]*Floe, error) {
	pieces, tessErr := TessellatePolygon(region, opts, f.rng)
	floes := make([]*Floe, 0, len(pieces))
	for _, p := range pieces {
 fl, err := f.FromPolygon(p, height, 0, 0, 0, 0)
 if err != nil {
 continue
 }
 floes = append(floes, fl)
	}
	return floes, tessErr
}

// SplitAroundHoles builds one floe per below/above piece produced by
// cutting a floe's polygon through its first hole's centroid. Each piece
// inherits the parent's kinematics and height; mass/moment are recomputed
// from the piece's own area.
func (f *Factory) SplitAroundHoles(parent *Floe) ([]*Floe, bool) {
	below, above, ok := geo.SplitAroundFirstHole(parent.Polygon)
	if !ok {
 return nil, false
	}
	var pieces []*Floe
	for _, p := range append(below, above...) {
 child, err := f.FromPolygon(p, parent.Height, parent.U, parent.V, parent.Xi, parent.Alpha)
 if err != nil {
 continue
 }
 child.ParentIDs = append(child.ParentIDs, parent.ID)
 child.Strain = parent.Strain
 pieces = append(pieces, child)
	}
	return pieces, true
}

// subfloePoints generates the quadrature offsets used to integrate forces
// over the floe footprint. SubGrid lays
// points on a coarse grid inside the polygon; Vertices reuses the outer
// ring's vertices, both expressed relative to centroid.
func (f *Factory) subfloePoints(poly geo.Polygon, centroid geo.Point) (xs, ys []float64) {
	switch f.SubfloeGenerator {
	case SubfloeVertices:
 verts := poly.Outer
 for _, v := range verts[:len(verts)-1] {
 xs = append(xs, v.X-centroid.X)
 ys = append(ys, v.Y-centroid.Y)
 }
 return xs, ys
	default:
 return subGridPoints(poly, centroid)
	}
}

func subGridPoints(poly geo.Polygon, centroid geo.Point) (xs, ys []float64) {
	const n = 4 // n x n candidate sub-grid within the bounding box
	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, v := range poly.Outer {
 minX = math.Min(minX, v.X)
 maxX = math.Max(maxX, v.X)
 minY = math.Min(minY, v.Y)
 maxY = math.Max(maxY, v.Y)
	}
	dx := (maxX - minX) / float64(n+1)
	dy := (maxY - minY) / float64(n+1)
	for i := 1; i <= n; i++ {
 for j := 1; j <= n; j++ {
 p := geo.Point{X: minX + float64(i)*dx, Y: minY + float64(j)*dy}
 if in, on := poly.PointInPolygon(p); in || on {
 xs = append(xs, p.X-centroid.X)
 ys = append(ys, p.Y-centroid.Y)
 }
 }
	}
	if len(xs) == 0 {
 // Degenerate/very thin footprint: fall back to the centroid itself
 // so coupling still has one integration point.
 xs, ys = []float64{0}, []float64{0}
	}
	return xs, ys
}
