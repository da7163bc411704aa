package fracture

import (
	"math"

	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/rng"
)

// Engine runs the fracture pass: yield-curve evaluation, then deform or
// split for every candidate floe. The pass is serial since it mutates
// the floe list by appending and removing entries.
type Engine struct {
	Curve *YieldCurve
	MinFloeArea float64
	DeformOn bool
	Options floe.VoronoiOptions
	Factory *floe.Factory
	DomainArea float64
	Stream *rng.Stream
}

// New builds a fracture Engine around a Hibler curve.
func New(curve *YieldCurve, minFloeArea float64, deformOn bool, opts floe.VoronoiOptions, factory *floe.Factory, domainArea float64, stream *rng.Stream) *Engine {
	return &Engine{Curve: curve, MinFloeArea: minFloeArea, DeformOn: deformOn, Options: opts, Factory: factory, DomainArea: domainArea, Stream: stream}
}

// Step rebuilds the yield curve from current fleet statistics, finds
// candidates, and replaces each with either its deformed self or its
// Voronoi split pieces. Returns the new floe list.
func (e *Engine) Step(floes []*floe.Floe) []*floe.Floe {
	areaFraction, heightMean := MeanFleetStats(floes, e.DomainArea)
	e.Curve.UpdateCriteria(areaFraction, heightMean)

	candidates := e.candidates(floes)
	if len(candidates) == 0 {
 return floes
	}

	out := make([]*floe.Floe, 0, len(floes))
	replaced := make(map[*floe.Floe]bool, len(candidates))
	for _, f := range candidates {
 replaced[f] = true
	}

	for _, f := range floes {
 if f.IsGhost() {
 continue // ghosts never survive into the next fracture pass
 }
 if !replaced[f] {
 out = append(out, f)
 continue
 }
 children := e.resolve(f)
 out = append(out, children...)
	}
	return out
}

// candidates returns every real, active floe whose stress lies outside
// the yield curve and whose area exceeds the minimum floe area.
func (e *Engine) candidates(floes []*floe.Floe) []*floe.Floe {
	var out []*floe.Floe
	for _, f := range floes {
 if f.IsGhost() || f.Status != floe.Active {
 continue
 }
 if f.Area < e.MinFloeArea {
 continue
 }
 s1, s2 := f.StressAccum.Eigenvalues()
 if !e.Curve.Contains(s1, s2) {
 out = append(out, f)
 }
	}
	return out
}

func (e *Engine) resolve(f *floe.Floe) []*floe.Floe {
	if e.DeformOn {
 if deformed, ok := e.deform(f); ok {
 return []*floe.Floe{deformed}
 }
	}
	pieces, err := e.split(f)
	if err != nil || len(pieces) == 0 {
 return []*floe.Floe{f}
	}
	return pieces
}

// deform implements step 1: for the largest-overlap interaction, build a
// square deformer of half-width sqrt(overlap) centred on the contact
// point, shift it by half that width along the force direction, subtract
// it from the floe's own polygon, and keep the largest remaining piece if
// it still covers at least 90% of the original area. The colliding
// floe's own polygon is not used as the deformer.
func (e *Engine) deform(f *floe.Floe) (*floe.Floe, bool) {
	if len(f.Interactions) == 0 {
 return nil, false
	}
	largest := f.Interactions[0]
	for _, row := range f.Interactions[1:] {
 if row.Overlap > largest.Overlap {
 largest = row
 }
	}
	if largest.Overlap <= 0 {
 return nil, false
	}

	forceMag := math.Hypot(largest.FX, largest.FY)
	if forceMag < 1e-12 {
 return nil, false
	}
	dirX, dirY := largest.FX/forceMag, largest.FY/forceMag

	contact := geo.Point{X: f.Centroid.X + largest.PX, Y: f.Centroid.Y + largest.PY}
	penetration := math.Sqrt(largest.Overlap)
	deformer := deformerPolygon(contact, penetration)
	shift := geo.Point{X: dirX * penetration / 2, Y: dirY * penetration / 2}
	deformer = deformer.Translate(shift)

	originalArea := f.Area
	pieces := geo.Difference(f.Polygon, deformer)
	if len(pieces) == 0 {
 return nil, false
	}
	best := pieces[0]
	for _, p := range pieces[1:] {
 if p.Area() > best.Area() {
 best = p
 }
	}
	if best.Area() < 0.9*originalArea {
 return nil, false
	}

	oldCentroid := f.Centroid
	oldMass := f.Mass
	oldMoment := f.Moment

	newCentroid := best.Centroid()
	newArea := best.Area()
	rhoH := 0.0
	if f.Area > 0 {
 rhoH = oldMass / f.Area
	}
	newMass := rhoH * newArea
	newMoment := best.Translate(geo.Point{X: -newCentroid.X, Y: -newCentroid.Y}).MomentOfInertia(rhoH)

	f.Polygon = best
	f.Centroid = newCentroid
	f.Area = newArea
	f.RMax = best.RMax(newCentroid)

	// conserve linear momentum under the mass change: p = m*v must hold
	// before and after, so v scales by the inverse mass ratio.
	if newMass > 0 {
 f.U *= oldMass / newMass
 f.V *= oldMass / newMass
	}
	if newMoment > 0 {
 f.Xi *= oldMoment / newMoment
	}
	f.Mass = newMass
	f.Moment = newMoment
	_ = oldCentroid

	return f, true
}

func deformerPolygon(center geo.Point, radius float64) geo.Polygon {
	if radius < 1e-6 {
 radius = 1e-6
	}
	p, _ := geo.NewPolygon([]geo.Point{
 {X: center.X - radius, Y: center.Y - radius},
 {X: center.X + radius, Y: center.Y - radius},
 {X: center.X + radius, Y: center.Y + radius},
 {X: center.X - radius, Y: center.Y + radius},
	})
	return p
}

// split implements step 2: Voronoi-tessellate the floe, build one
// child per piece with the parent's height (so each child's mass is its
// area share of the parent's mass), distribute velocity/strain, and
// assign lineage.
func (e *Engine) split(f *floe.Floe) ([]*floe.Floe, error) {
	pieces, err := floe.TessellatePolygon(f.Polygon, e.Options, e.Stream)
	if err != nil && len(pieces) == 0 {
 return nil, err
	}

	var children []*floe.Floe
	totalArea := 0.0
	for _, p := range pieces {
 totalArea += p.Area()
	}
	if totalArea <= 0 {
 return nil, err
	}

	for _, p := range pieces {
 height := f.Height // pieces inherit parent height; mass follows from area*rho*h via the factory
 child, cErr := e.Factory.FromPolygon(p, height, f.U, f.V, f.Xi, f.Alpha)
 if cErr != nil {
 continue
 }
 child.ParentIDs = append(child.ParentIDs, f.ID)
 child.Strain = f.Strain
 child.PrevDu, child.PrevDv, child.PrevDxi, child.PrevDAlpha = f.PrevDu, f.PrevDv, f.PrevDxi, f.PrevDAlpha
 children = append(children, child)
	}
	return children, nil
}
