package floe

import (
	"math"

	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/rng"
	"github.com/san-kum/subzero/internal/suberr"
)

// VoronoiOptions configures tessellation seeding: a target point count
// scaled by 1/area_fraction, repeating until the desired count is met or
// max_tries is exceeded.
type VoronoiOptions struct {
	NPieces int
	MaxTries int
	MinAcceptable int // warn (not fail) if fewer than this many cells result
}

// DefaultVoronoiOptions mirrors the npieces/fracture configuration surface.
func DefaultVoronoiOptions(nPieces int) VoronoiOptions {
	return VoronoiOptions{NPieces: nPieces, MaxTries: 10, MinAcceptable: nPieces}
}

// VoronoiCells generates one convex Voronoi cell per seed covering
// the axis-aligned box [center-rmax, center+rmax]^2, seeding points
// uniformly via stream and scaling the seed count target by
// 1/areaFraction (the fraction of the bounding box actually covered by
// the region being tessellated) to compensate for seeds that land
// outside it. The seed count is at least opts.NPieces and is not capped
// at it.
func VoronoiCells(center geo.Point, rmax float64, areaFraction float64, opts VoronoiOptions, stream *rng.Stream) ([]geo.Polygon, error) {
	if areaFraction <= 0 {
 areaFraction = 1
	}
	target := int(math.Ceil(float64(opts.NPieces) / areaFraction))
	if target < opts.NPieces {
 target = opts.NPieces
	}

	box := boundingBoxPolygon(center, rmax)

	var cells []geo.Polygon
	tries := 0
	for tries < opts.MaxTries {
 tries++
 seeds := make([]geo.Point, target)
 for i := range seeds {
 seeds[i] = geo.Point{
 X: stream.Uniform(center.X-rmax, center.X+rmax),
 Y: stream.Uniform(center.Y-rmax, center.Y+rmax),
 }
 }
 cells = tessellate(box, seeds)
 if len(cells) >= opts.NPieces {
 break
 }
	}

	if len(cells) < opts.MinAcceptable {
 return cells, suberr.Newf(suberr.ConvergenceWarning,
 "voronoi tessellation produced %d cells after %d tries, wanted at least %d", len(cells), tries, opts.MinAcceptable)
	}
	return cells, nil
}

func boundingBoxPolygon(center geo.Point, rmax float64) geo.Polygon {
	p, _ := geo.NewPolygon([]geo.Point{
 {X: center.X - rmax, Y: center.Y - rmax},
 {X: center.X + rmax, Y: center.Y - rmax},
 {X: center.X + rmax, Y: center.Y + rmax},
 {X: center.X - rmax, Y: center.Y + rmax},
	})
	return p
}

// TessellatePolygon partitions poly into convex pieces by
// generating Voronoi cells over poly's bounding circle and intersecting
// each cell with poly, discarding empty intersections ( "Voronoi
// tessellation fill", "Split"). Every returned piece is hole-free. Cells
// whose seeds fall outside poly can still overlap it, so the piece count
// can exceed opts.NPieces.
func TessellatePolygon(poly geo.Polygon, opts VoronoiOptions, stream *rng.Stream) ([]geo.Polygon, error) {
	center := poly.Centroid()
	rmax := poly.RMax(center)
	boxArea := (2 * rmax) * (2 * rmax)
	areaFraction := poly.Area() / boxArea

	cells, warnErr := VoronoiCells(center, rmax, areaFraction, opts, stream)

	var pieces []geo.Polygon
	for _, cell := range cells {
 for _, region := range geo.Intersect(cell, poly) {
 region = region.RemoveHoles()
 if region.Area() > 1e-9 {
 pieces = append(pieces, region)
 }
 }
	}
	if len(pieces) < opts.MinAcceptable {
 if warnErr == nil {
 warnErr = suberr.Newf(suberr.ConvergenceWarning,
 "voronoi split produced %d usable pieces, wanted at least %d", len(pieces), opts.MinAcceptable)
 }
 return pieces, warnErr
	}
	return pieces, nil
}

// tessellate builds one convex cell per seed by successively clipping the
// box with the perpendicular-bisector half-plane against every other seed.
func tessellate(box geo.Polygon, seeds []geo.Point) []geo.Polygon {
	cells := make([]geo.Polygon, 0, len(seeds))
	for i, s := range seeds {
 pts := append([]geo.Point(nil), box.Outer...)
 for j, other := range seeds {
 if i == j {
 continue
 }
 mid := s.Add(other).Scale(0.5)
 normal := s.Sub(other) // points toward s, the "closer to s" side
 pts = geo.ClipHalfPlane(pts, mid, normal)
 if len(pts) == 0 {
 break
 }
 }
 if len(pts) < 3 {
 continue
 }
 if poly, err := geo.NewPolygon(pts); err == nil && poly.Area() > 1e-9 {
 cells = append(cells, poly)
 }
	}
	return cells
}
