package domain

import (
	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/suberr"
)

// Topography is an immovable, unbreakable closed polygon (holes removed).
type Topography struct {
	Polygon geo.Polygon
	Centroid geo.Point
	RMax float64
}

// NewTopography builds a Topography from raw points, validating geometry
// and removing any holes.
func NewTopography(pts []geo.Point) (Topography, error) {
	p, err := geo.NewPolygon(pts)
	if err != nil {
 return Topography{}, err
	}
	p = p.RemoveHoles()
	c := p.Centroid()
	return Topography{Polygon: p, Centroid: c, RMax: p.RMax(c)}, nil
}

// Domain bundles the four walls and the topography list, enforcing the
// invariants north.Val > south.Val, east.Val > west.Val, and
// periodic compatibility on each axis pair.
type Domain struct {
	North, South, East, West Boundary
	Topography []Topography
}

// New validates and constructs a Domain.
func New(north, south, east, west Boundary, topo []Topography) (*Domain, error) {
	if north.Val <= south.Val {
 return nil, suberr.Newf(suberr.DomainInvariant, "north.val (%v) must exceed south.val (%v)", north.Val, south.Val)
	}
	if east.Val <= west.Val {
 return nil, suberr.Newf(suberr.DomainInvariant, "east.val (%v) must exceed west.val (%v)", east.Val, west.Val)
	}
	if err := ValidatePair(north, south); err != nil {
 return nil, err
	}
	if err := ValidatePair(east, west); err != nil {
 return nil, err
	}
	return &Domain{North: north, South: south, East: east, West: west, Topography: topo}, nil
}

// Width and Height return the domain's extent along x and y.
func (d *Domain) Width() float64 { return d.East.Val - d.West.Val }
func (d *Domain) Height() float64 { return d.North.Val - d.South.Val }

// Contains reports whether point lies strictly inside the domain box.
func (d *Domain) Contains(p geo.Point) bool {
	return p.X > d.West.Val && p.X < d.East.Val && p.Y > d.South.Val && p.Y < d.North.Val
}

// AllPeriodic reports whether every wall is periodic (used by
// centroid-in-domain invariant, which only applies unconditionally in that
// case).
func (d *Domain) AllPeriodic() bool {
	return d.North.Kind == Periodic && d.South.Kind == Periodic &&
 d.East.Kind == Periodic && d.West.Kind == Periodic
}

// Boundaries returns all four walls for iteration.
func (d *Domain) Boundaries() [4]*Boundary {
	return [4]*Boundary{&d.North, &d.South, &d.East, &d.West}
}

// AdvanceBoundaries steps every Moving wall by dt.
func (d *Domain) AdvanceBoundaries(dt float64) {
	d.North.Advance(dt, d.West.Val, d.East.Val, 1)
	d.South.Advance(dt, d.West.Val, d.East.Val, 1)
	d.East.Advance(dt, d.South.Val, d.North.Val, 1)
	d.West.Advance(dt, d.South.Val, d.North.Val, 1)
}

// PeriodicAxisExtent returns the translation length for wrapping a floe
// across the named axis wall pair: domain Width for east/west, Height for
// north/south.
func (d *Domain) PeriodicAxisExtent(side Side) float64 {
	switch side {
	case East, West:
 return d.Width()
	default:
 return d.Height()
	}
}
