// Package domain implements the four directional boundary walls, the
// topography list, and the domain validity checks. Boundary kinds are
// a tagged variant dispatched with a small switch rather than a deep
// class hierarchy.
package domain

import (
	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/suberr"
)

// Side names a cardinal wall.
type Side int

const (
	North Side = iota
	South
	East
	West
)

func (s Side) String() string {
	switch s {
	case North:
 return "north"
	case South:
 return "south"
	case East:
 return "east"
	case West:
 return "west"
	default:
 return "unknown"
	}
}

// Kind tags a boundary's behavior.
type Kind int

const (
	Open Kind = iota
	Periodic
	Collision
	Moving
)

// Boundary is a tagged variant: Open | Periodic | Collision | Moving(u,v).
// Every wall stores a bounding-box polygon and the edge scalar Val used by
// the domain's periodic-pairing and inversion checks.
type Boundary struct {
	Side Side
	Kind Kind
	Val float64 // the wall's coordinate on its axis (x for E/W, y for N/S)
	Box geo.Polygon

	// Moving-only state: wall velocity; Advance shifts Val by it.
	VelU, VelV float64
}

// NewBoundary constructs a wall given its side, kind, coordinate, and the
// domain's transverse extent (needed to build the wall's bounding box).
func NewBoundary(side Side, kind Kind, val, transverseLo, transverseHi, thickness float64) Boundary {
	b := Boundary{Side: side, Kind: kind, Val: val}
	b.Box = boundaryBox(side, val, transverseLo, transverseHi, thickness)
	return b
}

func boundaryBox(side Side, val, lo, hi, thickness float64) geo.Polygon {
	var pts []geo.Point
	switch side {
	case North:
 pts = []geo.Point{{lo, val}, {hi, val}, {hi, val + thickness}, {lo, val + thickness}}
	case South:
 pts = []geo.Point{{lo, val - thickness}, {hi, val - thickness}, {hi, val}, {lo, val}}
	case East:
 pts = []geo.Point{{val, lo}, {val + thickness, lo}, {val + thickness, hi}, {val, hi}}
	case West:
 pts = []geo.Point{{val - thickness, lo}, {val, lo}, {val, hi}, {val - thickness, hi}}
	}
	p, _ := geo.NewPolygon(pts)
	return p
}

// Advance moves a Moving boundary by its velocity over dt, rebuilding its
// bounding box; non-moving walls are unaffected.
func (b *Boundary) Advance(dt, transverseLo, transverseHi, thickness float64) {
	if b.Kind != Moving {
 return
	}
	switch b.Side {
	case North, South:
 b.Val += b.VelV * dt
	case East, West:
 b.Val += b.VelU * dt
	}
	b.Box = boundaryBox(b.Side, b.Val, transverseLo, transverseHi, thickness)
}

// OutwardNormal returns the unit vector pointing out of the domain across
// this wall.
func (b Boundary) OutwardNormal() geo.Point {
	switch b.Side {
	case North:
 return geo.Point{X: 0, Y: 1}
	case South:
 return geo.Point{X: 0, Y: -1}
	case East:
 return geo.Point{X: 1, Y: 0}
	default:
 return geo.Point{X: -1, Y: 0}
	}
}

// Opposite returns the side paired with this one across the domain.
func (s Side) Opposite() Side {
	switch s {
	case North:
 return South
	case South:
 return North
	case East:
 return West
	default:
 return East
	}
}

// ValidatePair enforces the periodic-compatibility rule either both
// opposite walls are periodic, or neither is.
func ValidatePair(a, b Boundary) error {
	if (a.Kind == Periodic) != (b.Kind == Periodic) {
 return suberr.Newf(suberr.DomainInvariant,
 "%s and %s must both be periodic or both non-periodic", a.Side, b.Side)
	}
	return nil
}
