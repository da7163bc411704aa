package domain

import (
	"math"
	"testing"

	"github.com/san-kum/subzero/internal/geo"
)

func testWalls(northKind, southKind, eastKind, westKind Kind) (Boundary, Boundary, Boundary, Boundary) {
	north := NewBoundary(North, northKind, 100, 0, 100, 1)
	south := NewBoundary(South, southKind, 0, 0, 100, 1)
	east := NewBoundary(East, eastKind, 100, 0, 100, 1)
	west := NewBoundary(West, westKind, 0, 0, 100, 1)
	return north, south, east, west
}

func TestSideString(t *testing.T) {
	cases := map[Side]string{North: "north", South: "south", East: "east", West: "west"}
	for side, want := range cases {
		if got := side.String(); got != want {
			t.Errorf("Side(%d).String() = %q, want %q", side, got, want)
		}
	}
}

func TestSideOppositeIsInvolution(t *testing.T) {
	for _, s := range []Side{North, South, East, West} {
		if s.Opposite().Opposite() != s {
			t.Errorf("Opposite(Opposite(%v)) != %v", s, s)
		}
	}
}

func TestNewBoundaryMovingAdvanceUpdatesVal(t *testing.T) {
	b := NewBoundary(East, Moving, 100, 0, 100, 1)
	b.VelU = 2.0
	b.Advance(1.0, 0, 100, 1)
	if math.Abs(b.Val-102.0) > 1e-9 {
		t.Errorf("east wall val = %v, want 102", b.Val)
	}
}

func TestAdvanceIgnoresNonMovingWalls(t *testing.T) {
	b := NewBoundary(North, Collision, 100, 0, 100, 1)
	b.Advance(1.0, 0, 100, 1)
	if b.Val != 100 {
		t.Errorf("wall val = %v, want unchanged 100", b.Val)
	}
}

func TestOutwardNormals(t *testing.T) {
	cases := map[Side]geo.Point{
		North: {X: 0, Y: 1},
		South: {X: 0, Y: -1},
		East:  {X: 1, Y: 0},
		West:  {X: -1, Y: 0},
	}
	for side, want := range cases {
		b := Boundary{Side: side}
		got := b.OutwardNormal()
		if got != want {
			t.Errorf("OutwardNormal(%v) = %v, want %v", side, got, want)
		}
	}
}

func TestValidatePairRejectsMismatchedPeriodicity(t *testing.T) {
	a := NewBoundary(North, Periodic, 100, 0, 100, 1)
	b := NewBoundary(South, Collision, 0, 0, 100, 1)
	if err := ValidatePair(a, b); err == nil {
		t.Error("expected error for mismatched periodic pairing")
	}
}

func TestValidatePairAcceptsMatchedPeriodicity(t *testing.T) {
	a := NewBoundary(East, Periodic, 100, 0, 100, 1)
	b := NewBoundary(West, Periodic, 0, 0, 100, 1)
	if err := ValidatePair(a, b); err != nil {
		t.Errorf("unexpected error for matched periodic pairing: %v", err)
	}
}

func TestNewRejectsInvertedAxis(t *testing.T) {
	north := NewBoundary(North, Collision, 0, 0, 100, 1)
	south := NewBoundary(South, Collision, 100, 0, 100, 1)
	east := NewBoundary(East, Collision, 100, 0, 100, 1)
	west := NewBoundary(West, Collision, 0, 0, 100, 1)
	if _, err := New(north, south, east, west, nil); err == nil {
		t.Error("expected error when north.val <= south.val")
	}
}

func TestNewRejectsMismatchedPeriodicAxis(t *testing.T) {
	north := NewBoundary(North, Periodic, 100, 0, 100, 1)
	south := NewBoundary(South, Collision, 0, 0, 100, 1)
	east := NewBoundary(East, Collision, 100, 0, 100, 1)
	west := NewBoundary(West, Collision, 0, 0, 100, 1)
	if _, err := New(north, south, east, west, nil); err == nil {
		t.Error("expected error for one-sided periodic axis")
	}
}

func TestDomainWidthAndHeight(t *testing.T) {
	north, south, east, west := testWalls(Collision, Collision, Collision, Collision)
	d, err := New(north, south, east, west, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Width() != 100 {
		t.Errorf("width = %v, want 100", d.Width())
	}
	if d.Height() != 100 {
		t.Errorf("height = %v, want 100", d.Height())
	}
}

func TestDomainContains(t *testing.T) {
	north, south, east, west := testWalls(Collision, Collision, Collision, Collision)
	d, err := New(north, south, east, west, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Contains(geo.Point{X: 50, Y: 50}) {
		t.Error("expected (50,50) to lie inside the domain")
	}
	if d.Contains(geo.Point{X: 150, Y: 50}) {
		t.Error("expected (150,50) to lie outside the domain")
	}
}

func TestAllPeriodicRequiresAllFourWalls(t *testing.T) {
	north, south, east, west := testWalls(Periodic, Periodic, Collision, Collision)
	d, err := New(north, south, east, west, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.AllPeriodic() {
		t.Error("expected AllPeriodic false with non-periodic east/west walls")
	}
}

func TestPeriodicAxisExtent(t *testing.T) {
	north, south, east, west := testWalls(Collision, Collision, Collision, Collision)
	d, err := New(north, south, east, west, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.PeriodicAxisExtent(East) != d.Width() {
		t.Errorf("east axis extent = %v, want width %v", d.PeriodicAxisExtent(East), d.Width())
	}
	if d.PeriodicAxisExtent(North) != d.Height() {
		t.Errorf("north axis extent = %v, want height %v", d.PeriodicAxisExtent(North), d.Height())
	}
}

func TestNewTopographyRemovesHoles(t *testing.T) {
	pts := []geo.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	topo, err := NewTopography(pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if topo.Polygon.HasHole() {
		t.Error("expected NewTopography to strip holes")
	}
	if topo.RMax <= 0 {
		t.Errorf("rmax = %v, want > 0", topo.RMax)
	}
}
