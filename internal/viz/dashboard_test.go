package viz

import (
	"testing"

	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/rng"
	"github.com/san-kum/subzero/internal/sim"
)

func testDriverForViz(t *testing.T) *sim.Driver {
	cfg := sim.Config{
		Grid:                 sim.GridSpec{X0: 0, Xf: 1e4, Y0: 0, Yf: 1e4, Nx: 8, Ny: 8},
		North:                sim.BoundarySpec{Kind: "collision"},
		South:                sim.BoundarySpec{Kind: "collision"},
		East:                 sim.BoundarySpec{Kind: "collision"},
		West:                 sim.BoundarySpec{Kind: "collision"},
		MinFloeArea:          1,
		MaxOverlapFloeFloe:   1e5,
		MaxOverlapFloeDomain: 1e5,
		SubfloeGenerator:     floe.SubfloeSubGrid,
		StressCalculator:     floe.StressRaw,
		Dt:                   1,
		NSteps:               1,
		RNGSeed:              5,
		StressHistoryLen:     4,
		RhoIce:               920,
		MaxFloeHeight:        5,
		PStar:                5e5,
		HiblerC:              -1,
		NPieces:              3,
	}
	d, err := sim.New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error building driver: %v", err)
	}
	return d
}

func TestTotalEnergySumsKineticTerms(t *testing.T) {
	f := floe.NewFactory(920, 5, 4, floe.SubfloeSubGrid, floe.StressRaw, rng.New(1))
	poly, _ := geo.NewPolygon([]geo.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	fl, _ := f.FromPolygon(poly, 1.0, 3.0, 0, 0, 0)

	e := totalEnergy([]*floe.Floe{fl})
	want := 0.5 * fl.Mass * 9.0
	if e != want {
		t.Errorf("energy = %v, want %v", e, want)
	}
}

func TestTotalEnergySkipsGhosts(t *testing.T) {
	f := floe.NewFactory(920, 5, 4, floe.SubfloeSubGrid, floe.StressRaw, rng.New(2))
	poly, _ := geo.NewPolygon([]geo.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	fl, _ := f.FromPolygon(poly, 1.0, 3.0, 0, 0, 0)
	ghost := fl.Clone()
	ghost.GhostID = 1

	e := totalEnergy([]*floe.Floe{fl, ghost})
	want := totalEnergy([]*floe.Floe{fl})
	if e != want {
		t.Errorf("expected ghost to be excluded from energy, got %v want %v", e, want)
	}
}

func TestBoundaryOccupancyCountsNearEdgeFloes(t *testing.T) {
	d := testDriverForViz(t)
	f := floe.NewFactory(920, 5, 4, floe.SubfloeSubGrid, floe.StressRaw, rng.New(3))
	center := squareAt(5000, 5000, 10)
	edge := squareAt(100, 100, 10)
	fCenter, _ := f.FromPolygon(center, 1, 0, 0, 0, 0)
	fEdge, _ := f.FromPolygon(edge, 1, 0, 0, 0, 0)
	d.Floes = []*floe.Floe{fCenter, fEdge}

	occ := boundaryOccupancy(d)
	if occ != 0.5 {
		t.Errorf("occupancy = %v, want 0.5", occ)
	}
}

func squareAt(x0, y0, side float64) geo.Polygon {
	p, _ := geo.NewPolygon([]geo.Point{
		{X: x0, Y: y0},
		{X: x0 + side, Y: y0},
		{X: x0 + side, Y: y0 + side},
		{X: x0, Y: y0 + side},
	})
	return p
}
