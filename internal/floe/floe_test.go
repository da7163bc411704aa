package floe

import (
	"math"
	"testing"

	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/rng"
)

func square(x0, y0, side float64) geo.Polygon {
	p, _ := geo.NewPolygon([]geo.Point{
		{X: x0, Y: y0},
		{X: x0 + side, Y: y0},
		{X: x0 + side, Y: y0 + side},
		{X: x0, Y: y0 + side},
	})
	return p
}

func testFactory() *Factory {
	return NewFactory(910, 5, 8, SubfloeSubGrid, StressRaw, rng.New(1))
}

func TestFromPolygonBasicProperties(t *testing.T) {
	f := testFactory()
	fl, err := f.FromPolygon(square(0, 0, 10), 1.0, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fl.Area <= 0 {
		t.Errorf("area = %v, want > 0", fl.Area)
	}
	if fl.RMax <= 0 {
		t.Errorf("rmax = %v, want > 0", fl.RMax)
	}
	maxDist := 0.0
	for _, v := range fl.Polygon.Outer {
		d := math.Hypot(v.X-fl.Centroid.X, v.Y-fl.Centroid.Y)
		if d > maxDist {
			maxDist = d
		}
	}
	if fl.RMax < maxDist-1e-9 {
		t.Errorf("rmax = %v, want >= max vertex distance %v", fl.RMax, maxDist)
	}
	if fl.Mass <= 0 {
		t.Errorf("mass = %v, want > 0", fl.Mass)
	}
	if fl.Status != Active {
		t.Errorf("status = %v, want Active", fl.Status)
	}
}

func TestFromPolygonRejectsNonPositiveHeight(t *testing.T) {
	f := testFactory()
	if _, err := f.FromPolygon(square(0, 0, 10), 0, 0, 0, 0, 0); err == nil {
		t.Error("expected error for zero height")
	}
}

func TestFromPolygonClampsHeightToMax(t *testing.T) {
	f := testFactory()
	fl, err := f.FromPolygon(square(0, 0, 10), 100, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fl.Height != f.MaxHeight {
		t.Errorf("height = %v, want clamped to %v", fl.Height, f.MaxHeight)
	}
}

func TestFactoryAssignsMonotonicIDs(t *testing.T) {
	f := testFactory()
	a, _ := f.FromPolygon(square(0, 0, 10), 1, 0, 0, 0, 0)
	b, _ := f.FromPolygon(square(20, 0, 10), 1, 0, 0, 0, 0)
	if b.ID <= a.ID {
		t.Errorf("IDs not monotonic: a=%d b=%d", a.ID, b.ID)
	}
}

func TestClonedFloeIsIndependent(t *testing.T) {
	f := testFactory()
	fl, _ := f.FromPolygon(square(0, 0, 10), 1, 0, 0, 0, 0)
	c := fl.Clone()
	c.U = 99
	c.Interactions = append(c.Interactions, InteractionRow{OtherID: 1})
	if fl.U == 99 {
		t.Error("mutating clone affected original velocity")
	}
	if len(fl.Interactions) != 0 {
		t.Error("mutating clone's interactions affected original")
	}
}

func TestTranslatedPreservesArea(t *testing.T) {
	f := testFactory()
	fl, _ := f.FromPolygon(square(0, 0, 10), 1, 0, 0, 0, 0)
	moved := fl.Translated(geo.Point{X: 50, Y: -50})
	if math.Abs(moved.Area-fl.Area) > 1e-9 {
		t.Errorf("area changed on translate: %v vs %v", moved.Area, fl.Area)
	}
	if math.Abs(moved.Centroid.X-(fl.Centroid.X+50)) > 1e-9 {
		t.Errorf("centroid not translated correctly")
	}
}

func TestStressRingMeanAndSum(t *testing.T) {
	r := NewStressRing(3)
	r.Push(Mat2{Xx: 1, Yy: 1})
	r.Push(Mat2{Xx: 2, Yy: 2})
	r.Push(Mat2{Xx: 3, Yy: 3})
	if r.Count() != 3 {
		t.Errorf("count = %d, want 3", r.Count())
	}
	mean := r.Mean()
	if math.Abs(mean.Xx-2) > 1e-9 {
		t.Errorf("mean.Xx = %v, want 2", mean.Xx)
	}
	r.Push(Mat2{Xx: 4, Yy: 4}) // evicts the first entry (1)
	if r.Count() != 3 {
		t.Errorf("count after overflow = %d, want 3 (capacity)", r.Count())
	}
	mean = r.Mean()
	if math.Abs(mean.Xx-3) > 1e-9 {
		t.Errorf("mean.Xx after eviction = %v, want 3", mean.Xx)
	}
}

func TestMat2EigenvaluesOfIsotropicTensor(t *testing.T) {
	m := Mat2{Xx: 5, Xy: 0, Yx: 0, Yy: 5}
	l1, l2 := m.Eigenvalues()
	if math.Abs(l1-5) > 1e-9 || math.Abs(l2-5) > 1e-9 {
		t.Errorf("eigenvalues = (%v, %v), want (5, 5)", l1, l2)
	}
}

func TestVoronoiCellsProduceRequestedCount(t *testing.T) {
	stream := rng.New(7)
	cells, err := VoronoiCells(geo.Point{X: 0, Y: 0}, 100, 1, DefaultVoronoiOptions(6), stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cells) < 6 {
		t.Errorf("got %d cells, want at least 6", len(cells))
	}
	for _, c := range cells {
		if c.Area() <= 0 {
			t.Error("voronoi cell has non-positive area")
		}
	}
}

func TestTessellatePolygonStaysInsideRegion(t *testing.T) {
	stream := rng.New(3)
	region := square(0, 0, 100)
	pieces, err := TessellatePolygon(region, DefaultVoronoiOptions(4), stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pieces) == 0 {
		t.Fatal("expected at least one piece")
	}
	total := 0.0
	for _, p := range pieces {
		if p.HasHole() {
			t.Error("tessellation piece unexpectedly has a hole")
		}
		total += p.Area()
	}
	if total > region.Area()+1e-6 {
		t.Errorf("pieces area %v exceeds region area %v", total, region.Area())
	}
}

func TestFillVoronoiBuildsFloesWithinRegion(t *testing.T) {
	f := testFactory()
	region := square(0, 0, 200)
	floes, err := f.FillVoronoi(region, 1.0, DefaultVoronoiOptions(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(floes) == 0 {
		t.Fatal("expected at least one floe from fill")
	}
	for _, fl := range floes {
		if fl.Area <= 0 {
			t.Error("filled floe has non-positive area")
		}
		if fl.ID == 0 {
			t.Error("filled floe missing an assigned ID")
		}
	}
}

func TestSplitAroundHolesWithoutHoleFails(t *testing.T) {
	f := testFactory()
	fl, _ := f.FromPolygon(square(0, 0, 10), 1, 0, 0, 0, 0)
	if _, ok := f.SplitAroundHoles(fl); ok {
		t.Error("expected SplitAroundHoles to report no hole present")
	}
}
