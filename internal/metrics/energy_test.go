package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/rng"
)

func testFloe(t *testing.T, u, v, xi float64) *floe.Floe {
	f := floe.NewFactory(920, 5, 4, floe.SubfloeSubGrid, floe.StressRaw, rng.New(1))
	poly, err := geo.NewPolygon([]geo.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	})
	if err != nil {
		t.Fatalf("unexpected polygon error: %v", err)
	}
	fl, err := f.FromPolygon(poly, 1.0, u, v, xi, 0)
	if err != nil {
		t.Fatalf("unexpected floe error: %v", err)
	}
	return fl
}

func TestEnergyDriftZeroOnFirstObservation(t *testing.T) {
	e := NewEnergyDrift()
	fl := testFloe(t, 1, 0, 0)

	e.Observe([]*floe.Floe{fl}, 0)
	if e.Value() != 0 {
		t.Errorf("expected zero drift on first sample, got %v", e.Value())
	}
}

func TestEnergyDriftTracksMaxRelativeChange(t *testing.T) {
	e := NewEnergyDrift()
	slow := testFloe(t, 1, 0, 0)
	fast := testFloe(t, 2, 0, 0)

	e.Observe([]*floe.Floe{slow}, 0)
	e.Observe([]*floe.Floe{fast}, 1)

	want := math.Abs(0.5*fast.Mass*4-0.5*slow.Mass*1) / (0.5 * slow.Mass * 1)
	if math.Abs(e.Value()-want) > 1e-9 {
		t.Errorf("drift = %v, want %v", e.Value(), want)
	}
}

func TestEnergyDriftReset(t *testing.T) {
	e := NewEnergyDrift()
	fl := testFloe(t, 1, 0, 0)
	e.Observe([]*floe.Floe{fl}, 0)
	e.Observe([]*floe.Floe{testFloe(t, 5, 0, 0)}, 1)
	if e.Value() == 0 {
		t.Fatal("expected non-zero drift before reset")
	}
	e.Reset()
	if e.Value() != 0 {
		t.Errorf("expected zero drift after reset, got %v", e.Value())
	}
}

func TestEnergyDriftSkipsGhosts(t *testing.T) {
	e := NewEnergyDrift()
	fl := testFloe(t, 1, 0, 0)
	ghost := fl.Clone()
	ghost.GhostID = 1
	ghost.U = 100

	e.Observe([]*floe.Floe{fl, ghost}, 0)
	want := totalKineticEnergy([]*floe.Floe{fl})
	if e.Value() != 0 {
		t.Fatal("expected zero drift on first sample regardless of ghosts")
	}
	if totalKineticEnergy([]*floe.Floe{fl, ghost}) != want {
		t.Errorf("ghost floe should not contribute to kinetic energy total")
	}
}

func TestMassConservationStartsAtOne(t *testing.T) {
	m := NewMassConservation()
	fl := testFloe(t, 0, 0, 0)
	m.Observe([]*floe.Floe{fl}, 0)
	if m.Value() != 1 {
		t.Errorf("expected conservation value 1 on first sample, got %v", m.Value())
	}
}

func TestMassConservationDetectsDrift(t *testing.T) {
	m := NewMassConservation()
	fl := testFloe(t, 0, 0, 0)
	m.Observe([]*floe.Floe{fl}, 0)

	heavier := fl.Clone()
	heavier.Mass *= 2
	m.Observe([]*floe.Floe{heavier}, 1)

	if m.Value() >= 1 {
		t.Errorf("expected conservation value below 1 after mass changed, got %v", m.Value())
	}
}

func TestMassConservationReset(t *testing.T) {
	m := NewMassConservation()
	fl := testFloe(t, 0, 0, 0)
	m.Observe([]*floe.Floe{fl}, 0)
	heavier := fl.Clone()
	heavier.Mass *= 3
	m.Observe([]*floe.Floe{heavier}, 1)
	m.Reset()
	if m.Value() != 1 {
		t.Errorf("expected conservation value 1 after reset, got %v", m.Value())
	}
}

func TestFragmentationRateTracksCountGrowth(t *testing.T) {
	fr := NewFragmentationRate()
	a := testFloe(t, 0, 0, 0)
	b := testFloe(t, 0, 0, 0)
	c := testFloe(t, 0, 0, 0)

	fr.Observe([]*floe.Floe{a}, 0)
	if fr.Value() != 1 {
		t.Errorf("expected rate 1 with one floe observed once, got %v", fr.Value())
	}

	fr.Observe([]*floe.Floe{a, b, c}, 1)
	if fr.Value() != 3 {
		t.Errorf("expected rate 3 after growing to 3 floes, got %v", fr.Value())
	}
}

func TestFragmentationRateIgnoresGhosts(t *testing.T) {
	fr := NewFragmentationRate()
	a := testFloe(t, 0, 0, 0)
	ghost := a.Clone()
	ghost.GhostID = 1

	fr.Observe([]*floe.Floe{a, ghost}, 0)
	if fr.Value() != 1 {
		t.Errorf("expected ghost floe excluded from count, got rate %v", fr.Value())
	}
}
