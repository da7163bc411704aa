package metrics

import (
	"math"

	"github.com/san-kum/subzero/internal/floe"
)

// MassConservation reports 1 minus the largest relative deviation of
// total real-floe mass from the first observed step; fracture splits
// and fusions should leave this near 1.
type MassConservation struct {
	initialMass float64
	samples     int
	worstDrift  float64
}

func NewMassConservation() *MassConservation { return &MassConservation{} }

func (m *MassConservation) Name() string { return "mass_conservation" }

func (m *MassConservation) Observe(floes []*floe.Floe, t float64) {
	var mass float64
	for _, f := range floes {
		if !f.IsGhost() {
			mass += f.Mass
		}
	}
	if m.samples == 0 {
		m.initialMass = mass
	}
	m.samples++
	if m.initialMass != 0 {
		drift := math.Abs(mass-m.initialMass) / m.initialMass
		if drift > m.worstDrift {
			m.worstDrift = drift
		}
	}
}

func (m *MassConservation) Value() float64 {
	if m.samples == 0 {
		return 1.0
	}
	return 1.0 - m.worstDrift
}

func (m *MassConservation) Reset() {
	m.initialMass = 0
	m.samples = 0
	m.worstDrift = 0
}

// FragmentationRate is the ratio of the most recently observed real-floe
// count to the first observed count, tracking fracture-driven growth of
// the floe population over a run.
type FragmentationRate struct {
	initialCount int
	lastCount    int
	samples      int
}

func NewFragmentationRate() *FragmentationRate { return &FragmentationRate{} }

func (f *FragmentationRate) Name() string { return "fragmentation_rate" }

func (f *FragmentationRate) Observe(floes []*floe.Floe, t float64) {
	count := 0
	for _, fl := range floes {
		if !fl.IsGhost() {
			count++
		}
	}
	if f.samples == 0 {
		f.initialCount = count
	}
	f.lastCount = count
	f.samples++
}

func (f *FragmentationRate) Value() float64 {
	if f.initialCount == 0 {
		return 0
	}
	return float64(f.lastCount) / float64(f.initialCount)
}

func (f *FragmentationRate) Reset() {
	f.initialCount = 0
	f.lastCount = 0
	f.samples = 0
}
