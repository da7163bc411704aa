// Package sim is the simulation driver: it owns the floe list, wires
// together coupling, collision, integration, and fracture, and runs the
// per-timestep loop
package sim

import (
	"github.com/san-kum/subzero/internal/config"
	"github.com/san-kum/subzero/internal/floe"
)

// BoundarySpec names a wall's behavior before the domain is built.
type BoundarySpec struct {
	Kind string `yaml:"kind"` // open | periodic | collision | moving
	VelU float64 `yaml:"vel_u"`
	VelV float64 `yaml:"vel_v"`
}

// GridSpec is the grid config surface either {Δx,Δy} or {Nx,Ny}.
type GridSpec struct {
	X0 float64 `yaml:"x0"`
	Xf float64 `yaml:"xf"`
	Y0 float64 `yaml:"y0"`
	Yf float64 `yaml:"yf"`
	Nx int `yaml:"nx"`
	Ny int `yaml:"ny"`
	Dx float64 `yaml:"dx"`
	Dy float64 `yaml:"dy"`
}

// Config is the full simulation configuration surface
type Config struct {
	Grid GridSpec
	North, South, East, West BoundarySpec
	Constants config.Constants
	FractureOn bool
	DeformOn bool
	FractureEveryNSteps int
	NPieces int
	MinFloeArea float64
	MaxOverlapFloeFloe float64
	MaxOverlapFloeDomain float64
	SubfloeGenerator floe.SubfloePointGenerator
	StressCalculator floe.StressCalculator
	Dt float64
	NSteps int
	Verbose bool
	RNGSeed int64
	StressHistoryLen int
	RhoIce, MaxFloeHeight float64
	PStar, HiblerC float64
}

// Metric observes floe state every step and reduces it to a scalar,
// with read-access to floe state between timesteps.
type Metric interface {
	Name() string
	Observe(floes []*floe.Floe, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(floes []*floe.Floe, t float64, step int)
}

// Result summarizes a finished run.
type Result struct {
	FinalFloes []*floe.Floe
	StepsTaken int
	Metrics map[string]float64
}
