// Package config is the YAML-bound configuration surface of the simulator:
// grid, boundary kinds, physical constants, fracture/collision settings,
// floe settings, and simulation parameters.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// GridSpec is the grid config surface: either {Δx,Δy} or {Nx,Ny}.
type GridSpec struct {
	X0 float64 `yaml:"x0"`
	Xf float64 `yaml:"xf"`
	Y0 float64 `yaml:"y0"`
	Yf float64 `yaml:"yf"`
	Nx int     `yaml:"nx,omitempty"`
	Ny int     `yaml:"ny,omitempty"`
	Dx float64 `yaml:"dx,omitempty"`
	Dy float64 `yaml:"dy,omitempty"`
}

// BoundarySpec names a wall's kind before the domain is built: open,
// periodic, collision, or moving(u,v).
type BoundarySpec struct {
	Kind string  `yaml:"kind"`
	VelU float64 `yaml:"vel_u,omitempty"`
	VelV float64 `yaml:"vel_v,omitempty"`
}

// FractureConfig is the fracture engine's config surface.
type FractureConfig struct {
	On          bool    `yaml:"fractures_on"`
	Criteria    string  `yaml:"criteria"` // none | hibler | custom
	PStar       float64 `yaml:"p_star"`
	C           float64 `yaml:"c"`
	EveryNSteps int     `yaml:"dt_fracture"`
	NPieces     int     `yaml:"npieces"`
	DeformOn    bool    `yaml:"deform_on"`
	MinFloeArea float64 `yaml:"min_floe_area"`
}

// CollisionConfig is the collision engine's config surface.
type CollisionConfig struct {
	MaxOverlapFloeFloe   float64 `yaml:"floe_floe_max_overlap"`
	MaxOverlapFloeDomain float64 `yaml:"floe_domain_max_overlap"`
}

// FloeConfig is the floe factory's config surface.
type FloeConfig struct {
	MinFloeArea          float64 `yaml:"min_floe_area"`
	SubfloePointGenerator string  `yaml:"subfloe_point_generator"` // subgrid | ...
	StressCalculator      string  `yaml:"stress_calculator"`       // raw | ...
	RhoIce                float64 `yaml:"rho_ice"`
	MaxHeight             float64 `yaml:"max_height"`
	StressHistoryLen      int     `yaml:"stress_history_len"`
}

// SimulationConfig is the outer timestep/RNG surface.
type SimulationConfig struct {
	Dt      float64 `yaml:"dt"`
	NDt     int     `yaml:"n_dt"`
	Verbose bool    `yaml:"verbose"`
	RNGSeed int64   `yaml:"rng_seed"`
}

// Config is the full simulation configuration surface.
type Config struct {
	Grid       GridSpec         `yaml:"grid"`
	North      BoundarySpec     `yaml:"north"`
	South      BoundarySpec     `yaml:"south"`
	East       BoundarySpec     `yaml:"east"`
	West       BoundarySpec     `yaml:"west"`
	Constants  Constants        `yaml:"constants"`
	Fracture   FractureConfig   `yaml:"fracture"`
	Collision  CollisionConfig  `yaml:"collision"`
	Floe       FloeConfig       `yaml:"floe"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// DefaultConfig supplies every named physical and numerical constant.
func DefaultConfig() *Config {
	return &Config{
		Grid:      GridSpec{X0: 0, Xf: 1.28e6, Y0: 0, Yf: 1.28e6, Nx: 128, Ny: 128},
		North:     BoundarySpec{Kind: "collision"},
		South:     BoundarySpec{Kind: "collision"},
		East:      BoundarySpec{Kind: "periodic"},
		West:      BoundarySpec{Kind: "periodic"},
		Constants: DefaultConstants(),
		Fracture: FractureConfig{
			On: false, Criteria: "hibler", PStar: 2.75e4, C: 20,
			EveryNSteps: 10, NPieces: 3, DeformOn: false, MinFloeArea: 1e6,
		},
		Collision: CollisionConfig{
			MaxOverlapFloeFloe:   0.25,
			MaxOverlapFloeDomain: 0.25,
		},
		Floe: FloeConfig{
			MinFloeArea: 1e6, SubfloePointGenerator: "subgrid", StressCalculator: "raw",
			RhoIce: 920, MaxHeight: 10, StressHistoryLen: 50,
		},
		Simulation: SimulationConfig{Dt: 10, NDt: 1000, Verbose: false, RNGSeed: 1},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
