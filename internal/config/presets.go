package config

// Presets ships a handful of named domain configurations, the way the
// teacher ships pendulum/drone presets per model.
var Presets = map[string]*Config{
	"arctic-summer": {
		Grid:      GridSpec{X0: 0, Xf: 5e5, Y0: 0, Yf: 5e5, Nx: 64, Ny: 64},
		North:     BoundarySpec{Kind: "open"},
		South:     BoundarySpec{Kind: "open"},
		East:      BoundarySpec{Kind: "open"},
		West:      BoundarySpec{Kind: "open"},
		Constants: DefaultConstants(),
		Fracture: FractureConfig{
			On: true, Criteria: "hibler", PStar: 1e4, C: 20,
			EveryNSteps: 20, NPieces: 3, DeformOn: false, MinFloeArea: 5e5,
		},
		Collision: CollisionConfig{MaxOverlapFloeFloe: 0.3, MaxOverlapFloeDomain: 0.3},
		Floe: FloeConfig{
			MinFloeArea: 5e5, SubfloePointGenerator: "subgrid", StressCalculator: "raw",
			RhoIce: 910, MaxHeight: 2.5, StressHistoryLen: 50,
		},
		Simulation: SimulationConfig{Dt: 20, NDt: 2000, RNGSeed: 11},
	},
	"compression-test": {
		Grid:      GridSpec{X0: 0, Xf: 2e5, Y0: 0, Yf: 2e5, Nx: 32, Ny: 32},
		North:     BoundarySpec{Kind: "moving", VelV: -0.05},
		South:     BoundarySpec{Kind: "collision"},
		East:      BoundarySpec{Kind: "collision"},
		West:      BoundarySpec{Kind: "collision"},
		Constants: DefaultConstants(),
		Fracture: FractureConfig{
			On: true, Criteria: "hibler", PStar: 2.75e4, C: 20,
			EveryNSteps: 5, NPieces: 4, DeformOn: true, MinFloeArea: 1e4,
		},
		Collision: CollisionConfig{MaxOverlapFloeFloe: 0.15, MaxOverlapFloeDomain: 0.15},
		Floe: FloeConfig{
			MinFloeArea: 1e4, SubfloePointGenerator: "subgrid", StressCalculator: "raw",
			RhoIce: 920, MaxHeight: 5, StressHistoryLen: 50,
		},
		Simulation: SimulationConfig{Dt: 5, NDt: 5000, RNGSeed: 22},
	},
	"periodic-box": {
		Grid:      GridSpec{X0: 0, Xf: 1e5, Y0: 0, Yf: 1e5, Nx: 16, Ny: 16},
		North:     BoundarySpec{Kind: "periodic"},
		South:     BoundarySpec{Kind: "periodic"},
		East:      BoundarySpec{Kind: "periodic"},
		West:      BoundarySpec{Kind: "periodic"},
		Constants: DefaultConstants(),
		Fracture: FractureConfig{
			On: false, Criteria: "none", EveryNSteps: 0, NPieces: 3, MinFloeArea: 1e3,
		},
		Collision: CollisionConfig{MaxOverlapFloeFloe: 0.25, MaxOverlapFloeDomain: 0.25},
		Floe: FloeConfig{
			MinFloeArea: 1e3, SubfloePointGenerator: "subgrid", StressCalculator: "raw",
			RhoIce: 920, MaxHeight: 5, StressHistoryLen: 20,
		},
		Simulation: SimulationConfig{Dt: 10, NDt: 1000, RNGSeed: 33},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
