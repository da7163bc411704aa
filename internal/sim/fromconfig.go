package sim

import (
	"fmt"

	"github.com/san-kum/subzero/internal/config"
	"github.com/san-kum/subzero/internal/floe"
)

// FromAppConfig translates the YAML-bound configuration surface into
// the Driver-ready Config, resolving the string-named floe settings to
// their enum values.
func FromAppConfig(cfg *config.Config) (Config, error) {
	gen, err := parseSubfloeGenerator(cfg.Floe.SubfloePointGenerator)
	if err != nil {
		return Config{}, err
	}
	sc, err := parseStressCalculator(cfg.Floe.StressCalculator)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Grid: GridSpec{
			X0: cfg.Grid.X0, Xf: cfg.Grid.Xf, Y0: cfg.Grid.Y0, Yf: cfg.Grid.Yf,
			Nx: cfg.Grid.Nx, Ny: cfg.Grid.Ny, Dx: cfg.Grid.Dx, Dy: cfg.Grid.Dy,
		},
		North:                toBoundarySpec(cfg.North),
		South:                toBoundarySpec(cfg.South),
		East:                 toBoundarySpec(cfg.East),
		West:                 toBoundarySpec(cfg.West),
		Constants:            cfg.Constants,
		FractureOn:           cfg.Fracture.On,
		DeformOn:             cfg.Fracture.DeformOn,
		FractureEveryNSteps:  cfg.Fracture.EveryNSteps,
		NPieces:              cfg.Fracture.NPieces,
		MinFloeArea:          cfg.Floe.MinFloeArea,
		MaxOverlapFloeFloe:   cfg.Collision.MaxOverlapFloeFloe,
		MaxOverlapFloeDomain: cfg.Collision.MaxOverlapFloeDomain,
		SubfloeGenerator:     gen,
		StressCalculator:     sc,
		Dt:                   cfg.Simulation.Dt,
		NSteps:               cfg.Simulation.NDt,
		Verbose:              cfg.Simulation.Verbose,
		RNGSeed:              cfg.Simulation.RNGSeed,
		StressHistoryLen:     cfg.Floe.StressHistoryLen,
		RhoIce:               cfg.Floe.RhoIce,
		MaxFloeHeight:        cfg.Floe.MaxHeight,
		PStar:                cfg.Fracture.PStar,
		HiblerC:              cfg.Fracture.C,
	}, nil
}

func toBoundarySpec(b config.BoundarySpec) BoundarySpec {
	return BoundarySpec{Kind: b.Kind, VelU: b.VelU, VelV: b.VelV}
}

func parseSubfloeGenerator(name string) (floe.SubfloePointGenerator, error) {
	switch name {
	case "", "subgrid":
		return floe.SubfloeSubGrid, nil
	case "vertices":
		return floe.SubfloeVertices, nil
	default:
		return 0, fmt.Errorf("unknown subfloe_point_generator %q", name)
	}
}

func parseStressCalculator(name string) (floe.StressCalculator, error) {
	switch name {
	case "", "raw":
		return floe.StressRaw, nil
	case "area_scaled":
		return floe.StressAreaScaled, nil
	default:
		return 0, fmt.Errorf("unknown stress_calculator %q", name)
	}
}
