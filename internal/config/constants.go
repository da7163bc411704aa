package config

import "math"

// Constants holds the physical constants shared by coupling, collision, and
// fracture. Units are SI unless noted.
type Constants struct {
	RhoIce float64 `yaml:"rho_i"` // ice density, kg/m^3
	RhoOcean float64 `yaml:"rho_o"` // ocean density, kg/m^3
	RhoAtmos float64 `yaml:"rho_a"` // air density, kg/m^3
	CIO float64 `yaml:"c_io"` // ice-ocean drag coefficient
	CIA float64 `yaml:"c_ia"` // ice-atmosphere drag coefficient
	CAO float64 `yaml:"c_ao"` // atmosphere-ocean drag coefficient (reserved for external coupling)
	Coriolis float64 `yaml:"f"` // coriolis parameter, s^-1
	TurnAngle float64 `yaml:"turn_theta"` // ocean drag turn angle, radians
	L float64 `yaml:"l"` // latent heat of fusion term, J/kg
	K float64 `yaml:"k"` // thermal conductivity, W/(m K)
	Nu float64 `yaml:"nu"` // Poisson's ratio of ice
	Mu float64 `yaml:"mu"` // Coulomb friction coefficient
	E float64 `yaml:"e"` // Young's modulus of ice, Pa
}

// DefaultConstants returns the standard polar-ocean physical constant set.
func DefaultConstants() Constants {
	return Constants{
 RhoIce: 920,
 RhoOcean: 1027,
 RhoAtmos: 1.2,
 CIO: 3e-3,
 CIA: 1e-3,
 CAO: 1.25e-3,
 Coriolis: 1.4e-4,
 TurnAngle: 15 * math.Pi / 180,
 L: 2.93e5,
 K: 2.14,
 Nu: 0.3,
 Mu: 0.2,
 E: 6e6,
	}
}
