package grid

// OceanAtmos holds the (Nx+1, Ny+1) matrices of per-grid-line-point forcing
// fields the coupling engine reads and reverse-stresses.
type OceanAtmos struct {
	Nx, Ny int

	U, V []float64 // ocean velocity
	AtmU, AtmV []float64 // atmosphere velocity
	Temp []float64 // ocean temperature
	TauX, TauY []float64 // reverse ice stress onto the ocean
	SiFrac []float64 // sea-ice concentration
	HFlxFactor []float64 // thermodynamic heat-flux scale
	Dissolved []float64 // dissolved (melted) ice fraction
}

// NewOceanAtmos allocates fields sized to a grid's grid-line points.
func NewOceanAtmos(g *Grid) *OceanAtmos {
	n := (g.Nx + 1) * (g.Ny + 1)
	oa := &OceanAtmos{Nx: g.Nx, Ny: g.Ny}
	oa.U = make([]float64, n)
	oa.V = make([]float64, n)
	oa.AtmU = make([]float64, n)
	oa.AtmV = make([]float64, n)
	oa.Temp = make([]float64, n)
	oa.TauX = make([]float64, n)
	oa.TauY = make([]float64, n)
	oa.SiFrac = make([]float64, n)
	oa.HFlxFactor = make([]float64, n)
	oa.Dissolved = make([]float64, n)
	return oa
}

func (oa *OceanAtmos) index(g *Grid, i, j int) int { return g.GridPointIndex(i, j) }

// OceanVelocityAt returns the ocean velocity at grid-line point (i,j).
func (oa *OceanAtmos) OceanVelocityAt(g *Grid, i, j int) (u, v float64) {
	idx := oa.index(g, i, j)
	return oa.U[idx], oa.V[idx]
}

// AtmosVelocityAt returns the atmospheric velocity at grid-line point (i,j).
func (oa *OceanAtmos) AtmosVelocityAt(g *Grid, i, j int) (u, v float64) {
	idx := oa.index(g, i, j)
	return oa.AtmU[idx], oa.AtmV[idx]
}

// OceanVelocityAtCell averages the four grid-line points bounding cell
// (i,j) to approximate the ocean velocity at the cell center, where
// coupling's forcing integrals are evaluated.
func (oa *OceanAtmos) OceanVelocityAtCell(g *Grid, i, j int) (u, v float64) {
	u00, v00 := oa.OceanVelocityAt(g, i, j)
	u10, v10 := oa.OceanVelocityAt(g, i+1, j)
	u01, v01 := oa.OceanVelocityAt(g, i, j+1)
	u11, v11 := oa.OceanVelocityAt(g, i+1, j+1)
	return (u00 + u10 + u01 + u11) / 4, (v00 + v10 + v01 + v11) / 4
}

// AtmosVelocityAtCell averages the four grid-line points bounding cell
// (i,j) to approximate the atmospheric velocity at the cell center.
func (oa *OceanAtmos) AtmosVelocityAtCell(g *Grid, i, j int) (u, v float64) {
	u00, v00 := oa.AtmosVelocityAt(g, i, j)
	u10, v10 := oa.AtmosVelocityAt(g, i+1, j)
	u01, v01 := oa.AtmosVelocityAt(g, i, j+1)
	u11, v11 := oa.AtmosVelocityAt(g, i+1, j+1)
	return (u00 + u10 + u01 + u11) / 4, (v00 + v10 + v01 + v11) / 4
}

// ResetSiFrac zeroes sea-ice concentration before a coupling pass.
func (oa *OceanAtmos) ResetSiFrac() {
	for i := range oa.SiFrac {
 oa.SiFrac[i] = 0
	}
}

// AddTau accumulates reverse-stress contributions and concentration at a
// grid-line point; coupling calls this once per overlapping floe.
func (oa *OceanAtmos) AddTau(g *Grid, i, j int, tauX, tauY, areaFrac float64) {
	idx := oa.index(g, i, j)
	oa.TauX[idx] += tauX
	oa.TauY[idx] += tauY
	oa.SiFrac[idx] += areaFrac
}

// ResetTau clears the reverse-stress accumulators (driver step 1).
func (oa *OceanAtmos) ResetTau() {
	for i := range oa.TauX {
 oa.TauX[i] = 0
 oa.TauY[i] = 0
	}
}
