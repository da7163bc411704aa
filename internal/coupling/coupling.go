// Package coupling computes per-floe ocean/atmosphere forcing and reverses
// the corresponding stress onto the ocean grid.
package coupling

import (
	"math"

	"github.com/san-kum/subzero/internal/compute"
	"github.com/san-kum/subzero/internal/config"
	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/grid"
)

// Engine holds everything a coupling pass needs beyond the floe list
// itself: the grid the fields live on, the fields, and the physical
// constants that parameterize drag and coriolis terms.
type Engine struct {
	Grid *grid.Grid
	Fields *grid.OceanAtmos
	Constants config.Constants
	Pool *compute.Pool
}

// New builds a coupling Engine over g/fields with the given constants.
func New(g *grid.Grid, fields *grid.OceanAtmos, constants config.Constants, pool *compute.Pool) *Engine {
	return &Engine{Grid: g, Fields: fields, Constants: constants, Pool: pool}
}

// Step runs one coupling pass over floes: for every active, non-ghost
// floe, accumulate OA force/torque and reverse-stress the overlapped grid
// cells. Ghost floes are excluded — they exist only for collision
// detection and must not double-count coupling forces.
func (e *Engine) Step(floes []*floe.Floe) {
	e.Pool.ForEach(len(floes), func(i int) {
 f := floes[i]
 if f.IsGhost() || f.Status != floe.Active {
 return
 }
 e.forceOnFloe(f)
	})
}

func (e *Engine) forceOnFloe(f *floe.Floe) {
	f.FxOA, f.FyOA, f.TorqueOA = 0, 0, 0
	g := e.Grid
	c := e.Constants

	candidates := g.CandidateCells(f.Centroid, f.RMax)
	if len(candidates) == 0 {
 return
	}
	cellPoly := func(i, j int) geo.Polygon { return g.CellPolygon(i, j) }

	for _, ij := range candidates {
 i, j := ij[0], ij[1]
 cell := cellPoly(i, j)
 overlaps := geo.Intersect(f.Polygon, cell)
 if len(overlaps) == 0 {
 continue
 }
 var overlapArea float64
 for _, o := range overlaps {
 overlapArea += o.Area()
 }
 if overlapArea <= 0 {
 continue
 }
 cellArea := g.CellArea(i, j)
 r := overlapArea / cellArea

 xc, yc := g.Xc[i], g.Yc[j]
 uIce := f.U - f.Xi*(yc-f.Centroid.Y)
 vIce := f.V + f.Xi*(xc-f.Centroid.X)

 atmU, atmV := e.Fields.AtmosVelocityAtCell(g, i, j)
 ocnU, ocnV := e.Fields.OceanVelocityAtCell(g, i, j)

 fAtmX, fAtmY := atmosDrag(c.RhoAtmos, c.CIA, atmU, atmV, overlapArea)

 massOverArea := f.Mass / f.Area
 fCorX, fCorY := coriolisForce(massOverArea, c.Coriolis, uIce, vIce, overlapArea)
 fPgX, fPgY := pressureGradientForce(massOverArea, c.Coriolis, ocnU, ocnV, overlapArea)
 fOcnX, fOcnY := oceanDrag(c.RhoOcean, c.CIO, c.TurnAngle, ocnU, ocnV, uIce, vIce, overlapArea)

 fx := fAtmX + fOcnX + fPgX + fCorX
 fy := fAtmY + fOcnY + fPgY + fCorY

 rx, ry := xc-f.Centroid.X, yc-f.Centroid.Y
 torque := rx*fy - ry*fx

 f.FxOA += fx
 f.FyOA += fy
 f.TorqueOA += torque

 cellIdx := g.CellIndex(i, j)
 g.Stress[cellIdx].Add(-fOcnX*r, -fOcnY*r)
	}
}

// atmosDrag is the quadratic atmospheric-drag force:
// f_atm = rho_atmos * C_ia * |u_atm| * u_atm * A_overlap.
func atmosDrag(rhoAtmos, cia, atmU, atmV, overlapArea float64) (fx, fy float64) {
	speed := math.Hypot(atmU, atmV)
	scale := rhoAtmos * cia * speed * overlapArea
	return scale * atmU, scale * atmV
}

// oceanDrag rotates the ice-relative ocean velocity by ±turnAngle before
// scaling by the quadratic drag law.
func oceanDrag(rhoOcean, cio, turnAngle, ocnU, ocnV, iceU, iceV, overlapArea float64) (fx, fy float64) {
	dU, dV := ocnU-iceU, ocnV-iceV
	cosT, sinT := math.Cos(turnAngle), math.Sin(turnAngle)
	rU := dU*cosT - dV*sinT
	rV := dU*sinT + dV*cosT
	speed := math.Hypot(rU, rV)
	scale := rhoOcean * cio * speed * overlapArea
	return scale * rU, scale * rV
}

// coriolisForce is the floe's own coriolis term: f_cor = (m/A) f (v, -u).
func coriolisForce(massOverArea, f, u, v, overlapArea float64) (fx, fy float64) {
	scale := massOverArea * f * overlapArea
	return scale * v, -scale * u
}

// pressureGradientForce approximates the sea-surface tilt term as a
// coriolis-scaled push from the ocean velocity itself.
func pressureGradientForce(massOverArea, f, ocnU, ocnV, overlapArea float64) (fx, fy float64) {
	scale := massOverArea * f * overlapArea
	return scale * ocnV, -scale * ocnU
}
