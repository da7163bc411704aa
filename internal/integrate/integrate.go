// Package integrate implements the Adams-Bashforth-like second-order
// rigid body integrator: height clamping, mass-floor resurrection,
// collision-force runaway guard, thermodynamic height update, and the
// position/velocity steps themselves.
package integrate

import (
	"math"

	"github.com/san-kum/subzero/internal/compute"
	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/geo"
)

const (
	maxHeight = 10.0
	minMass = 100.0
	resurrectMass = 1e3
	maxAngularVel = 1e-5
)

// Engine advances every active floe's kinematics by one timestep.
type Engine struct {
	Dt float64
	Pool *compute.Pool
}

// New builds an integration Engine with timestep dt.
func New(dt float64, pool *compute.Pool) *Engine {
	return &Engine{Dt: dt, Pool: pool}
}

// Step advances every real, active floe by one timestep; ghost replicas
// in the list are skipped (the driver drops and rebuilds them each step).
func (e *Engine) Step(floes []*floe.Floe) {
	e.Pool.ForEach(len(floes), func(i int) {
 f := floes[i]
 if f.IsGhost() || f.Status != floe.Active {
 return
 }
 e.stepFloe(f)
	})
}

func (e *Engine) stepFloe(f *floe.Floe) {
	dt := e.Dt

	if f.Height > maxHeight {
 f.Height = maxHeight
	}
	if f.Mass < minMass {
 f.Mass = resurrectMass
 f.Status = floe.Remove
 return
	}

	guardRunawayCollisionForce(f, dt)

	thermodynamicHeightUpdate(f, dt)

	prevDx, prevDy, prevDAlpha := f.PrevDx, f.PrevDy, f.PrevDAlpha
	dx := 1.5*dt*f.U - 0.5*dt*prevDx
	dy := 1.5*dt*f.V - 0.5*dt*prevDy
	dAlpha := 1.5*dt*f.Xi - 0.5*dt*prevDAlpha

	f.Polygon = f.Polygon.Translate(geo.Point{X: dx, Y: dy})
	f.Centroid.X += dx
	f.Centroid.Y += dy
	f.Alpha += dAlpha
	f.PrevDx, f.PrevDy, f.PrevDAlpha = dt*f.U, dt*f.V, dt*f.Xi

	duDot := (f.FxOA + f.CollisionFx) / f.Mass
	dvDot := (f.FyOA + f.CollisionFy) / f.Mass
	clampAcceleration(&duDot, &dvDot, dt, f.Height)

	prevDu, prevDv, prevDxi := f.PrevDu, f.PrevDv, f.PrevDxi
	f.U += 1.5*dt*duDot - 0.5*dt*prevDu
	f.V += 1.5*dt*dvDot - 0.5*dt*prevDv

	dxiDot := (f.TorqueOA + f.CollisionTrq) / f.Moment
	f.Xi += 1.5*dt*dxiDot - 0.5*dt*prevDxi
	if f.Xi > maxAngularVel {
 f.Xi = maxAngularVel
	} else if f.Xi < -maxAngularVel {
 f.Xi = -maxAngularVel
	}

	f.PrevDu, f.PrevDv, f.PrevDxi = dt*duDot, dt*dvDot, dt*dxiDot
}

// guardRunawayCollisionForce repeatedly scales collision force and torque
// down by a factor of 10 while the larger force component still exceeds
// mass/(5*dt), for at most 64 rounds.
func guardRunawayCollisionForce(f *floe.Floe, dt float64) {
	limit := f.Mass / (5 * dt)
	for iterations := 0; iterations < 64; iterations++ {
 mag := math.Max(math.Abs(f.CollisionFx), math.Abs(f.CollisionFy))
 if mag <= limit {
 return
 }
 f.CollisionFx *= 0.1
 f.CollisionFy *= 0.1
 f.CollisionTrq *= 0.1
	}
}

// thermodynamicHeightUpdate applies dh = hflx*dt/h, scaling mass and
// moment by the resulting (h-dh)/h ratio. hflx defaults to 0 when
// the floe carries no thermodynamic forcing; callers wanting melt/growth
// should set HFlx on the floe before calling Step — here it is read off a
// zero value so non-thermodynamic configurations are unaffected.
func thermodynamicHeightUpdate(f *floe.Floe, dt float64) {
	if f.Height <= 0 {
 return
	}
	dh := f.HFlx * dt / f.Height
	ratio := (f.Height - dh) / f.Height
	f.Height -= dh
	if f.Height < 0 {
 f.Height = 0
	}
	f.Mass *= ratio
	f.Moment *= ratio
}

// clampAcceleration scales (du,dv) down if |dt*du| or |dt*dv| exceeds
// height/2, keeping their ratio fixed.
func clampAcceleration(du, dv *float64, dt, height float64) {
	limit := height / 2
	if limit <= 0 {
 return
	}
	sx := math.Abs(dt * *du)
	sy := math.Abs(dt * *dv)
	worst := math.Max(sx, sy)
	if worst <= limit {
 return
	}
	scale := limit / worst
	*du *= scale
	*dv *= scale
}
