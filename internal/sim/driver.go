package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/subzero/internal/collision"
	"github.com/san-kum/subzero/internal/compute"
	"github.com/san-kum/subzero/internal/coupling"
	"github.com/san-kum/subzero/internal/domain"
	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/fracture"
	"github.com/san-kum/subzero/internal/grid"
	"github.com/san-kum/subzero/internal/integrate"
	"github.com/san-kum/subzero/internal/rng"
)

// Driver owns the floe list and every engine the timestep loop fans out
// to.
type Driver struct {
	cfg Config

	Domain *domain.Domain
	Grid *grid.Grid
	Fields *grid.OceanAtmos
	Factory *floe.Factory
	Stream *rng.Stream

	coupling *coupling.Engine
	collision *collision.Engine
	integrate *integrate.Engine
	fracture *fracture.Engine

	Floes []*floe.Floe
	T float64
	Step int

	metrics []Metric
	observers []Observer
}

// New builds a Driver from cfg and the initial floe list.
func New(cfg Config, initial []*floe.Floe) (*Driver, error) {
	dom, err := buildDomain(cfg)
	if err != nil {
 return nil, err
	}
	g := buildGrid(cfg.Grid)
	fields := grid.NewOceanAtmos(g)

	stream := rng.New(cfg.RNGSeed)
	factory := floe.NewFactory(cfg.RhoIce, cfg.MaxFloeHeight, cfg.StressHistoryLen, cfg.SubfloeGenerator, cfg.StressCalculator, stream)

	pool := compute.New()
	couplingEngine := coupling.New(g, fields, cfg.Constants, pool)
	collisionEngine := collision.New(dom, cfg.Constants, pool, cfg.Dt, cfg.MaxOverlapFloeFloe, cfg.MaxOverlapFloeDomain)
	integrateEngine := integrate.New(cfg.Dt, pool)

	curve := fracture.NewHibler(cfg.PStar, cfg.HiblerC)
	domainArea := dom.Width() * dom.Height()
	opts := floe.VoronoiOptions{NPieces: cfg.NPieces, MaxTries: 10, MinAcceptable: 2}
	fractureEngine := fracture.New(curve, cfg.MinFloeArea, cfg.DeformOn, opts, factory, domainArea, stream)

	d := &Driver{
 cfg: cfg,
 Domain: dom,
 Grid: g,
 Fields: fields,
 Factory: factory,
 Stream: stream,
 coupling: couplingEngine,
 collision: collisionEngine,
 integrate: integrateEngine,
 fracture: fractureEngine,
 Floes: initial,
	}
	return d, nil
}

func buildGrid(spec GridSpec) *grid.Grid {
	if spec.Nx > 0 && spec.Ny > 0 {
 return grid.New(spec.X0, spec.Xf, spec.Y0, spec.Yf, spec.Nx, spec.Ny)
	}
	return grid.NewFromSpacing(spec.X0, spec.Xf, spec.Y0, spec.Yf, spec.Dx, spec.Dy)
}

func buildDomain(cfg Config) (*domain.Domain, error) {
	const thickness = 1.0
	north := domain.NewBoundary(domain.North, parseKind(cfg.North.Kind), cfg.Grid.Yf, cfg.Grid.X0, cfg.Grid.Xf, thickness)
	south := domain.NewBoundary(domain.South, parseKind(cfg.South.Kind), cfg.Grid.Y0, cfg.Grid.X0, cfg.Grid.Xf, thickness)
	east := domain.NewBoundary(domain.East, parseKind(cfg.East.Kind), cfg.Grid.Xf, cfg.Grid.Y0, cfg.Grid.Yf, thickness)
	west := domain.NewBoundary(domain.West, parseKind(cfg.West.Kind), cfg.Grid.X0, cfg.Grid.Y0, cfg.Grid.Yf, thickness)
	north.VelU, north.VelV = cfg.North.VelU, cfg.North.VelV
	south.VelU, south.VelV = cfg.South.VelU, cfg.South.VelV
	east.VelU, east.VelV = cfg.East.VelU, cfg.East.VelV
	west.VelU, west.VelV = cfg.West.VelU, cfg.West.VelV
	return domain.New(north, south, east, west, nil)
}

func parseKind(s string) domain.Kind {
	switch s {
	case "periodic":
 return domain.Periodic
	case "collision":
 return domain.Collision
	case "moving":
 return domain.Moving
	default:
 return domain.Open
	}
}

// StepOnce advances the simulation by a single timestep and fires every
// registered metric/observer, for callers (e.g. the live dashboard) that
// drive the loop themselves instead of calling Run.
func (d *Driver) StepOnce() {
	d.step()
	for _, m := range d.metrics {
 m.Observe(d.Floes, d.T)
	}
	for _, obs := range d.observers {
 obs.OnStep(d.Floes, d.T, d.Step)
	}
}

// AddMetric registers a metric observed every step.
func (d *Driver) AddMetric(m Metric) { d.metrics = append(d.metrics, m) }

// AddObserver registers an observer notified after every step.
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Run executes cfg.NSteps timesteps, honoring ctx cancellation between
// steps.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	if d.cfg.Dt <= 0 {
 return nil, fmt.Errorf("dt must be positive, got %v", d.cfg.Dt)
	}
	for _, m := range d.metrics {
 m.Reset()
	}

	for i := 0; i < d.cfg.NSteps; i++ {
 select {
 case <-ctx.Done():
 return d.result(), ctx.Err()
 default:
 }
 d.step()
 for _, m := range d.metrics {
 m.Observe(d.Floes, d.T)
 }
 for _, obs := range d.observers {
 obs.OnStep(d.Floes, d.T, d.Step)
 }
	}
	return d.result(), nil
}

func (d *Driver) step() {
	d.Grid.ResetStress()
	d.Fields.ResetTau()
	d.Fields.ResetSiFrac()
	d.Floes = dropGhosts(d.Floes)

	d.Floes = collision.AddGhosts(d.Floes, d.Domain)
	d.coupling.Step(d.Floes)
	d.collision.Step(d.Floes)
	d.Domain.AdvanceBoundaries(d.cfg.Dt)
	d.integrate.Step(d.Floes)

	d.Step++
	if d.cfg.FractureOn && d.cfg.FractureEveryNSteps > 0 && d.Step%d.cfg.FractureEveryNSteps == 0 {
 d.Floes = dropGhosts(d.Floes)
 d.Floes = d.fracture.Step(d.Floes)
	}

	d.Floes = compact(d.Floes)
	d.T += d.cfg.Dt
}

func dropGhosts(floes []*floe.Floe) []*floe.Floe {
	out := floes[:0]
	for _, f := range floes {
 if !f.IsGhost() {
 f.Ghosts = f.Ghosts[:0]
 out = append(out, f)
 }
	}
	return out
}

// compact fuses Fuse-marked pairs before dropping Remove-marked floes, so
// merged mass is conserved before either side can be dropped.
func compact(floes []*floe.Floe) []*floe.Floe {
	floes = fusePairs(floes)
	out := make([]*floe.Floe, 0, len(floes))
	for _, f := range floes {
 if f.Status != floe.Remove {
 out = append(out, f)
 }
	}
	return out
}

// fusePairs merges each Fuse-marked floe with its first listed partner: the
// Fuse-marked floe takes the mass-weighted mean velocity and the summed
// mass, area and moment, conserving mass and linear momentum, and keeps its
// own polygon; the absorbed partner is marked Remove.
func fusePairs(floes []*floe.Floe) []*floe.Floe {
	byID := make(map[int]*floe.Floe, len(floes))
	for _, f := range floes {
 byID[f.ID] = f
	}
	absorbed := make(map[int]bool)

	for _, f := range floes {
 if f.Status != floe.Fuse || absorbed[f.ID] || len(f.FusePartners) == 0 {
 continue
 }
 partner := byID[f.FusePartners[0]]
 if partner == nil || absorbed[partner.ID] || partner.ID == f.ID {
 f.Status = floe.Active
 continue
 }
 mergeInto(f, partner)
 partner.Status = floe.Remove
 absorbed[partner.ID] = true
 f.Status = floe.Active
	}
	return floes
}

func mergeInto(dst, src *floe.Floe) {
	totalMass := dst.Mass + src.Mass
	if totalMass <= 0 {
 return
	}
	dst.U = (dst.U*dst.Mass + src.U*src.Mass) / totalMass
	dst.V = (dst.V*dst.Mass + src.V*src.Mass) / totalMass
	dst.Area += src.Area
	dst.Mass = totalMass
	dst.Moment += src.Moment
}

func (d *Driver) result() *Result {
	metrics := make(map[string]float64, len(d.metrics))
	for _, m := range d.metrics {
 metrics[m.Name()] = m.Value()
	}
	return &Result{FinalFloes: d.Floes, StepsTaken: d.Step, Metrics: metrics}
}
