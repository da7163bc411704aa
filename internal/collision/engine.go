package collision

import (
	"math"
	"sync"

	"github.com/san-kum/subzero/internal/compute"
	"github.com/san-kum/subzero/internal/config"
	"github.com/san-kum/subzero/internal/domain"
	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/geo"
)

// Engine runs the three-pass contact pipeline against a domain and
// its topography, using the shared physical constants for spring stiffness
// and friction.
type Engine struct {
	Domain *domain.Domain
	Constants config.Constants
	Pool *compute.Pool
	Dt float64
	MaxOverlapFloeFloe float64
	MaxOverlapFloeDomain float64

	dedupeMu sync.Mutex
	dedupe map[pairKey]ghostPair
}

type pairKey struct{ hi, lo int }
type ghostPair struct{ hi, lo int }

// New builds a collision Engine.
func New(dom *domain.Domain, constants config.Constants, pool *compute.Pool, dt, maxOverlapFF, maxOverlapFD float64) *Engine {
	return &Engine{
 Domain: dom,
 Constants: constants,
 Pool: pool,
 Dt: dt,
 MaxOverlapFloeFloe: maxOverlapFF,
 MaxOverlapFloeDomain: maxOverlapFD,
	}
}

// Step runs Pass 1 (parallel detection), Pass 2 (serial mirroring + ghost
// fold-in), and Pass 3 (parallel torque/force reduction) over floes, which
// must already include this timestep's ghosts.
func (e *Engine) Step(floes []*floe.Floe) {
	e.dedupeMu.Lock()
	e.dedupe = make(map[pairKey]ghostPair)
	e.dedupeMu.Unlock()

	e.pass1(floes)
	e.pass2(floes)
	e.pass3(floes)
}

func (e *Engine) pass1(floes []*floe.Floe) {
	n := len(floes)
	e.Pool.ForEach(n, func(i int) {
 fi := floes[i]
 fi.ResetCollisionForces()
 fi.ResetInteractions()
 for j := i + 1; j < n; j++ {
 fj := floes[j]
 if fi.ID == fj.ID {
 continue
 }
 if fi.Centroid.DistanceTo(fj.Centroid) > fi.RMax+fj.RMax {
 continue
 }
 if !e.admitPair(fi, fj) {
 continue
 }
 e.detectFloeFloe(fi, fj)
 }
 e.detectDomain(fi)
	})
}

// admitPair applies the (id_hi,id_lo)->(ghost_hi,ghost_lo) dedup rule:
// the first observed ghost pairing for a logical (id(i),id(j)) pair is
// remembered, and later candidates are admitted only if they share at
// least one ghost coordinate with it.
func (e *Engine) admitPair(fi, fj *floe.Floe) bool {
	idHi, idLo := fi.ID, fj.ID
	ghostHi, ghostLo := fi.GhostID, fj.GhostID
	if idLo > idHi {
 idHi, idLo = idLo, idHi
 ghostHi, ghostLo = ghostLo, ghostHi
	}
	key := pairKey{idHi, idLo}

	e.dedupeMu.Lock()
	defer e.dedupeMu.Unlock()
	seen, ok := e.dedupe[key]
	if !ok {
 e.dedupe[key] = ghostPair{ghostHi, ghostLo}
 return true
	}
	return ghostHi == seen.hi || ghostLo == seen.lo
}

func (e *Engine) detectFloeFloe(fi, fj *floe.Floe) {
	regions := geo.Intersect(fi.Polygon, fj.Polygon)
	if len(regions) == 0 {
 return
	}
	var totalOverlap float64
	for _, r := range regions {
 totalOverlap += r.Area()
	}

	if totalOverlap/math.Min(fi.Area, fj.Area) > e.MaxOverlapFloeFloe {
 fi.Status = floe.Fuse
 fj.Status = floe.Fuse
 fi.FusePartners = append(fi.FusePartners, fj.ID)
 fj.FusePartners = append(fj.FusePartners, fi.ID)
 return
	}

	// Slivers produced by near-tangent clipping are discarded rather than
	// turned into contact forces; the cutoff scales with the smaller
	// floe's own area instead of a fixed absolute area.
	areaThreshold := math.Min(fi.Area, fj.Area) * 1e-6

	k := springConstant(e.Constants.E, fi.Height, fj.Height, fi.Area, fj.Area)

	for _, region := range regions {
 area := region.Area()
 if area < areaThreshold {
 continue
 }
 normal := normalDirection(region, fi.Polygon)
 if normal == (geo.Point{}) {
 continue
 }
 magnitude := area * k
 fx, fy := normal.X*magnitude, normal.Y*magnitude

 contact := region.Centroid()
 pI := contact.Sub(fi.Centroid)
 pJ := contact.Sub(fj.Centroid)

 frx, fry := e.friction(fi, fj, pI, pJ, magnitude, area)
 fx += frx
 fy += fry

 torqueI := pI.X*fy - pI.Y*fx
 fi.AddInteraction(floe.InteractionRow{OtherID: fj.ID, FX: fx, FY: fy, PX: pI.X, PY: pI.Y, Torque: torqueI, Overlap: area})
	}
}

// friction computes the shear-modulus-G, Coulomb-capped tangential
// force opposing the relative velocity at the contact point.
func (e *Engine) friction(fi, fj *floe.Floe, pI, pJ geo.Point, normalMag, area float64) (fx, fy float64) {
	vIx := fi.U - fi.Xi*pI.Y
	vIy := fi.V + fi.Xi*pI.X
	vJx := fj.U - fj.Xi*pJ.Y
	vJy := fj.V + fj.Xi*pJ.X
	dvx, dvy := vIx-vJx, vIy-vJy
	speed := math.Hypot(dvx, dvy)
	if speed < 1e-12 {
 return 0, 0
	}
	tx, ty := dvx/speed, dvy/speed

	g := e.Constants.E / (2 * (1 + e.Constants.Nu))
	dl := math.Sqrt(area)
	along := dvx*tx + dvy*ty
	mag := g * dl * e.Dt * normalMag * along
	limit := e.Constants.Mu * normalMag
	if mag > limit {
 mag = limit
	} else if mag < -limit {
 mag = -limit
	}
	return -mag * tx, -mag * ty
}

// normalDirection averages the outward-pointing edge normals of region
// whose midpoint lies on host's boundary, then normalizes.
func normalDirection(region, host geo.Polygon) geo.Point {
	v := region.Outer[:len(region.Outer)-1]
	n := len(v)
	var sum geo.Point
	count := 0
	for i := 0; i < n; i++ {
 a, b := v[i], v[(i+1)%n]
 mid := a.Add(b).Scale(0.5)
 if math.Abs(geo.SignedDistance(mid, host)) > 1e-6 {
 continue
 }
 dx, dy := b.X-a.X, b.Y-a.Y
 cand := geo.Point{X: dy, Y: -dx}
 norm := cand.Norm()
 if norm < 1e-12 {
 continue
 }
 cand = cand.Scale(1 / norm)
 probe := mid.Add(cand.Scale(1e-6))
 if inside, _ := region.PointInPolygon(probe); inside {
 cand = cand.Scale(-1)
 }
 sum = sum.Add(cand)
 count++
	}
	if count == 0 {
 return geo.Point{}
	}
	norm := sum.Norm()
	if norm < 1e-12 {
 return geo.Point{}
	}
	return sum.Scale(1 / norm)
}

// springConstant follows two cases: the "large floes" branch uses
// the thinner/smaller pairing; otherwise the harmonic-mean normal case.
func springConstant(e, h1, h2, a1, a2 float64) float64 {
	minH := math.Min(h1, h2)
	minSqrtA := math.Sqrt(math.Min(a1, a2))
	large := e * minH / minSqrtA
	normal := e * h1 * h2 / (h1*math.Sqrt(a2) + h2*math.Sqrt(a1))
	if minSqrtA > 10*math.Sqrt(math.Max(a1, a2)) {
 return large
	}
	return normal
}

func (e *Engine) detectDomain(f *floe.Floe) {
	if f.IsGhost() {
 return
	}
	dom := e.Domain
	for _, b := range dom.Boundaries() {
 e.detectWall(f, b)
	}
	for i := range dom.Topography {
 e.detectTopography(f, &dom.Topography[i])
	}
}

func (e *Engine) detectWall(f *floe.Floe, b *domain.Boundary) {
	if !circleOverlapsBox(f.Centroid, f.RMax, b.Box) {
 return
	}
	regions := geo.Intersect(f.Polygon, b.Box)
	if len(regions) == 0 {
 return
	}
	switch b.Kind {
	case domain.Open:
 f.Status = floe.Remove
	case domain.Periodic:
 // no force; ghost replication handles periodic continuity
	case domain.Collision, domain.Moving:
 var area float64
 for _, r := range regions {
 area += r.Area()
 }
 if area/f.Area > e.MaxOverlapFloeDomain {
 f.Status = floe.Remove
 return
 }
 k := e.Constants.E * f.Height / math.Sqrt(f.Area)
 n := b.OutwardNormal()
 magnitude := area * k
 f.CollisionFx -= n.X * magnitude
 f.CollisionFy -= n.Y * magnitude
	}
}

func (e *Engine) detectTopography(f *floe.Floe, t *domain.Topography) {
	if f.Centroid.DistanceTo(t.Centroid) > f.RMax+t.RMax {
 return
	}
	regions := geo.Intersect(f.Polygon, t.Polygon)
	if len(regions) == 0 {
 return
	}
	var area float64
	for _, r := range regions {
 area += r.Area()
	}
	if area/f.Area > e.MaxOverlapFloeDomain {
 f.Status = floe.Remove
 return
	}
	k := e.Constants.E * f.Height / math.Sqrt(f.Area)
	for _, region := range regions {
 normal := normalDirection(region, f.Polygon)
 if normal == (geo.Point{}) {
 continue
 }
 magnitude := region.Area() * k
 f.CollisionFx += normal.X * magnitude
 f.CollisionFy += normal.Y * magnitude
	}
}

func circleOverlapsBox(center geo.Point, radius float64, box geo.Polygon) bool {
	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, v := range box.Outer {
 minX = math.Min(minX, v.X)
 maxX = math.Max(maxX, v.X)
 minY = math.Min(minY, v.Y)
 maxY = math.Max(maxY, v.Y)
	}
	dx := math.Max(minX-center.X, math.Max(0, center.X-maxX))
	dy := math.Max(minY-center.Y, math.Max(0, center.Y-maxY))
	return dx*dx+dy*dy <= radius*radius
}

// pass2 runs serially: mirror every row onto its target floe with flipped
// signs, then fold each real floe's ghosts' interactions back into the
// parent, translating the contact point to the parent's frame.
func (e *Engine) pass2(floes []*floe.Floe) {
	byID := make(map[int]*floe.Floe, len(floes))
	for _, f := range floes {
 if !f.IsGhost() {
 byID[f.ID] = f
 }
	}

	// Only rows detected in Pass 1 are mirrored; a mirrored row is not
	// mirrored back onto the floe it came from.
	detected := make([]int, len(floes))
	for i, f := range floes {
 detected[i] = len(f.Interactions)
	}
	for i, fi := range floes {
 for _, row := range fi.Interactions[:detected[i]] {
 target := byID[row.OtherID]
 if target == nil {
 continue
 }
 mirrorPX := row.PX + (fi.Centroid.X - target.Centroid.X)
 mirrorPY := row.PY + (fi.Centroid.Y - target.Centroid.Y)
 mirrorFX, mirrorFY := -row.FX, -row.FY
 target.AddInteraction(floe.InteractionRow{
 OtherID: fi.ID,
 FX: mirrorFX, FY: mirrorFY,
 PX: mirrorPX, PY: mirrorPY,
 Torque: mirrorPX*mirrorFY - mirrorPY*mirrorFX,
 Overlap: row.Overlap,
 })
 }
	}

	for _, f := range floes {
 if f.IsGhost() {
 continue
 }
 for _, gi := range f.Ghosts {
 if gi >= len(floes) {
 continue
 }
 ghost := floes[gi]
 d := ghost.Centroid.Sub(f.Centroid)
 for _, row := range ghost.Interactions {
 f.AddInteraction(floe.InteractionRow{
 OtherID: row.OtherID,
 FX: row.FX, FY: row.FY,
 PX: row.PX + d.X, PY: row.PY + d.Y,
 Torque: row.Torque,
 Overlap: row.Overlap,
 })
 }
 }
	}
}

// pass3 reduces each floe's interaction table into collision force/torque
// totals, and folds the same rows into a contact stress tensor
// sigma = Sum(F (x) r)/Area, pushed onto the floe's stress history so the
// fracture engine's yield test has a non-zero StressAccum to read.
func (e *Engine) pass3(floes []*floe.Floe) {
	e.Pool.ForEach(len(floes), func(i int) {
 f := floes[i]
 var fx, fy, trq float64
 var sigma floe.Mat2
 for _, row := range f.Interactions {
 fx += row.FX
 fy += row.FY
 trq += row.PX*row.FY - row.PY*row.FX
 sigma.Xx += row.FX * row.PX
 sigma.Xy += row.FX * row.PY
 sigma.Yx += row.FY * row.PX
 sigma.Yy += row.FY * row.PY
 }
 f.CollisionFx += fx
 f.CollisionFy += fy
 f.CollisionTrq += trq

 if f.IsGhost() || f.Area <= 0 {
 return
 }
 sigma = sigma.Scale(1 / f.Area)
 if f.StressHistory != nil {
 f.StressHistory.Push(sigma)
 f.StressAccum = f.StressHistory.Mean()
 } else {
 f.StressAccum = sigma
 }
	})
}
