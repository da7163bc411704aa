// Package grid implements the regular rectilinear Eulerian grid that ocean
// and atmosphere forcing live on, and the per-cell stress accumulators the
// coupling engine writes into.
package grid

import (
	"sync"

	"github.com/san-kum/subzero/internal/geo"
)

// CellFloes records a floe's index and the periodic translation vector that
// places it in this grid-line point's frame, so ghost contributions can be
// folded back correctly during coupling.
type CellFloes struct {
	FloeIndex int
	Translate geo.Point
}

// IceStressCell accumulates the reverse ocean stress contributed by every
// floe overlapping this cell, guarded by its own mutex so coupling workers
// writing to different cells never contend.
type IceStressCell struct {
	mu sync.Mutex
	SumTauX float64
	SumTauY float64
	NPoints int
}

func (c *IceStressCell) Add(tauX, tauY float64) {
	c.mu.Lock()
	c.SumTauX += tauX
	c.SumTauY += tauY
	c.NPoints++
	c.mu.Unlock()
}

func (c *IceStressCell) Reset() {
	c.mu.Lock()
	c.SumTauX, c.SumTauY, c.NPoints = 0, 0, 0
	c.mu.Unlock()
}

func (c *IceStressCell) Mean() (tauX, tauY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.NPoints == 0 {
 return 0, 0
	}
	return c.SumTauX / float64(c.NPoints), c.SumTauY / float64(c.NPoints)
}

// Grid is an axis-aligned regular rectilinear mesh of (Nx, Ny) cells.
type Grid struct {
	Nx, Ny int
	Xg, Yg []float64 // grid lines, len Nx+1 / Ny+1
	Xc, Yc []float64 // cell centers, len Nx / Ny

	CellFloesAt [][]CellFloes // per grid-line point, len (Nx+1)*(Ny+1)
	Stress []*IceStressCell // per cell, len Nx*Ny
}

// New builds a grid spanning [x0,xf] x [y0,yf] with Nx, Ny cells.
func New(x0, xf, y0, yf float64, nx, ny int) *Grid {
	g := &Grid{Nx: nx, Ny: ny}
	g.Xg = linspace(x0, xf, nx+1)
	g.Yg = linspace(y0, yf, ny+1)
	g.Xc = centers(g.Xg)
	g.Yc = centers(g.Yg)

	g.CellFloesAt = make([][]CellFloes, (nx+1)*(ny+1))
	g.Stress = make([]*IceStressCell, nx*ny)
	for i := range g.Stress {
 g.Stress[i] = &IceStressCell{}
	}
	return g
}

// NewFromSpacing builds a grid spanning [x0,xf] x [y0,yf] with cell sizes
// close to dx, dy: each cell count is the span over the spacing rounded to
// the nearest integer, and at least 1.
func NewFromSpacing(x0, xf, y0, yf, dx, dy float64) *Grid {
	nx := int((xf-x0)/dx + 0.5)
	ny := int((yf-y0)/dy + 0.5)
	if nx < 1 {
 nx = 1
	}
	if ny < 1 {
 ny = 1
	}
	return New(x0, xf, y0, yf, nx, ny)
}

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
 out[0] = a
 return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
 out[i] = a + step*float64(i)
	}
	return out
}

func centers(lines []float64) []float64 {
	out := make([]float64, len(lines)-1)
	for i := range out {
 out[i] = (lines[i] + lines[i+1]) / 2
	}
	return out
}

// CellPolygon returns the axis-aligned rectangle of cell (i,j).
func (g *Grid) CellPolygon(i, j int) geo.Polygon {
	p, _ := geo.NewPolygon([]geo.Point{
 {X: g.Xg[i], Y: g.Yg[j]},
 {X: g.Xg[i+1], Y: g.Yg[j]},
 {X: g.Xg[i+1], Y: g.Yg[j+1]},
 {X: g.Xg[i], Y: g.Yg[j+1]},
	})
	return p
}

func (g *Grid) CellArea(i, j int) float64 {
	return (g.Xg[i+1] - g.Xg[i]) * (g.Yg[j+1] - g.Yg[j])
}

// CellIndex flattens a (i,j) cell coordinate.
func (g *Grid) CellIndex(i, j int) int { return j*g.Nx + i }

// GridPointIndex flattens a grid-line point coordinate.
func (g *Grid) GridPointIndex(i, j int) int { return j*(g.Nx+1) + i }

// CandidateCells returns every cell index (i,j) whose center lies within
// radius of center — the coupling engine's first filter.
func (g *Grid) CandidateCells(center geo.Point, radius float64) [][2]int {
	var cells [][2]int
	for j := 0; j < g.Ny; j++ {
 if g.Yc[j] < center.Y-radius || g.Yc[j] > center.Y+radius {
 continue
 }
 for i := 0; i < g.Nx; i++ {
 if g.Xc[i] < center.X-radius || g.Xc[i] > center.X+radius {
 continue
 }
 dx := g.Xc[i] - center.X
 dy := g.Yc[j] - center.Y
 if dx*dx+dy*dy <= radius*radius {
 cells = append(cells, [2]int{i, j})
 }
 }
	}
	return cells
}

// ResetStress clears every cell's stress accumulator (driver step 1).
func (g *Grid) ResetStress() {
	for _, c := range g.Stress {
 c.Reset()
	}
}

// ResetCellFloes clears the per-grid-point floe occupancy lists.
func (g *Grid) ResetCellFloes() {
	for i := range g.CellFloesAt {
 g.CellFloesAt[i] = g.CellFloesAt[i][:0]
	}
}

func (g *Grid) AddCellFloe(i, j, floeIdx int, translate geo.Point) {
	idx := g.GridPointIndex(i, j)
	g.CellFloesAt[idx] = append(g.CellFloesAt[idx], CellFloes{FloeIndex: floeIdx, Translate: translate})
}
