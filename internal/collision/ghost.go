// Package collision implements the three-pass contact engine: per-floe
// overlap detection with ghost replication across periodic walls, serial
// mirroring of interaction rows, and the torque/force reduction pass.
package collision

import (
	"github.com/san-kum/subzero/internal/domain"
	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/geo"
)

// AddGhosts appends one periodic-image replica per real floe per periodic
// axis its bounding disc crosses, and swaps a floe with its ghost when the
// translation would otherwise leave the parent's centroid outside the
// domain. It returns the extended slice; callers must re-run this
// every timestep since ghosts are discarded at compaction.
func AddGhosts(floes []*floe.Floe, dom *domain.Domain) []*floe.Floe {
	n := len(floes)
	for idx := 0; idx < n; idx++ {
 f := floes[idx]
 if f.IsGhost() || f.Status != floe.Active {
 continue
 }
 if dom.East.Kind == domain.Periodic && dom.West.Kind == domain.Periodic {
 floes = addAxisGhost(floes, f, dom.Width(), 1, 0, dom)
 }
 if dom.North.Kind == domain.Periodic && dom.South.Kind == domain.Periodic {
 floes = addAxisGhost(floes, f, dom.Height(), 0, 1, dom)
 }
	}
	return floes
}

func addAxisGhost(floes []*floe.Floe, f *floe.Floe, extent, axisX, axisY float64, dom *domain.Domain) []*floe.Floe {
	var lo, hi float64
	if axisX != 0 {
 lo, hi = dom.West.Val, dom.East.Val
	} else {
 lo, hi = dom.South.Val, dom.North.Val
	}
	var coord float64
	if axisX != 0 {
 coord = f.Centroid.X
	} else {
 coord = f.Centroid.Y
	}

	crossesHigh := coord+f.RMax > hi
	crossesLow := coord-f.RMax < lo

	if !crossesHigh && !crossesLow {
 return floes
	}

	sign := 1.0
	if crossesHigh {
 sign = -1.0
	}
	d := geo.Point{X: axisX * extent * sign, Y: axisY * extent * sign}
	ghost := f.Translated(d)
	ghost.GhostID = len(f.Ghosts) + 1
	ghost.ID = f.ID
	floes = append(floes, ghost)
	f.Ghosts = append(f.Ghosts, len(floes)-1)

	if !dom.Contains(f.Centroid) {
 f.Polygon, ghost.Polygon = ghost.Polygon, f.Polygon
 f.Centroid, ghost.Centroid = ghost.Centroid, f.Centroid
	}
	return floes
}
