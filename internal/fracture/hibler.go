// Package fracture implements the Hibler yield-curve test and the two
// stress-release responses it triggers: deformation against the largest
// overlapping neighbor, and Voronoi splitting into child floes.
package fracture

import (
	"math"

	"github.com/san-kum/subzero/internal/floe"
)

// YieldCurve is the closed polygon approximating the Hibler (1979) yield
// ellipse in principal-stress space, scaled by the fleet's mean area
// fraction and height.
type YieldCurve struct {
	PStar float64
	C float64

	// Vertices in (sigma1, sigma2) space, closed (first == last).
	Vertices [][2]float64
}

// NewHibler builds a Hibler yield curve for the given parameters.
func NewHibler(pStar, c float64) *YieldCurve {
	yc := &YieldCurve{PStar: pStar, C: c}
	yc.UpdateCriteria(1.0, 1.0)
	return yc
}

// UpdateCriteria rebuilds the curve from current fleet statistics: mean
// concentration areaFraction and mean height heightMean scale the
// pressure term `exp(-c*(1-A))*h*p*`.
func (yc *YieldCurve) UpdateCriteria(areaFraction, heightMean float64) {
	scale := math.Exp(-yc.C*(1-areaFraction)) * heightMean * yc.PStar
	yc.Vertices = hiblerEllipse(scale)
}

// ellipseSegments is the number of line segments used to discretize the
// Hibler yield ellipse into a closed polygon.
const ellipseSegments = 128

// hiblerEllipse discretizes the Hibler (1979) yield curve at compressive
// strength p: in mean/shear stress coordinates s=(s1+s2)/2, t=(s1-s2)/2,
// it is the ellipse centered at s=-p/2, t=0 with semi-axis p/2 along the
// compression diagonal and p/(2e) along the shear diagonal, e the
// ellipse's aspect ratio. Rotating back into (sigma1,sigma2) space gives
// the classic diamond-like yield boundary centered at (-p/2,-p/2).
func hiblerEllipse(p float64) [][2]float64 {
	const e = 2.0 // ellipse aspect ratio between shear and compressive strength
	a := p / 2
	b := p / (2 * e)
	verts := make([][2]float64, 0, ellipseSegments+1)
	for i := 0; i <= ellipseSegments; i++ {
 theta := 2 * math.Pi * float64(i) / float64(ellipseSegments)
 s := -p/2 + a*math.Cos(theta)
 t := b * math.Sin(theta)
 verts = append(verts, [2]float64{s + t, s - t})
	}
	return verts
}

// Area computes the polygon area of the yield curve via the shoelace
// formula.
func (yc *YieldCurve) Area() float64 {
	v := yc.Vertices
	n := len(v) - 1
	sum := 0.0
	for i := 0; i < n; i++ {
 j := i + 1
 sum += v[i][0]*v[j][1] - v[j][0]*v[i][1]
	}
	return math.Abs(sum) / 2
}

// Centroid returns the area-weighted centroid of the yield curve polygon.
func (yc *YieldCurve) Centroid() (cx, cy float64) {
	v := yc.Vertices
	n := len(v) - 1
	var a, mx, my float64
	for i := 0; i < n; i++ {
 j := i + 1
 cross := v[i][0]*v[j][1] - v[j][0]*v[i][1]
 a += cross
 mx += (v[i][0] + v[j][0]) * cross
 my += (v[i][1] + v[j][1]) * cross
	}
	if a == 0 {
 return 0, 0
	}
	return mx / (3 * a), my / (3 * a)
}

// Extrema returns the (min,max) span of the yield curve along each axis.
func (yc *YieldCurve) Extrema() (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, v := range yc.Vertices[:len(yc.Vertices)-1] {
 minX = math.Min(minX, v[0])
 maxX = math.Max(maxX, v[0])
 minY = math.Min(minY, v[1])
 maxY = math.Max(maxY, v[1])
	}
	return
}

// Contains reports whether principal stresses (s1,s2) lie inside the
// yield curve polygon using a standard ray-casting test. Points on the
// curve itself (the origin is always one of its vertices) count as inside.
func (yc *YieldCurve) Contains(s1, s2 float64) bool {
	v := yc.Vertices
	n := len(v) - 1
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
 xi, yi := v[i][0], v[i][1]
 xj, yj := v[j][0], v[j][1]
 dx, dy := xj-xi, yj-yi
 if math.Abs(dx*(s2-yi)-dy*(s1-xi)) <= 1e-9*(dx*dx+dy*dy) &&
 s1 >= math.Min(xi, xj) && s1 <= math.Max(xi, xj) && s2 >= math.Min(yi, yj) && s2 <= math.Max(yi, yj) {
 return true
 }
 if (yi > s2) != (yj > s2) {
 xIntersect := xi + (s2-yi)/(yj-yi)*(xj-xi)
 if s1 < xIntersect {
 inside = !inside
 }
 }
	}
	return inside
}

// MeanFleetStats returns the area-fraction and height mean used to update
// the curve each fracture step.
func MeanFleetStats(floes []*floe.Floe, domainArea float64) (areaFraction, heightMean float64) {
	var totalArea, totalHeight float64
	n := 0
	for _, f := range floes {
 if f.IsGhost() || f.Status != floe.Active {
 continue
 }
 totalArea += f.Area
 totalHeight += f.Height
 n++
	}
	if n == 0 {
 return 0, 0
	}
	if domainArea > 0 {
 areaFraction = totalArea / domainArea
	}
	heightMean = totalHeight / float64(n)
	return
}
