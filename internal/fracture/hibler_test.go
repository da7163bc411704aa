package fracture

import (
	"math"
	"testing"
)

func TestYieldCurveContainsOrigin(t *testing.T) {
	yc := NewHibler(5e5, -1)
	yc.UpdateCriteria(1.0, 0.5)
	if !yc.Contains(0, 0) {
		t.Error("origin should lie inside a non-degenerate yield curve")
	}
}

func TestYieldCurveRejectsFarOutsideStress(t *testing.T) {
	yc := NewHibler(5e5, -1)
	yc.UpdateCriteria(1.0, 0.5)
	_, maxX, _, maxY := yc.Extrema()
	if yc.Contains(maxX*100, maxY*100) {
		t.Error("stress far outside the curve should not be contained")
	}
}

func TestYieldCurveAreaPositive(t *testing.T) {
	yc := NewHibler(5e5, -1)
	yc.UpdateCriteria(1.0, 0.5)
	if yc.Area() <= 0 {
		t.Errorf("area = %v, want > 0", yc.Area())
	}
}

func TestYieldCurveShrinksWithLowerConcentration(t *testing.T) {
	yc := NewHibler(5e5, -1)
	yc.UpdateCriteria(1.0, 0.5)
	fullArea := yc.Area()
	yc.UpdateCriteria(0.1, 0.5)
	lowArea := yc.Area()
	if lowArea >= fullArea {
		t.Errorf("expected curve to shrink at lower concentration: full=%v low=%v", fullArea, lowArea)
	}
}

func TestExtremaBoundVertices(t *testing.T) {
	yc := NewHibler(5e5, -1)
	yc.UpdateCriteria(1.0, 0.5)
	minX, maxX, minY, maxY := yc.Extrema()
	for _, v := range yc.Vertices[:len(yc.Vertices)-1] {
		if v[0] < minX-1e-9 || v[0] > maxX+1e-9 {
			t.Errorf("vertex x %v outside extrema [%v,%v]", v[0], minX, maxX)
		}
		if v[1] < minY-1e-9 || v[1] > maxY+1e-9 {
			t.Errorf("vertex y %v outside extrema [%v,%v]", v[1], minY, maxY)
		}
	}
}

func TestHiblerShapeMatchesReferenceValues(t *testing.T) {
	yc := NewHibler(5e5, -1)
	yc.UpdateCriteria(1.0, 0.5)

	const wantArea = 4.9054e10
	if math.Abs(yc.Area()-wantArea)/wantArea > 5e-3 {
		t.Errorf("area = %v, want ~%v", yc.Area(), wantArea)
	}

	cx, cy := yc.Centroid()
	if math.Abs(cx-(-1.25e5)) > 1 || math.Abs(cy-(-1.25e5)) > 1 {
		t.Errorf("centroid = (%v,%v), want ~(-1.25e5,-1.25e5)", cx, cy)
	}

	minX, maxX, _, _ := yc.Extrema()
	const wantMinX, wantMaxX = -264743.588, 14727.999
	if math.Abs(minX-wantMinX)/math.Abs(wantMinX) > 5e-3 {
		t.Errorf("min extrema = %v, want ~%v", minX, wantMinX)
	}
	if math.Abs(maxX-wantMaxX)/math.Abs(wantMaxX) > 5e-3 {
		t.Errorf("max extrema = %v, want ~%v", maxX, wantMaxX)
	}
}

func TestCentroidWithinExtrema(t *testing.T) {
	yc := NewHibler(5e5, -1)
	yc.UpdateCriteria(1.0, 0.5)
	cx, cy := yc.Centroid()
	minX, maxX, minY, maxY := yc.Extrema()
	if cx < minX || cx > maxX || cy < minY || cy > maxY {
		t.Errorf("centroid (%v,%v) outside extrema box [%v,%v]x[%v,%v]", cx, cy, minX, maxX, minY, maxY)
	}
	if math.IsNaN(cx) || math.IsNaN(cy) {
		t.Error("centroid should not be NaN")
	}
}
