// Package export renders simulator state to static image formats for
// inclusion in reports, independent of the live terminal dashboard.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/viz"
)

// CanvasToSVG converts a Braille dashboard canvas to a scalable SVG,
// one dot per set sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// FloesToSVG renders the floe field as an SVG, one polygon per real floe,
// fill color interpolated between thin and thick ice over [minHeight,
// maxHeight]. Ghost floes are skipped since they are collision-detection
// replicas, not part of the physical field.
func FloesToSVG(floes []*floe.Floe, x0, y0, x1, y1 float64, width, height int, minHeight, maxHeight float64) string {
	rangeX := x1 - x0
	rangeY := y1 - y0
	if rangeX <= 0 {
		rangeX = 1
	}
	if rangeY <= 0 {
		rangeY = 1
	}

	toSVG := func(p struct{ X, Y float64 }) (float64, float64) {
		sx := (p.X - x0) / rangeX * float64(width)
		sy := float64(height) - (p.Y-y0)/rangeY*float64(height)
		return sx, sy
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#041322"/>
`, width, height, width, height))

	for _, f := range floes {
		if f.IsGhost() {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<polygon fill="%s" stroke="#0a2a3f" stroke-width="0.5" points="`,
			heightColor(f.Height, minHeight, maxHeight)))
		for i, v := range f.Polygon.Outer {
			sx, sy := toSVG(struct{ X, Y float64 }{v.X, v.Y})
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", sx, sy))
		}
		sb.WriteString(`"/>
`)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// heightColor maps height onto a pale-blue (thin) to white (thick) ramp.
func heightColor(h, min, max float64) string {
	t := 0.5
	if max > min {
		t = (h - min) / (max - min)
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
	}
	r := int(120 + t*135)
	g := int(160 + t*95)
	b := 255
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
