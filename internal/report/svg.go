package report

import (
	"fmt"
	"html"
	"math"
	"os"
	"strings"
)

const (
	svgMargin = 60.0
	svgLegend = 160.0
)

// SVG renders the chart as a standalone log-log SVG document with decade
// grid lines and a legend.
func SVG(c Chart, width, height int) string {
	w, h := float64(width), float64(height)
	plotW := w - 2*svgMargin - svgLegend
	plotH := h - 2*svgMargin

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="12">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="%.1f" y="%.1f" fill="#ffffff" font-size="16">%s</text>
`, width, height, width, height, svgMargin, svgMargin/2, html.EscapeString(c.Title)))

	x0, x1, y0, y1, ok := c.logBounds()
	if !ok {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="#888888">no positive data</text>
</svg>`, svgMargin, h/2))
		return sb.String()
	}

	project := func(p Point) (float64, float64) {
		px := svgMargin + (math.Log10(p.X)-x0)/(x1-x0)*plotW
		py := svgMargin + (y1-math.Log10(p.Y))/(y1-y0)*plotH
		return px, py
	}

	sb.WriteString(`<g stroke="#333333" stroke-width="1">` + "\n")
	for d := x0; d <= x1; d++ {
		px := svgMargin + (d-x0)/(x1-x0)*plotW
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", px, svgMargin, px, svgMargin+plotH))
	}
	for d := y0; d <= y1; d++ {
		py := svgMargin + (y1-d)/(y1-y0)*plotH
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", svgMargin, py, svgMargin+plotW, py))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="#aaaaaa">` + "\n")
	for d := x0; d <= x1; d++ {
		px := svgMargin + (d-x0)/(x1-x0)*plotW
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle">1e%d</text>`+"\n", px, svgMargin+plotH+18, int(d)))
	}
	for d := y0; d <= y1; d++ {
		py := svgMargin + (y1-d)/(y1-y0)*plotH
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="end">1e%d</text>`+"\n", svgMargin-6, py+4, int(d)))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n", svgMargin+plotW/2, h-svgMargin/3, html.EscapeString(c.XLabel)))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" transform="rotate(-90 %.1f %.1f)">%s</text>`+"\n",
		svgMargin/4, svgMargin+plotH/2, svgMargin/4, svgMargin+plotH/2, html.EscapeString(c.YLabel)))
	sb.WriteString("</g>\n")

	for i, s := range c.Series {
		color := seriesColor(i)
		var pts []string
		var dots strings.Builder
		for _, p := range s.Points {
			if !usable(p) {
				continue
			}
			px, py := project(p)
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", px, py))
			dots.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3"/>`+"\n", px, py))
		}
		sb.WriteString(fmt.Sprintf(`<g fill="%s" stroke="%s">`+"\n", color, color))
		if len(pts) > 1 {
			sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke-width="1.5" points="%s"/>`+"\n", strings.Join(pts, " ")))
		}
		sb.WriteString(dots.String())
		sb.WriteString("</g>\n")

		ly := svgMargin + float64(i)*18
		lx := w - svgMargin - svgLegend + 20
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="3"/>`+"\n", lx, ly, lx+20, ly, color))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="#ffffff">%s</text>`+"\n", lx+26, ly+4, html.EscapeString(s.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// svgPalette is fixed so files do not depend on the terminal theme.
var svgPalette = []string{"#ff00ff", "#00ffff", "#ffff00", "#00ff00", "#ff8800", "#8888ff", "#ff4488", "#88ff88", "#ffffff"}

func seriesColor(i int) string {
	return svgPalette[i%len(svgPalette)]
}

func WriteSVG(path string, c Chart, width, height int) error {
	return os.WriteFile(path, []byte(SVG(c, width, height)), 0644)
}
