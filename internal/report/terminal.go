package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/argonbench/internal/metrics"
	"github.com/san-kum/argonbench/internal/viz"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Render draws the chart on a width x height braille canvas with decade
// labels and a legend in series order.
func Render(c Chart, width, height int) string {
	x0, x1, y0, y1, ok := c.logBounds()
	if !ok {
		return titleStyle.Render(c.Title) + "\n(no positive data)\n"
	}

	canvas := viz.NewCanvas(width, height)
	dw, dh := canvas.Dots()
	project := func(p Point) (int, int) {
		px := (math.Log10(p.X) - x0) / (x1 - x0) * float64(dw-1)
		py := (y1 - math.Log10(p.Y)) / (y1 - y0) * float64(dh-1)
		return int(math.Round(px)), int(math.Round(py))
	}

	for i, s := range c.Series {
		prevX, prevY, havePrev := 0, 0, false
		for _, p := range s.Points {
			if !usable(p) {
				havePrev = false
				continue
			}
			x, y := project(p)
			canvas.Marker(x, y, i)
			if havePrev {
				canvas.DrawSeriesLine(prevX, prevY, x, y, i)
			}
			prevX, prevY, havePrev = x, y, true
		}
	}

	palette := viz.CurrentTheme.Palette
	lines := strings.Split(strings.TrimSuffix(canvas.Render(palette), "\n"), "\n")

	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title) + "\n")
	b.WriteString(axisStyle.Render(c.YLabel) + "\n")
	for i, line := range lines {
		label := ""
		switch i {
		case 0:
			label = fmt.Sprintf("1e%+d", int(y1))
		case len(lines) - 1:
			label = fmt.Sprintf("1e%+d", int(y0))
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%6s ┤", label)) + line + "\n")
	}
	b.WriteString(axisStyle.Render("       └"+strings.Repeat("─", width)) + "\n")

	left, right := fmt.Sprintf("1e%+d", int(x0)), fmt.Sprintf("1e%+d", int(x1))
	gap := max(width-len(left)-len(right), 1)
	b.WriteString(axisStyle.Render("        "+left+strings.Repeat(" ", gap)+right) + "\n")
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", 8+width/2+len(c.XLabel)/2, c.XLabel)) + "\n\n")

	for i, s := range c.Series {
		b.WriteString(viz.Swatch(viz.CurrentTheme.SeriesColor(i)) + " " + s.Name + "\n")
	}
	return b.String()
}

// WriteChart renders c to w.
func WriteChart(w io.Writer, c Chart, width, height int) error {
	_, err := io.WriteString(w, Render(c, width, height))
	return err
}

// EnergyHistory plots log10 |E(t)-E(0)| against time. Zero errors are
// clamped to 1e-16 so the first sample stays on the chart.
func EnergyHistory(points []metrics.Point, width, height int, caption string) string {
	if len(points) < 2 {
		return "(not enough history to plot)\n"
	}
	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = math.Log10(math.Max(p.Error, 1e-16))
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s: log10 |E(t)-E(0)| over t in [%g, %g]", caption, points[0].T, points[len(points)-1].T)),
	) + "\n"
}
