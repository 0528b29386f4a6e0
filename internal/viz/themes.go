package viz

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Theme colours the live view and the chart series. Palette[0] is used for
// particles and the first series, Palette[1] for the cell wireframe and the
// second series; further series wrap around.
type Theme struct {
	Name    string
	Palette []lipgloss.Color

	Label lipgloss.Color
	Value lipgloss.Color
	Muted lipgloss.Color

	// progress and status: fine, slow, failed
	Good lipgloss.Color
	Warn lipgloss.Color
	Bad  lipgloss.Color
}

func palette(hex ...string) []lipgloss.Color {
	out := make([]lipgloss.Color, len(hex))
	for i, h := range hex {
		out[i] = lipgloss.Color(h)
	}
	return out
}

var themes = []Theme{
	{
		Name:    "cyberpunk",
		Palette: palette("#ff00ff", "#00ffff", "#ffff00", "#00ff00", "#ff8800", "#8888ff", "#ff4488", "#88ff88", "#ffffff"),
		Label:   "#888899", Value: "#00ccff", Muted: "#666688",
		Good: "#00ff88", Warn: "#ffaa00", Bad: "#ff4444",
	},
	{
		Name:    "retro",
		Palette: palette("#00ff00", "#88ff88", "#00aa00", "#ccffcc", "#55cc55", "#336633", "#aaffaa", "#00cc66", "#ffff00"),
		Label:   "#00aa00", Value: "#88ff88", Muted: "#005500",
		Good: "#88ff88", Warn: "#ffff00", Bad: "#ff0000",
	},
	{
		Name:    "minimal",
		Palette: palette("#ffffff", "#0088ff", "#ffaa00", "#00cc66", "#ff4444", "#aa66ff", "#66cccc", "#cccc66", "#888888"),
		Label:   "#888888", Value: "#ffffff", Muted: "#555555",
		Good: "#00cc66", Warn: "#ffaa00", Bad: "#ff4444",
	},
	{
		Name:    "ocean",
		Palette: palette("#00a8cc", "#ffd700", "#00ff88", "#0077be", "#ff8866", "#e0f0ff", "#66ccff", "#ffcc00", "#4488aa"),
		Label:   "#4488aa", Value: "#e0f0ff", Muted: "#335577",
		Good: "#00ff88", Warn: "#ffcc00", Bad: "#ff4444",
	},
	{
		Name:    "sunset",
		Palette: palette("#ff6b6b", "#feca57", "#ff9ff3", "#5fd068", "#48dbfb", "#ffc048", "#c8a2c8", "#ff4757", "#fff5f5"),
		Label:   "#8b6b8c", Value: "#fff5f5", Muted: "#5b4b5c",
		Good: "#5fd068", Warn: "#ffc048", Bad: "#ff4757",
	},
}

// CurrentTheme is the theme styles are built from. Change it with SetTheme.
var CurrentTheme = themes[0]

func init() {
	applyTheme(CurrentTheme)
}

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	if i := slices.IndexFunc(themes, func(t Theme) bool { return t.Name == name }); i >= 0 {
		return themes[i]
	}
	return themes[0]
}

// SetTheme switches the current theme and rebuilds the shared styles.
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
	applyTheme(CurrentTheme)
}

// NextTheme cycles to the theme after the current one.
func NextTheme() {
	i := slices.IndexFunc(themes, func(t Theme) bool { return t.Name == CurrentTheme.Name })
	SetTheme(themes[(i+1)%len(themes)].Name)
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// SeriesColor is the palette colour of series i.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Palette) == 0 {
		return t.Value
	}
	return t.Palette[i%len(t.Palette)]
}
