package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared styles, rebuilt by SetTheme.
var (
	Subtle        lipgloss.Style
	StatusRunning lipgloss.Style
	StatusPaused  lipgloss.Style
	StatusFailed  lipgloss.Style
	MetricValue   lipgloss.Style
	MetricLabel   lipgloss.Style
	KeyHint       lipgloss.Style
	HeaderStyle   lipgloss.Style
)

func applyTheme(t Theme) {
	bold := lipgloss.NewStyle().Bold(true)

	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	StatusRunning = bold.Foreground(t.Good)
	StatusPaused = bold.Foreground(t.Warn)
	StatusFailed = bold.Foreground(t.Bad)
	MetricValue = bold.Foreground(t.Value)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Label).Width(12)
	KeyHint = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	HeaderStyle = bold.
		Foreground(t.Value).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Muted)
}

// ProgressBar renders a bar filled to fraction of width. It turns from the
// theme's warning to its good colour as it fills.
func ProgressBar(fraction float64, width int) string {
	filled := min(max(int(fraction*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	color := CurrentTheme.Warn
	if fraction >= 1 {
		color = CurrentTheme.Good
	}
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

// Swatch is a short coloured bar used as a legend key.
func Swatch(c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render("━━")
}

func Separator(width int) string {
	return Subtle.Render(strings.Repeat("─", max(width, 0)))
}
