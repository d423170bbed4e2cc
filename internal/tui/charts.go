package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
)

// RenderGauge produces a text-based gauge bar of the given width.
// percent should be 0-100 (remaining). If < 0, renders a dimmed track
// with "N/A".
func RenderGauge(percent float64, width int, warnThresh, critThresh float64) string {
	if width < 5 {
		width = 5
	}

	if percent < 0 {
		return gaugeTrackStyle.Render(strings.Repeat("─", width)) + dimStyle.Render(" N/A")
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	empty := width - filled

	var color lipgloss.Color
	switch {
	case percent <= critThresh*100:
		color = colorCrit
	case percent <= warnThresh*100:
		color = colorWarn
	default:
		color = colorOK
	}

	filledStyle := lipgloss.NewStyle().Foreground(color)
	trackStyle := lipgloss.NewStyle().Foreground(colorSurface1)

	bar := filledStyle.Render(strings.Repeat("━", filled)) +
		trackStyle.Render(strings.Repeat("━", empty))

	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	return fmt.Sprintf("%s %s", bar, pctStyle.Render(fmt.Sprintf("%5.1f%%", percent)))
}

// RenderSparkline draws a one-line sparkline for the given series.
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width < 1 {
		return dimStyle.Render("no data")
	}

	chart := sparkline.New(width, 1)
	chart.PushAll(values)
	chart.Draw()

	return lipgloss.NewStyle().Foreground(color).Render(strings.TrimRight(chart.View(), "\n"))
}
