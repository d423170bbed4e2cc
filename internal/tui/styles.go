package tui

import "github.com/charmbracelet/lipgloss"

// ─── Color Palette (Catppuccin Mocha) ───────────────────────────────────────

var (
	colorSurface0 = lipgloss.Color("#313244") // card bg
	colorSurface1 = lipgloss.Color("#45475A") // lighter surface
	colorText     = lipgloss.Color("#CDD6F4") // primary text
	colorSubtext  = lipgloss.Color("#A6ADC8") // secondary text
	colorDim      = lipgloss.Color("#585B70") // muted, borders

	colorAccent   = lipgloss.Color("#CBA6F7") // mauve – primary accent
	colorBlue     = lipgloss.Color("#89B4FA") // section headers
	colorGreen    = lipgloss.Color("#A6E3A1") // OK / healthy
	colorYellow   = lipgloss.Color("#F9E2AF") // warning
	colorRed      = lipgloss.Color("#F38BA8") // error / critical
	colorTeal     = lipgloss.Color("#94E2D5") // secondary highlight
	colorLavender = lipgloss.Color("#B4BEFE") // titles
	colorPeach    = lipgloss.Color("#FAB387") // sparkline accents

	colorOK   = colorGreen
	colorWarn = colorYellow
	colorCrit = colorRed
)

// ─── Reusable Styles ────────────────────────────────────────────────────────

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLavender)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	textStyle = lipgloss.NewStyle().
			Foreground(colorText)

	subtextStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	gaugeTrackStyle = lipgloss.NewStyle().
			Foreground(colorSurface1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
