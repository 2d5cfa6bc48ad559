package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorPeach
)

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle   = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0)
	statusStyle   = lipgloss.NewStyle().Foreground(colorSubtext0)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	linkStyle     = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	dotStyle      = lipgloss.NewStyle().Foreground(colorSurface1)
	dotOnStyle    = lipgloss.NewStyle().Foreground(colorFocus)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocus).Padding(0, 2)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	slidePadStyle = lipgloss.NewStyle().Padding(1, 2)
)
