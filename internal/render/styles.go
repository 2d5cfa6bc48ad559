package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorSurface1 lipgloss.Color = "#313244"
)

var (
	textStyle    = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	subtleStyle  = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	borderStyle  = lipgloss.NewStyle().Foreground(colorBorder)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

// accents maps the colour names used in background tokens such as
// "bg-gradient-to-br from-blue-50 via-indigo-100" to the palette.
var accents = map[string]lipgloss.Color{
	"blue":    "#89b4fa",
	"indigo":  "#b4befe",
	"violet":  "#cba6f7",
	"purple":  "#cba6f7",
	"fuchsia": "#cba6f7",
	"pink":    "#f5c2e7",
	"rose":    "#f5c2e7",
	"red":     "#f38ba8",
	"orange":  "#fab387",
	"amber":   "#f9e2af",
	"yellow":  "#f9e2af",
	"green":   "#a6e3a1",
	"emerald": "#a6e3a1",
	"teal":    "#94e2d5",
	"cyan":    "#89dceb",
	"sky":     "#89dceb",
	"slate":   "#a6adc8",
	"gray":    "#a6adc8",
}

// AccentFor picks the accent colour of a background or colour token from
// its first "from-<colour>" part. Unknown tokens use the default accent.
func AccentFor(token string) lipgloss.Color {
	for _, part := range strings.Fields(token) {
		name, ok := strings.CutPrefix(part, "from-")
		if !ok {
			continue
		}
		name, _, _ = strings.Cut(name, "-")
		if c, ok := accents[name]; ok {
			return c
		}
	}
	return colorAccent
}

func titleStyle(accent lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(accent).Bold(true)
}
