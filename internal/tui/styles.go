package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mathviz/internal/viz"
)

var (
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// accent follows the current theme so a theme change restyles the chrome.
func accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(viz.CurrentTheme().Accent).Bold(true)
}

func muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(viz.CurrentTheme().Muted)
}

// bar draws a fill fraction as a run of heavy and light rules.
func bar(fill float64, width int) string {
	n := int(fill * float64(width))
	n = max(0, min(n, width))
	return accent().Render(strings.Repeat("━", n)) + dimmer.Render(strings.Repeat("─", width-n))
}

// faded picks a style for a caption at the given opacity.
func faded(text string, opacity float64) string {
	switch {
	case opacity >= 0.66:
		return white.Render(text)
	case opacity >= 0.33:
		return dim.Render(text)
	case opacity > 0:
		return dimmer.Render(text)
	}
	return ""
}
