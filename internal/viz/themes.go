package viz

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour scheme shared by the front-ends and the render
// adapters. Background, Grid, ZeroLine and Accent are what a repaint
// re-derives; the rest style the chrome.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Grid       lipgloss.Color
	ZeroLine   lipgloss.Color
	Accent     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Secondary  lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// Available themes
var (
	ThemeDark = Theme{
		Name:       "dark",
		Background: "#101010",
		Grid:       "#1a1a1a",
		ZeroLine:   "#222222",
		Accent:     "#c8a26a",
		Text:       "#e8e4dc",
		Muted:      "#777777",
		Secondary:  "#ffe0b2",
		Warning:    "#e0a040",
		Error:      "#e05050",
	}

	ThemeLight = Theme{
		Name:       "light",
		Background: "#f5f3ef",
		Grid:       "#e4e0d8",
		ZeroLine:   "#d0cbc2",
		Accent:     "#8a6a3a",
		Text:       "#1a1a1a",
		Muted:      "#888888",
		Secondary:  "#5a4a30",
		Warning:    "#b07010",
		Error:      "#b02020",
	}

	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Background: "#0a0a0a",
		Grid:       "#1a001a",
		ZeroLine:   "#330033",
		Accent:     "#ffff00",
		Text:       "#ffffff",
		Muted:      "#666666",
		Secondary:  "#00ffff",
		Warning:    "#ff8800",
		Error:      "#ff0000",
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Background: "#001100",
		Grid:       "#002200",
		ZeroLine:   "#003300",
		Accent:     "#88ff88",
		Text:       "#00ff00",
		Muted:      "#005500",
		Secondary:  "#00cc00",
		Warning:    "#ffff00",
		Error:      "#ff0000",
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Background: "#001a33",
		Grid:       "#00264d",
		ZeroLine:   "#003366",
		Accent:     "#ffd700",
		Text:       "#e0f0ff",
		Muted:      "#4488aa",
		Secondary:  "#00a8cc",
		Warning:    "#ffcc00",
		Error:      "#ff4444",
	}

	// All available themes, in cycling order.
	Themes = []Theme{
		ThemeDark,
		ThemeLight,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

var (
	themeMu     sync.Mutex
	current     = ThemeDark
	subscribers = map[int]func(Theme){}
	nextSub     int
)

// GetTheme returns a theme by name
func GetTheme(name string) (Theme, error) {
	for _, t := range Themes {
		if t.Name == name {
			return t, nil
		}
	}
	return ThemeDark, fmt.Errorf("unknown theme: %s", name)
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeMu.Lock()
	defer themeMu.Unlock()
	return current
}

// SetTheme changes the current theme and notifies every subscriber.
// Unknown names fall back to dark.
func SetTheme(name string) Theme {
	t, _ := GetTheme(name)
	themeMu.Lock()
	current = t
	subs := make([]func(Theme), 0, len(subscribers))
	for _, fn := range subscribers {
		subs = append(subs, fn)
	}
	themeMu.Unlock()
	for _, fn := range subs {
		fn(t)
	}
	return t
}

// NextTheme cycles to the theme after the current one.
func NextTheme() Theme {
	cur := CurrentTheme()
	for i, t := range Themes {
		if t.Name == cur.Name {
			return SetTheme(Themes[(i+1)%len(Themes)].Name)
		}
	}
	return SetTheme(ThemeDark.Name)
}

// Subscribe registers fn for theme changes. The returned func removes it.
func Subscribe(fn func(Theme)) (cancel func()) {
	themeMu.Lock()
	id := nextSub
	nextSub++
	subscribers[id] = fn
	themeMu.Unlock()
	return func() {
		themeMu.Lock()
		delete(subscribers, id)
		themeMu.Unlock()
	}
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// RGBA parses a "#rrggbb" theme colour.
func RGBA(c lipgloss.Color) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(string(c), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{r, g, b, 255}
}

// Hex formats a colour as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
