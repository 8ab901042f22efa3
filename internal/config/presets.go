package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/mathviz/internal/visual"
)

// Preset is a named starting point for one view.
type Preset struct {
	Description string
	Apply       func(*Config)
}

var Presets = map[string]map[string]Preset{
	"lorenz": {
		"classic": {
			Description: "σ=10, ρ=28, β=8/3: the butterfly",
			Apply: func(c *Config) {
				c.Lorenz.Sigma, c.Lorenz.Rho, c.Lorenz.Beta = 10, 28, 8.0/3.0
			},
		},
		"stable": {
			Description: "ρ=10: spirals into a fixed point",
			Apply: func(c *Config) {
				c.Lorenz.Sigma, c.Lorenz.Rho, c.Lorenz.Beta = 10, 10, 8.0/3.0
			},
		},
		"transient": {
			Description: "ρ=24: chaotic for a while, then settles",
			Apply: func(c *Config) {
				c.Lorenz.Sigma, c.Lorenz.Rho, c.Lorenz.Beta = 10, 24, 8.0/3.0
			},
		},
		"periodic": {
			Description: "ρ=99.96: a knotted periodic orbit",
			Apply: func(c *Config) {
				c.Lorenz.Sigma, c.Lorenz.Rho, c.Lorenz.Beta = 10, 99.96, 8.0/3.0
			},
		},
	},
	"mandelbrot": {
		"full": {
			Description: "the whole set",
			Apply: func(c *Config) {
				c.Mandelbrot.CenterX, c.Mandelbrot.CenterY, c.Mandelbrot.Zoom = -0.5, 0, 200
			},
		},
		"seahorse": {
			Description: "seahorse valley between the main bulbs",
			Apply: func(c *Config) {
				c.Mandelbrot.CenterX, c.Mandelbrot.CenterY, c.Mandelbrot.Zoom = -0.7453, 0.1127, 20000
				c.Mandelbrot.MaxIter = 500
			},
		},
		"elephant": {
			Description: "elephant valley on the right of the cardioid",
			Apply: func(c *Config) {
				c.Mandelbrot.CenterX, c.Mandelbrot.CenterY, c.Mandelbrot.Zoom = 0.2822, 0.01, 8000
				c.Mandelbrot.MaxIter = 400
			},
		},
		"spiral": {
			Description: "triple spiral near the top bulb",
			Apply: func(c *Config) {
				c.Mandelbrot.CenterX, c.Mandelbrot.CenterY, c.Mandelbrot.Zoom = -0.088, 0.654, 40000
				c.Mandelbrot.MaxIter = 600
			},
		},
		"minibrot": {
			Description: "a small copy of the set on the real axis",
			Apply: func(c *Config) {
				c.Mandelbrot.CenterX, c.Mandelbrot.CenterY, c.Mandelbrot.Zoom = -1.7549, 0, 30000
				c.Mandelbrot.MaxIter = 500
			},
		},
	},
	"sierpinski": {
		"recursive": {
			Description: "remove middle triangles level by level",
			Apply:       func(c *Config) { c.Sierpinski.Method = visual.MethodRecursive },
		},
		"chaos": {
			Description: "50,000 steps of the chaos game",
			Apply:       func(c *Config) { c.Sierpinski.Method = visual.MethodChaos },
		},
	},
	"mobius": {
		"classic": {
			Description: "one half-twist",
			Apply:       func(c *Config) { c.Mobius.Twists, c.Mobius.Width = 1, 0.4 },
		},
		"triple": {
			Description: "three half-twists, still one-sided",
			Apply:       func(c *Config) { c.Mobius.Twists, c.Mobius.Width = 3, 0.3 },
		},
	},
}

func GetPreset(name, preset string) *Preset {
	vizPresets, ok := Presets[name]
	if !ok {
		return nil
	}
	p, ok := vizPresets[preset]
	if !ok {
		return nil
	}
	return &p
}

// ListPresets returns the preset names for a view, sorted.
func ListPresets(name string) []string {
	vizPresets, ok := Presets[name]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(vizPresets))
	for n := range vizPresets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset applies a preset and re-validates.
func (c *Config) ApplyPreset(name, preset string) error {
	p := GetPreset(name, preset)
	if p == nil {
		return fmt.Errorf("%w: no preset %q for %s", ErrInvalidConfig, preset, name)
	}
	p.Apply(c)
	return c.Validate()
}
