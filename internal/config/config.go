// Package config loads the settings shared by the TUI, the GUI and the
// headless commands. Values come from defaults, then a YAML file, then
// MATHVIZ_* environment variables; flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mathviz/internal/coord"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/physics"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

const (
	DefaultFPS   = 60
	MaxFPS       = 120
	MaxSteps     = 100000
	DefaultLevel = "info"
)

var ErrInvalidConfig = errors.New("mathviz: invalid config")

type Config struct {
	Tab          string `yaml:"tab" env:"MATHVIZ_TAB"`
	Theme        string `yaml:"theme" env:"MATHVIZ_THEME"`
	FPS          int    `yaml:"fps" env:"MATHVIZ_FPS"`
	Seed         uint64 `yaml:"seed" env:"MATHVIZ_SEED"`
	LogLevel     string `yaml:"log_level" env:"MATHVIZ_LOG_LEVEL"`
	LogFile      string `yaml:"log_file" env:"MATHVIZ_LOG_FILE"`
	OTelEndpoint string `yaml:"otel_endpoint" env:"MATHVIZ_OTEL_ENDPOINT"`

	Lorenz     LorenzConfig     `yaml:"lorenz" envPrefix:"MATHVIZ_LORENZ_"`
	Mobius     MobiusConfig     `yaml:"mobius" envPrefix:"MATHVIZ_MOBIUS_"`
	Klein      KleinConfig      `yaml:"klein" envPrefix:"MATHVIZ_KLEIN_"`
	Sierpinski SierpinskiConfig `yaml:"sierpinski" envPrefix:"MATHVIZ_SIERPINSKI_"`
	Mandelbrot MandelbrotConfig `yaml:"mandelbrot" envPrefix:"MATHVIZ_MANDELBROT_"`
}

type LorenzConfig struct {
	Sigma float64 `yaml:"sigma" env:"SIGMA"`
	Rho   float64 `yaml:"rho" env:"RHO"`
	Beta  float64 `yaml:"beta" env:"BETA"`
	Steps int     `yaml:"steps" env:"STEPS"`
}

type MobiusConfig struct {
	Twists int     `yaml:"twists" env:"TWISTS"`
	Width  float64 `yaml:"width" env:"WIDTH"`
}

type KleinConfig struct {
	Opacity float64 `yaml:"opacity" env:"OPACITY"`
}

type SierpinskiConfig struct {
	Depth  int    `yaml:"depth" env:"DEPTH"`
	Method string `yaml:"method" env:"METHOD"`
}

type MandelbrotConfig struct {
	CenterX float64 `yaml:"center_x" env:"CENTER_X"`
	CenterY float64 `yaml:"center_y" env:"CENTER_Y"`
	Zoom    float64 `yaml:"zoom" env:"ZOOM"`
	MaxIter int     `yaml:"max_iter" env:"MAX_ITER"`
	Palette string  `yaml:"palette" env:"PALETTE"`
}

func DefaultConfig() *Config {
	opts := visual.DefaultOptions()
	vp := opts.Mandelbrot.Viewport
	return &Config{
		Tab:      coord.Home,
		Theme:    viz.ThemeDark.Name,
		FPS:      DefaultFPS,
		LogLevel: DefaultLevel,
		Lorenz: LorenzConfig{
			Sigma: opts.Lorenz.Sigma,
			Rho:   opts.Lorenz.Rho,
			Beta:  opts.Lorenz.Beta,
			Steps: opts.Lorenz.Steps,
		},
		Mobius:     MobiusConfig{Twists: opts.Mobius.Twists, Width: opts.Mobius.HalfWidth},
		Klein:      KleinConfig{Opacity: opts.Klein.Opacity},
		Sierpinski: SierpinskiConfig{Depth: opts.Sierpinski.Depth, Method: opts.Sierpinski.Method},
		Mandelbrot: MandelbrotConfig{
			CenterX: vp.CenterX,
			CenterY: vp.CenterY,
			Zoom:    vp.Zoom,
			MaxIter: opts.Mandelbrot.MaxIter,
			Palette: opts.Mandelbrot.Palette,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseEnv overlays MATHVIZ_* environment variables. Unset variables leave
// the current values alone.
func ParseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve loads defaults, the optional file at path, and the environment,
// then validates the result.
func Resolve(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate clamps numeric settings into range and rejects unknown names.
func (c *Config) Validate() error {
	c.FPS = min(max(c.FPS, 1), MaxFPS)
	c.Lorenz.Sigma = physics.SigmaParam.Clamp(c.Lorenz.Sigma)
	c.Lorenz.Rho = physics.RhoParam.Clamp(c.Lorenz.Rho)
	c.Lorenz.Beta = physics.BetaParam.Clamp(c.Lorenz.Beta)
	c.Lorenz.Steps = min(max(c.Lorenz.Steps, 2), MaxSteps)
	c.Mobius.Twists = int(visual.TwistsParam.Clamp(float64(c.Mobius.Twists)))
	c.Mobius.Width = visual.WidthParam.Clamp(c.Mobius.Width)
	c.Klein.Opacity = visual.OpacityParam.Clamp(c.Klein.Opacity)
	c.Sierpinski.Depth = int(visual.DepthParam.Clamp(float64(c.Sierpinski.Depth)))
	c.Mandelbrot.MaxIter = int(visual.MaxIterParam.Clamp(float64(c.Mandelbrot.MaxIter)))
	c.Mandelbrot.Zoom = math.Max(visual.MinZoom, c.Mandelbrot.Zoom)

	var errs []error
	if !slices.Contains(coord.Tabs, c.Tab) {
		errs = append(errs, fmt.Errorf("%w: tab %q", ErrInvalidConfig, c.Tab))
	}
	if _, err := viz.GetTheme(c.Theme); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if c.Sierpinski.Method != visual.MethodRecursive && c.Sierpinski.Method != visual.MethodChaos {
		errs = append(errs, fmt.Errorf("%w: sierpinski method %q", ErrInvalidConfig, c.Sierpinski.Method))
	}
	if !slices.Contains(kernel.PaletteNames, c.Mandelbrot.Palette) {
		errs = append(errs, fmt.Errorf("%w: palette %q", ErrInvalidConfig, c.Mandelbrot.Palette))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, name)
	}
	return lvl, nil
}

// Options converts the settings into view options.
func (c *Config) Options() visual.Options {
	opts := visual.DefaultOptions()
	opts.Lorenz = visual.LorenzOptions{
		Sigma: c.Lorenz.Sigma,
		Rho:   c.Lorenz.Rho,
		Beta:  c.Lorenz.Beta,
		Steps: c.Lorenz.Steps,
	}
	opts.Mobius = visual.MobiusOptions{Twists: c.Mobius.Twists, HalfWidth: c.Mobius.Width}
	opts.Klein = visual.KleinOptions{Opacity: c.Klein.Opacity}
	opts.Sierpinski = visual.SierpinskiOptions{Depth: c.Sierpinski.Depth, Method: c.Sierpinski.Method}
	opts.Mandelbrot.Viewport.CenterX = c.Mandelbrot.CenterX
	opts.Mandelbrot.Viewport.CenterY = c.Mandelbrot.CenterY
	opts.Mandelbrot.Viewport.Zoom = c.Mandelbrot.Zoom
	opts.Mandelbrot.MaxIter = c.Mandelbrot.MaxIter
	opts.Mandelbrot.Palette = c.Mandelbrot.Palette
	return opts
}
