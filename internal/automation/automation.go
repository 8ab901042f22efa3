// Package automation runs views without a front-end: scripted scenarios
// that render a sequence of views to files, and Lorenz parameter sweeps.
package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/config"
	"github.com/san-kum/mathviz/internal/coord"
	"github.com/san-kum/mathviz/internal/deps"
	"github.com/san-kum/mathviz/internal/export"
	"github.com/san-kum/mathviz/internal/hud"
	"github.com/san-kum/mathviz/internal/logging"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

// Scenario defines a scripted sequence of renders
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single view to set up, advance and optionally save
type ScenarioStep struct {
	Viz    string             `yaml:"viz"`
	Preset string             `yaml:"preset"`
	Params map[string]float64 `yaml:"params"`
	Ticks  int                `yaml:"ticks"`
	Finish bool               `yaml:"finish"`
	SaveAs string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &scenario, nil
}

// Output controls how scenario frames are written.
type Output struct {
	Dir    string
	W, H   int
	Scale  float64
	Theme  viz.Theme
	FPS    int
	Stdout func(format string, args ...any)
}

type StepResult struct {
	Viz    string
	Status hud.Status
	Out    string
}

// Build constructs name from cfg on a manual clock with every library
// loaded up front, and initializes it.
func Build(ctx context.Context, cfg *config.Config, name string, w, h int) (visual.Visualization, *anim.ManualClock, error) {
	env := visual.NewEnv(max(w, 1), max(h, 1))
	if cfg.Seed != 0 {
		env.Seed = cfg.Seed
	}
	for _, lib := range []string{deps.Scene3D, deps.Raster} {
		if err := env.Loader.Load(ctx, lib); err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", lib, err)
		}
	}
	clock := &anim.ManualClock{T: time.Now()}
	env.Clock = clock

	v, err := coord.NewRegistry(cfg.Options()).Get(name, env)
	if err != nil {
		return nil, nil, err
	}
	if err := v.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("init %s: %w", name, err)
	}
	return v, clock, nil
}

// RunScenario executes all steps in a scenario. Each step starts from base
// with its own preset and parameters.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, out Output) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	fps := out.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if out.Stdout != nil {
			out.Stdout("step %d/%d: %s\n", i+1, len(scenario.Steps), step.Viz)
		}

		cfg := *base
		if step.Preset != "" {
			if err := cfg.ApplyPreset(step.Viz, step.Preset); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		v, clock, err := Build(ctx, &cfg, step.Viz, out.W/8, out.H/16)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		if p, ok := v.(visual.Parametric); ok {
			for k, val := range step.Params {
				if err := p.SetParam(k, val); err != nil {
					return results, fmt.Errorf("step %d: %w", i+1, err)
				}
			}
		} else if len(step.Params) > 0 {
			return results, fmt.Errorf("step %d: %s takes no parameters", i+1, step.Viz)
		}

		export.Run(v, clock, step.Ticks, time.Second/time.Duration(fps), nil)
		if step.Finish {
			export.FastForward(v)
		}

		res := StepResult{Viz: step.Viz, Status: v.Status(clock.Now())}
		if step.SaveAs != "" {
			res.Out = filepath.Join(out.Dir, step.SaveAs)
			if err := save(v, clock.Now(), res.Out, out); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		logging.Logger().Info("scenario step", "step", i+1, "viz", step.Viz, "status", res.Status.Label)
		results = append(results, res)
	}

	return results, nil
}

func save(v visual.Visualization, now time.Time, path string, out Output) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		doc, err := export.SVG(v, out.W, out.H, out.Theme)
		if err != nil {
			return err
		}
		return export.WriteSVG(f, doc)
	case ".png":
		img, err := export.Frame(v, out.W, out.H, out.Theme)
		if err != nil {
			return err
		}
		return export.WritePNG(f, img, out.Scale, export.CaptionFor(v, now), out.Theme)
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}
