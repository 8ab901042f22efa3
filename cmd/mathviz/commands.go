package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/san-kum/mathviz/internal/analysis"
	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/automation"
	"github.com/san-kum/mathviz/internal/config"
	"github.com/san-kum/mathviz/internal/coord"
	"github.com/san-kum/mathviz/internal/export"
	"github.com/san-kum/mathviz/internal/integrators"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/logging"
	"github.com/san-kum/mathviz/internal/physics"
	"github.com/san-kum/mathviz/internal/storage"
	"github.com/san-kum/mathviz/internal/telemetry"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

func headless(ctx context.Context, s *session, name string) (visual.Visualization, *anim.ManualClock, error) {
	return automation.Build(ctx, s.cfg, name, frameW/8, frameH/16)
}

func listViews(cmd *cobra.Command, args []string) error {
	env := visual.NewEnv(1, 1)
	reg := coord.NewRegistry(visual.DefaultOptions())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVIZ\tCAPABILITIES\tPRESETS")
	for i, name := range reg.Names() {
		v, err := reg.Get(name, env)
		if err != nil {
			return err
		}
		caps := make([]string, 0, len(visual.AllCapabilities))
		for _, c := range visual.Capabilities(v) {
			caps = append(caps, c.String())
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, name, strings.Join(caps, ","), strings.Join(config.ListPresets(name), ","))
	}
	return w.Flush()
}

func renderView(cmd *cobra.Command, args []string) error {
	name := args[0]
	s, err := setup(cmd, name, false)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, span := telemetry.Start(cmd.Context(), "mathviz.render", name)
	defer span.End()

	v, clock, err := headless(ctx, s, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "init failed")
		return err
	}
	export.FastForward(v)

	out := outFile
	if out == "" {
		out = name + ".png"
	}
	theme := viz.CurrentTheme()
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".svg":
		doc, err := export.SVG(v, frameW, frameH, theme)
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		err = export.WriteSVG(f, doc)
		if err != nil {
			return err
		}
	case ".png":
		img, err := export.Frame(v, frameW, frameH, theme)
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		if err := export.WritePNG(f, img, frameScale, export.CaptionFor(v, clock.Now()), theme); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
	span.SetAttributes(attribute.String("out", out))
	fmt.Printf("wrote %s\n", out)
	return nil
}

func recordView(cmd *cobra.Command, args []string) error {
	name := args[0]
	s, err := setup(cmd, name, false)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, span := telemetry.Start(cmd.Context(), "mathviz.record", name)
	defer span.End()

	v, clock, err := headless(ctx, s, name)
	if err != nil {
		return err
	}
	theme := viz.CurrentTheme()
	rec := export.NewRecorder(frameDelay, frameScale)
	var frameErr error
	export.Run(v, clock, frames, time.Second/time.Duration(s.cfg.FPS), func(i int) {
		if frameErr != nil {
			return
		}
		img, err := export.Frame(v, frameW, frameH, theme)
		if err != nil {
			frameErr = err
			return
		}
		rec.Add(img)
	})
	if frameErr != nil {
		return fmt.Errorf("record %s: %w", name, frameErr)
	}

	out := outFile
	if out == "" {
		out = name + ".gif"
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()
	if err := rec.Encode(f); err != nil {
		return fmt.Errorf("encode %s: %w", out, err)
	}
	span.SetAttributes(attribute.Int("frames", rec.Frames()))
	fmt.Printf("wrote %s (%d frames)\n", out, rec.Frames())
	return nil
}

func exportView(cmd *cobra.Command, args []string) error {
	name := args[0]
	s, err := setup(cmd, name, false)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, span := telemetry.Start(cmd.Context(), "mathviz.export", name)
	defer span.End()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	v, clock, err := headless(ctx, s, name)
	if err != nil {
		return err
	}
	export.FastForward(v)

	id, err := st.Save(v, clock.Now(), storage.Options{
		Theme:      viz.CurrentTheme(),
		Seed:       s.cfg.Seed,
		FrameW:     frameW,
		FrameH:     frameH,
		FrameScale: frameScale,
	})
	if err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}
	logging.Logger().Info("snapshot saved", "viz", name, "id", id)
	fmt.Printf("snapshot: %s\n", id)
	return nil
}

func listSnapshots(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snaps, err := st.List()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("no snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVIZ\tTIME\tTHEME\tMODE\tPOINTS")
	for _, m := range snaps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			m.ID,
			m.Viz,
			m.Timestamp.Format("2006-01-02 15:04:05"),
			m.Theme,
			m.Mode,
			m.Points,
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := make([]string, 0, len(config.Presets))
	if len(args) > 0 {
		names = append(names, args[0])
	} else {
		for n := range config.Presets {
			names = append(names, n)
		}
		sort.Strings(names)
	}
	for _, n := range names {
		presets := config.ListPresets(n)
		if len(presets) == 0 {
			fmt.Printf("no presets for %s\n", n)
			continue
		}
		fmt.Printf("presets for %s:\n", n)
		for _, p := range presets {
			fmt.Printf("  %-12s %s\n", p, config.GetPreset(n, p).Description)
		}
	}
	return nil
}

func analyzeLorenz(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd, "lorenz", false)
	if err != nil {
		return err
	}
	defer s.close()
	if steps < 16 || dt <= 0 {
		return fmt.Errorf("need at least 16 steps and a positive dt")
	}

	sys := physics.NewLorenz()
	for k, v := range map[string]float64{"sigma": s.cfg.Lorenz.Sigma, "rho": s.cfg.Lorenz.Rho, "beta": s.cfg.Lorenz.Beta} {
		if err := sys.SetParam(k, v); err != nil {
			return err
		}
	}
	traj, err := kernel.Trajectory(sys, integrators.NewRK4(), sys.DefaultState(), dt, steps)
	if err != nil {
		return fmt.Errorf("integrate: %w", err)
	}
	xs := make([]float64, len(traj))
	for i, p := range traj {
		xs[i] = p.Pos.X
	}

	// skip the first tenth so the spectrum is the attractor's, not the transient's
	spec := analysis.PowerSpectrum(xs[len(xs)/10:], dt).Band(0, 5)
	fmt.Printf("lorenz σ=%.2f ρ=%.2f β=%.3f  %d samples, dt=%g\n\n",
		s.cfg.Lorenz.Sigma, s.cfg.Lorenz.Rho, s.cfg.Lorenz.Beta, steps, dt)
	fmt.Println(analysis.Plot(spec, 80, 15, "log10 power of x(t), 0-5 Hz"))
	fmt.Println()

	freq, _ := spec.Peak()
	fmt.Printf("dominant frequency: %.3f\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f\n", 1/freq)
	}

	lambda := analysis.LyapunovExponent(sys, integrators.NewRK4(), sys.DefaultState(), dt, lyapSeconds, 1e-8)
	fmt.Printf("largest lyapunov exponent: %.3f", lambda)
	if lambda > 0.01 {
		fmt.Println("  (chaotic)")
	} else {
		fmt.Println("  (not chaotic)")
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "mathviz.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd, "", false)
	if err != nil {
		return err
	}
	defer s.close()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n\n", sc.Description)
	}

	results, err := automation.RunScenario(cmd.Context(), sc, s.cfg, automation.Output{
		Dir:    dataDir,
		W:      frameW,
		H:      frameH,
		Scale:  frameScale,
		Theme:  viz.CurrentTheme(),
		FPS:    s.cfg.FPS,
		Stdout: func(format string, args ...any) { fmt.Printf(format, args...) },
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nVIZ\tSTATUS\tDETAIL\tOUT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Viz, r.Status.Label, r.Status.Detail, r.Out)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd, "lorenz", false)
	if err != nil {
		return err
	}
	defer s.close()

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Duration:  sweepTime,
		Dt:        dt,
	}, s.cfg.Lorenz)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tLYAPUNOV\tPEAK FREQ\tREGIME\n", strings.ToUpper(sweepParam))
	lambdas := make([]float64, len(results))
	for i, r := range results {
		regime := "periodic/fixed"
		if r.Chaotic() {
			regime = "chaotic"
		}
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\t%s\n", r.ParamValue, r.Lyapunov, r.PeakFreq, regime)
		lambdas[i] = r.Lyapunov
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(analysis.Sparkline(lambdas, 60, 8))
	return nil
}
