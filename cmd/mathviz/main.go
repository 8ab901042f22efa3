package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/mathviz/internal/config"
	"github.com/san-kum/mathviz/internal/coord"
	"github.com/san-kum/mathviz/internal/gui"
	"github.com/san-kum/mathviz/internal/logging"
	"github.com/san-kum/mathviz/internal/telemetry"
	"github.com/san-kum/mathviz/internal/tui"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

var (
	configFile string
	logFile    string
	logLevel   string
	tab        string
	theme      string
	fps        int
	seed       uint64
	preset     string
	dataDir    string

	outFile     string
	frameW      int
	frameH      int
	frameScale  float64
	frames      int
	frameDelay  int
	steps       int
	dt          float64
	lyapSeconds float64
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepTime   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mathviz",
		Short:         "animated mathematical visualizations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLevel, "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemeDark.Name, "colour theme")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "chaos game seed (0 picks one)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "apply a named preset to the chosen view")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mathviz", "snapshot directory")
	rootCmd.Flags().StringVar(&tab, "tab", coord.Home, "starting tab")
	rootCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "tick rate")

	guiCmd := &cobra.Command{
		Use:   "gui [viz]",
		Short: "open the visualizations in a raylib window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	guiCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list visualizations and what they support",
		RunE:  listViews,
	}

	renderCmd := &cobra.Command{
		Use:   "render [viz]",
		Short: "render the finished figure to PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderView,
	}
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (.png or .svg); default <viz>.png")
	addFrameFlags(renderCmd)

	recordCmd := &cobra.Command{
		Use:   "record [viz]",
		Short: "record the animation as a GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  recordView,
	}
	recordCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file; default <viz>.gif")
	recordCmd.Flags().IntVar(&frames, "frames", 120, "frames to capture")
	recordCmd.Flags().IntVar(&frameDelay, "delay", 4, "delay between frames in 1/100 s")
	recordCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "ticks per simulated second")
	addFrameFlags(recordCmd)

	exportCmd := &cobra.Command{
		Use:   "export [viz]",
		Short: "write a snapshot directory: metadata, points and a frame",
		Args:  cobra.ExactArgs(1),
		RunE:  exportView,
	}
	addFrameFlags(exportCmd)

	snapshotsCmd := &cobra.Command{
		Use:   "snapshots",
		Short: "list saved snapshots",
		RunE:  listSnapshots,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [viz]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "power spectrum and Lyapunov exponent of the Lorenz system",
		RunE:  analyzeLorenz,
	}
	analyzeCmd.Flags().IntVar(&steps, "steps", 8192, "samples of x(t)")
	analyzeCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	analyzeCmd.Flags().Float64Var(&lyapSeconds, "lyapunov-time", 100, "simulated seconds for the Lyapunov estimate")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted sequence of renders",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	addFrameFlags(scriptCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a Lorenz parameter and measure chaos",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "rho", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 10, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 30, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 11, "number of values")
	sweepCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	sweepCmd.Flags().Float64Var(&sweepTime, "time", 50, "simulated seconds per value")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(guiCmd, listCmd, renderCmd, recordCmd, exportCmd, snapshotsCmd, presetsCmd, analyzeCmd, scriptCmd, sweepCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "mathviz:", err)
		os.Exit(1)
	}
}

func addFrameFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameW, "width", 800, "projection width for 3D views")
	cmd.Flags().IntVar(&frameH, "height", 600, "projection height for 3D views")
	cmd.Flags().Float64Var(&frameScale, "scale", 1, "output scale factor")
}

// session is the resolved configuration plus the process-wide services it
// started. close undoes them in reverse.
type session struct {
	cfg     *config.Config
	closers []func()
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// setup resolves configuration, applies explicit flags and the preset for
// name, then installs the logger, the theme and tracing. Logs go to stderr
// unless interactive, where only a --log-file receives them.
func setup(cmd *cobra.Command, name string, interactive bool) (*session, error) {
	cfg, err := config.Resolve(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("tab") {
		cfg.Tab = tab
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if name == "" {
		name = cfg.Tab
	}
	if preset != "" {
		if err := cfg.ApplyPreset(name, preset); err != nil {
			return nil, fmt.Errorf("preset: %w (available: %v)", err, config.ListPresets(name))
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	if err := s.startLogging(interactive); err != nil {
		return nil, err
	}
	viz.SetTheme(cfg.Theme)

	shutdown, err := telemetry.Setup(cmd.Context(), cfg.OTelEndpoint)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	s.closers = append(s.closers, func() {
		if err := shutdown(context.Background()); err != nil {
			logging.Logger().Warn("telemetry shutdown", "error", err)
		}
	})
	return s, nil
}

func (s *session) startLogging(interactive bool) error {
	level, err := config.ParseLevel(s.cfg.LogLevel)
	if err != nil {
		return err
	}
	var w io.Writer = os.Stderr
	switch {
	case s.cfg.LogFile != "":
		f, err := os.OpenFile(s.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
		s.closers = append(s.closers, func() { f.Close() })
	case interactive:
		return nil
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	s.closers = append(s.closers, func() { logging.SetLogger(nil) })
	return nil
}

func (s *session) env(w, h int) *visual.Env {
	env := visual.NewEnv(w, h)
	if s.cfg.Seed != 0 {
		env.Seed = s.cfg.Seed
	}
	return env
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := setup(cmd, "", true)
	if err != nil {
		return err
	}
	defer s.close()

	surface := &tui.Surface{}
	env := s.env(0, 0)
	env.Surface = surface.Provide
	c := coord.New(coord.NewRegistry(s.cfg.Options()), env)
	defer c.Close()

	logging.Logger().Info("starting tui", "tab", s.cfg.Tab, "theme", s.cfg.Theme)
	return tui.Run(cmd.Context(), c, surface, tui.Options{Tab: s.cfg.Tab, FPS: s.cfg.FPS})
}

func runGUI(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	s, err := setup(cmd, name, false)
	if err != nil {
		return err
	}
	defer s.close()
	if name == "" {
		name = s.cfg.Tab
	}

	env := s.env(gui.SurfaceW, gui.SurfaceH)
	c := coord.New(coord.NewRegistry(s.cfg.Options()), env)
	defer c.Close()

	logging.Logger().Info("starting gui", "tab", name, "theme", s.cfg.Theme)
	gui.Run(cmd.Context(), c, gui.Options{Tab: name, FPS: s.cfg.FPS})
	return nil
}
