package visual

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/deps"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/logging"
	"github.com/san-kum/mathviz/internal/viz"
)

var tracer = otel.Tracer("github.com/san-kum/mathviz/internal/visual")

// Size is a surface size in terminal cells or window pixels.
type Size struct{ W, H int }

// SurfaceProvider hands out the render surface for a named view. It fails
// with kernel.ErrMissingSurface when none can be mounted.
type SurfaceProvider func(name string) (Size, error)

// FixedSurface provides the same size to every view.
func FixedSurface(w, h int) SurfaceProvider {
	return func(name string) (Size, error) {
		if w <= 0 || h <= 0 {
			return Size{}, fmt.Errorf("%s surface %dx%d: %w", name, w, h, kernel.ErrMissingSurface)
		}
		return Size{w, h}, nil
	}
}

// Env is what every view shares: the library loader, the colour tables it
// fills, a surface provider and a clock.
type Env struct {
	Loader  *deps.Loader
	Tables  *deps.Tables
	Surface SurfaceProvider
	Clock   anim.Clock
	Seed    uint64
}

// NewEnv wires the standard libraries with a fixed surface.
func NewEnv(w, h int) *Env {
	tables := deps.NewTables()
	return &Env{
		Loader:  deps.NewLoader(deps.Standard(tables)...),
		Tables:  tables,
		Surface: FixedSurface(w, h),
		Clock:   anim.SystemClock,
		Seed:    uint64(time.Now().UnixNano()),
	}
}

// IsDeferred reports whether err only means setup is waiting on a library.
func IsDeferred(err error) bool {
	return errors.Is(err, kernel.ErrMissingDependency)
}

// hooks are what a concrete view plugs into the shared lifecycle.
type hooks interface {
	setup(ctx context.Context) error
	halted()
	resized()
	resumed(now time.Time)
}

// lifecycle carries the flags and deferral logic common to every view.
// It is driven from one goroutine, like the views themselves.
type lifecycle struct {
	name  string
	lib   string
	env   *Env
	hooks hooks

	initialized bool
	active      bool
	hidden      bool
	inert       bool
	pending     bool
	retried     bool
	ready       <-chan struct{}
	setups      int
	err         error

	size  Size
	theme viz.Theme
}

func (l *lifecycle) bind(name, lib string, env *Env, h hooks) {
	l.name, l.lib, l.env, l.hooks = name, lib, env, h
	l.theme = viz.CurrentTheme()
}

func (l *lifecycle) Name() string    { return l.name }
func (l *lifecycle) Active() bool    { return l.active && !l.inert }
func (l *lifecycle) Inert() bool     { return l.inert }
func (l *lifecycle) Pending() bool   { return l.pending }
func (l *lifecycle) Size() Size      { return l.size }
func (l *lifecycle) Library() string { return l.lib }

func (l *lifecycle) ticking() bool {
	return l.initialized && l.active && !l.inert
}

func (l *lifecycle) Init(ctx context.Context) error {
	if l.initialized {
		return nil
	}
	l.hidden = false
	if l.pending {
		return l.deferred()
	}
	if !l.env.Loader.IsReady(l.lib) {
		ready, err := l.env.Loader.Begin(ctx, l.lib)
		if err != nil {
			return l.fail(ctx, "init", err)
		}
		l.pending = true
		l.ready = ready
		logging.Logger().Info("init deferred", "viz", l.name, "library", l.lib)
		return l.deferred()
	}
	return l.setupNow(ctx)
}

// Ready is closed once the pending library load finishes. It is nil when
// nothing is pending.
func (l *lifecycle) Ready() <-chan struct{} {
	if !l.pending {
		return nil
	}
	return l.ready
}

// RetryInit runs the deferred setup. Only the first call after a deferral
// does anything; a library that failed to load leaves the view inert.
func (l *lifecycle) RetryInit(ctx context.Context) error {
	if !l.pending || l.retried {
		return nil
	}
	l.retried = true
	l.pending = false
	if !l.env.Loader.IsReady(l.lib) {
		err := l.env.Loader.Err(l.lib)
		if err == nil {
			err = kernel.ErrMissingDependency
		}
		return l.fail(ctx, "retry", err)
	}
	return l.setupNow(ctx)
}

func (l *lifecycle) deferred() error {
	return &kernel.VisualizationError{Name: l.name, Op: "init", Wrapped: kernel.ErrMissingDependency}
}

func (l *lifecycle) setupNow(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "visual.init")
	span.SetAttributes(attribute.String("viz", l.name), attribute.String("library", l.lib))
	defer span.End()

	size, err := l.env.Surface(l.name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no surface")
		return l.fail(ctx, "init", err)
	}
	l.size = size
	if err := l.hooks.setup(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "setup failed")
		return l.fail(ctx, "init", err)
	}
	l.setups++
	l.initialized = true
	l.active = !l.hidden
	logging.Logger().Info("visualization ready", "viz", l.name, "w", size.W, "h", size.H)
	return nil
}

// fail contains err inside this view: it goes inert and stays initialized
// so nothing retries it.
func (l *lifecycle) fail(ctx context.Context, op string, err error) error {
	l.inert = true
	l.initialized = true
	l.active = false
	logging.Logger().WarnContext(ctx, "visualization inert", "viz", l.name, "op", op, "error", err)
	l.err = &kernel.VisualizationError{Name: l.name, Op: op, Wrapped: err}
	return l.err
}

// remount retries a setup that only failed for want of a surface. Any
// other failure is final and reported again.
func (l *lifecycle) remount(ctx context.Context) error {
	if !errors.Is(l.err, kernel.ErrMissingSurface) {
		return l.err
	}
	if _, err := l.env.Surface(l.name); err != nil {
		return l.err
	}
	l.inert, l.initialized, l.err = false, false, nil
	logging.Logger().Info("surface back, remounting", "viz", l.name)
	return l.setupNow(ctx)
}

func (l *lifecycle) Pause() {
	l.active = false
	l.hidden = true
	if l.initialized && !l.inert {
		l.hooks.halted()
	}
}

func (l *lifecycle) Resume(ctx context.Context) error {
	if !l.initialized && !l.pending {
		return l.Init(ctx)
	}
	l.hidden = false
	if l.pending {
		return nil
	}
	if l.inert {
		return l.remount(ctx)
	}
	l.resync()
	l.active = true
	l.hooks.resumed(l.env.Clock.Now())
	return nil
}

// Resync picks up a new surface size without pausing, so a running
// auto-resume deadline keeps its remaining time.
func (l *lifecycle) Resync(ctx context.Context) error {
	switch {
	case l.pending || !l.initialized:
		return nil
	case l.inert:
		return l.remount(ctx)
	}
	l.resync()
	return nil
}

func (l *lifecycle) resync() {
	size, err := l.env.Surface(l.name)
	if err != nil {
		logging.Logger().Warn("surface lost", "viz", l.name, "error", err)
		return
	}
	if size != l.size {
		l.size = size
		l.hooks.resized()
	}
}

// unpause leaves any pause through the machine's own toggle, which also
// clears the auto-resume deadline.
func unpause(m *anim.Machine) {
	if m.Paused() {
		m.TogglePause()
	}
}

// scene3d is the retained 3D surface shared by the three surface views.
type scene3d struct {
	scene  *viz.Scene
	canvas *viz.Canvas
}

func (s *scene3d) Scene() *viz.Scene   { return s.scene }
func (s *scene3d) Canvas() *viz.Canvas { return s.canvas }

func (s *scene3d) mount(size Size) {
	s.canvas = viz.NewCanvas(size.W, size.H)
}

func (s *scene3d) draw(theme viz.Theme) {
	if s.canvas != nil && s.scene != nil {
		viz.DrawScene(s.canvas, s.scene, theme)
	}
}

// rasterSurface is the pixel surface shared by the two fractal views.
type rasterSurface struct {
	raster   *viz.Raster
	cells    *image.RGBA
	cellSize Size
}

func (r *rasterSurface) Raster() *viz.Raster { return r.raster }
func (r *rasterSurface) Cells() *image.RGBA  { return r.cells }

// flush publishes the back buffer and refreshes the cell image.
func (r *rasterSurface) flush() {
	r.raster.Flush()
	r.cells = r.raster.Cells(r.cellSize.W, r.cellSize.H)
}
