// Package coord switches between visualizations. It constructs each view
// on first visit, pauses the outgoing view before starting the incoming one,
// and keeps one view's failure away from the others.
package coord

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/mathviz/internal/hud"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/logging"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

// Home is the landing tab; it has no view.
const Home = "home"

// Tabs in key order: 0 is home, 1..5 the views.
var Tabs = []string{Home, "lorenz", "mobius", "klein", "sierpinski", "mandelbrot"}

type Coordinator struct {
	reg       *Registry
	env       *visual.Env
	current   string
	instances map[string]visual.Visualization
	errs      map[string]error
	unsub     func()
}

func New(reg *Registry, env *visual.Env) *Coordinator {
	c := &Coordinator{
		reg:       reg,
		env:       env,
		current:   Home,
		instances: make(map[string]visual.Visualization),
		errs:      make(map[string]error),
	}
	c.unsub = viz.Subscribe(c.Repaint)
	return c
}

// Close stops listening for theme changes.
func (c *Coordinator) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}

func (c *Coordinator) Current() string { return c.current }

// Instance returns the constructed view for name, or nil.
func (c *Coordinator) Instance(name string) visual.Visualization { return c.instances[name] }

// Active returns the view on the current tab, or nil on home.
func (c *Coordinator) Active() visual.Visualization { return c.instances[c.current] }

// Err is the last non-deferred error from name's lifecycle.
func (c *Coordinator) Err(name string) error { return c.errs[name] }

// Switch moves to tab name. An error from the incoming view is logged and
// returned but never affects other views; a deferred init is reported with
// an error matching kernel.ErrMissingDependency.
func (c *Coordinator) Switch(ctx context.Context, name string) error {
	if name != Home && !c.reg.Has(name) {
		return fmt.Errorf("%w: %s", kernel.ErrUnknownVisualization, name)
	}
	if name == c.current {
		return nil
	}
	if out := c.Active(); out != nil {
		out.Pause()
	}
	c.current = name
	if name == Home {
		return nil
	}

	v, seen := c.instances[name]
	var err error
	if !seen {
		v, err = c.reg.Get(name, c.env)
		if err != nil {
			return err
		}
		c.instances[name] = v
		err = v.Init(ctx)
	} else {
		err = v.Resume(ctx)
	}
	return c.contain(name, err)
}

// Retry runs the deferred init of name once its library is ready.
func (c *Coordinator) Retry(ctx context.Context, name string) error {
	d, ok := c.instances[name].(visual.Deferred)
	if !ok {
		return nil
	}
	return c.contain(name, d.RetryInit(ctx))
}

// Ready returns the pending library signal for name, or nil.
func (c *Coordinator) Ready(name string) <-chan struct{} {
	if d, ok := c.instances[name].(visual.Deferred); ok {
		return d.Ready()
	}
	return nil
}

func (c *Coordinator) contain(name string, err error) error {
	log := logging.Logger().With("viz", name)
	switch {
	case err == nil:
		delete(c.errs, name)
	case visual.IsDeferred(err) && c.pending(name):
		log.Debug("waiting on library", "error", err)
	default:
		c.errs[name] = err
		log.Warn("visualization failed", "error", err)
	}
	return err
}

func (c *Coordinator) pending(name string) bool {
	p, ok := c.instances[name].(interface{ Pending() bool })
	return ok && p.Pending()
}

// Supports reports whether the current view offers cap.
func (c *Coordinator) Supports(cap visual.Capability) bool {
	v := c.Active()
	return v != nil && visual.Supports(v, cap)
}

func (c *Coordinator) TogglePause() bool {
	t, ok := c.Active().(visual.Toggler)
	if ok {
		t.TogglePause()
	}
	return ok
}

func (c *Coordinator) Reset() bool {
	r, ok := c.Active().(visual.Resetter)
	if ok {
		r.Reset()
	}
	return ok
}

func (c *Coordinator) Skip() bool {
	s, ok := c.Active().(visual.Skipper)
	if ok {
		s.Skip()
	}
	return ok
}

func (c *Coordinator) Adjust(dir int) bool {
	a, ok := c.Active().(visual.Adjuster)
	if ok {
		a.AdjustParameter(dir)
	}
	return ok
}

func (c *Coordinator) Interact(now time.Time) bool {
	i, ok := c.Active().(visual.Interactor)
	if ok {
		i.Interact(now)
	}
	return ok
}

func (c *Coordinator) Click(x, y float64) bool {
	k, ok := c.Active().(visual.Clicker)
	if ok {
		k.Click(x, y)
	}
	return ok
}

func (c *Coordinator) CycleMode() bool {
	k, ok := c.Active().(visual.Cycler)
	if ok {
		k.CycleMode()
	}
	return ok
}

func (c *Coordinator) ZoomOut() bool {
	z, ok := c.Active().(visual.Zoomer)
	if ok {
		z.ZoomOut()
	}
	return ok
}

// Tick forwards to the current view only.
func (c *Coordinator) Tick(now time.Time) {
	if v := c.Active(); v != nil {
		v.Tick(now)
	}
}

// NeedsTick is false on home and whenever the current view is inactive, so
// front-ends schedule nothing.
func (c *Coordinator) NeedsTick() bool {
	v := c.Active()
	return v != nil && v.Active()
}

// Status of the current view.
func (c *Coordinator) Status(now time.Time) (hud.Status, bool) {
	v := c.Active()
	if v == nil {
		return hud.Status{}, false
	}
	return v.Status(now), true
}

// Repaint re-themes every constructed view, visible or not.
func (c *Coordinator) Repaint(theme viz.Theme) {
	for name, v := range c.instances {
		if r, ok := v.(visual.Repainter); ok {
			r.Repaint(theme)
			logging.Logger().Debug("repainted", "viz", name, "theme", theme.Name)
		}
	}
}

// Names lists the views in tab order.
func (c *Coordinator) Names() []string { return c.reg.Names() }

// Resize resyncs the current view with its surface after the front-end
// changed size. Progress, pause state and any auto-resume deadline carry
// over.
func (c *Coordinator) Resize(ctx context.Context) error {
	v := c.Active()
	if v == nil {
		return nil
	}
	if r, ok := v.(visual.Resyncer); ok {
		return c.contain(c.current, r.Resync(ctx))
	}
	v.Pause()
	return c.contain(c.current, v.Resume(ctx))
}
