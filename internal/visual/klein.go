package visual

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/deps"
	"github.com/san-kum/mathviz/internal/hud"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/viz"
)

var OpacityParam = kernel.Param{Name: "opacity", Min: 0.2, Max: 1, Step: 0.1, Default: 1}

const (
	KleinFPS      = 30
	kleinRes      = 30
	kleinSpin     = 0.003 * 60 // rad per second
	PhaseRotating = "rotating"
	kleinCaption  = "A closed surface with no inside. Drag to explore"
)

var kleinEye = kernel.Vec3{X: 1.6, Y: 1.6, Z: 0.8}

type KleinOptions struct {
	Opacity float64
}

func DefaultKleinOptions() KleinOptions { return KleinOptions{Opacity: OpacityParam.Default} }

// Klein spins the bottle continuously at a throttled frame rate. Rotation
// is driven by elapsed time, so dropped ticks do not slow it down.
type Klein struct {
	lifecycle
	scene3d

	m        *anim.Machine
	throttle *anim.Throttle
	grid     kernel.Grid
	opacity  float64
	angle    float64
}

func NewKlein(env *Env, opts KleinOptions) *Klein {
	v := &Klein{
		opacity:  OpacityParam.Clamp(opts.Opacity),
		throttle: anim.NewThrottle(KleinFPS),
	}
	// The rotating phase never ends; the trailing phase only exists so the
	// machine has somewhere to go.
	v.m = anim.NewMachine(
		anim.Phase{Name: PhaseRotating, Budget: anim.Unbounded},
		anim.Phase{Name: PhaseDone},
	)
	v.bind("klein", deps.Scene3D, env, v)
	return v
}

func (v *Klein) Machine() *anim.Machine { return v.m }
func (v *Klein) Angle() float64         { return v.angle }

func (v *Klein) setup(ctx context.Context) error {
	g := kernel.Klein(kleinRes)
	for _, row := range g {
		for j := range row {
			row[j] = row[j].Scale(1.0 / 16)
		}
	}
	v.grid = g
	v.scene = viz.NewScene()
	v.scene.Traces = []viz.Trace{v.trace()}
	v.mount(v.size)
	v.restart()
	return nil
}

func (v *Klein) trace() viz.Trace {
	return viz.Trace{Kind: viz.Surface, Grid: v.grid, Scale: kernel.Dusk, Opacity: v.opacity}
}

func (v *Klein) eye() viz.CameraState {
	r := math.Hypot(kleinEye.X, kleinEye.Y)
	return viz.Eye(r*math.Cos(v.angle), r*math.Sin(v.angle), kleinEye.Z)
}

func (v *Klein) restart() {
	v.m.Reset()
	v.throttle.Reset()
	v.angle = math.Atan2(kleinEye.Y, kleinEye.X)
	// a reset drops the direct camera handle, like a fresh layout
	v.scene.Invalidate()
	viz.UpdateCamera(v.scene, viz.Eye(kleinEye.X, kleinEye.Y, kleinEye.Z))
	v.draw(v.theme)
}

func (v *Klein) Tick(now time.Time) {
	if !v.ticking() {
		return
	}
	v.m.Poll(now)
	dt, ok := v.throttle.Ready(now)
	if !ok || !v.m.Advance() {
		return
	}
	v.angle += kleinSpin * dt.Seconds()
	viz.UpdateCamera(v.scene, v.eye())
	v.draw(v.theme)
}

func (v *Klein) halted() { v.m.CancelAutoResume() }

func (v *Klein) resized() {
	v.mount(v.size)
	v.draw(v.theme)
}

func (v *Klein) resumed(now time.Time) {
	v.throttle.Reset()
	v.m.RearmAutoResume(now)
}

func (v *Klein) TogglePause() { v.m.TogglePause() }

// Interact pauses the spin unless the user already paused it by hand.
func (v *Klein) Interact(now time.Time) { v.m.InteractionPause(now) }

func (v *Klein) Reset() {
	if !v.initialized || v.inert {
		return
	}
	v.restart()
}

func (v *Klein) AdjustParameter(dir int) {
	_ = v.SetParam(OpacityParam.Name, OpacityParam.Nudge(v.opacity, dir))
}

func (v *Klein) Params() []kernel.Param { return []kernel.Param{OpacityParam} }

func (v *Klein) Param(name string) (float64, error) {
	if name != OpacityParam.Name {
		return 0, fmt.Errorf("klein %q: %w", name, kernel.ErrUnknownParam)
	}
	return v.opacity, nil
}

// SetParam restyles the surface in place; the spin carries on.
func (v *Klein) SetParam(name string, val float64) error {
	if name != OpacityParam.Name {
		return fmt.Errorf("klein %q: %w", name, kernel.ErrUnknownParam)
	}
	v.opacity = math.Round(OpacityParam.Clamp(val)*100) / 100
	if !v.initialized || v.inert {
		return nil
	}
	v.scene.Restyle(0, v.trace())
	v.draw(v.theme)
	return nil
}

func (v *Klein) Repaint(theme viz.Theme) {
	v.theme = theme
	if v.initialized && !v.inert {
		v.draw(theme)
	}
}

func (v *Klein) Status(now time.Time) hud.Status {
	if v.m.Paused() {
		detail := "Drag to explore"
		if v.m.Manual() {
			detail = "Paused"
		}
		return hud.Status{Label: "PAUSED", Detail: detail, Caption: kleinCaption, Fade: 1, Paused: true}
	}
	turn := math.Mod(v.angle, 2*math.Pi) / (2 * math.Pi)
	return hud.Status{
		Label:   "ROTATING",
		Fill:    turn,
		Detail:  fmt.Sprintf("%d°", int(math.Round(turn*360))),
		Caption: kleinCaption,
		Fade:    1,
	}
}
