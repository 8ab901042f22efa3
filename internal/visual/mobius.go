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

var (
	TwistsParam = kernel.Param{Name: "twists", Min: 1, Max: 5, Step: 1, Default: 1}
	WidthParam  = kernel.Param{Name: "width", Min: 0.1, Max: 0.8, Step: 0.05, Default: 0.4}
)

const (
	mobiusDraw    = 120
	mobiusOrbit   = 200
	mobiusOpacity = 0.92
)

var mobiusCaptions = hud.Captions{
	{At: 0.00, Text: "Building the strip from the first cross-section..."},
	{At: 0.20, Text: "The surface curves through 3D space as u sweeps around"},
	{At: 0.45, Text: "Halfway around. The cross-section has rotated 90°"},
	{At: 0.70, Text: `Almost closed. Notice how "top" connects to "bottom"`},
	{At: 0.95, Text: "The half-twist is complete. One side, one edge"},
	{At: 1.00, Text: ""},
}

const (
	mobiusOrbitCaption = "Drag to look around, or adjust sliders to explore"
	mobiusDoneCaption  = "Adjust sliders to explore, or press reset to replay"
)

type MobiusOptions struct {
	Twists    int
	HalfWidth float64
}

func DefaultMobiusOptions() MobiusOptions {
	return MobiusOptions{Twists: int(TwistsParam.Default), HalfWidth: WidthParam.Default}
}

// Mobius sweeps the strip into existence slice by slice, then orbits it.
// Partial surfaces are computed per tick rather than cached.
type Mobius struct {
	lifecycle
	scene3d

	m      *anim.Machine
	twists int
	width  float64
	angle  float64
	fader  hud.Fader
}

func NewMobius(env *Env, opts MobiusOptions) *Mobius {
	v := &Mobius{
		twists: int(TwistsParam.Clamp(float64(opts.Twists))),
		width:  WidthParam.Clamp(opts.HalfWidth),
	}
	v.m = anim.NewMachine(
		anim.Phase{Name: PhaseDraw, Budget: mobiusDraw},
		anim.Phase{Name: PhaseOrbit, Budget: mobiusOrbit},
		anim.Phase{Name: PhaseDone},
	)
	v.bind("mobius", deps.Scene3D, env, v)
	return v
}

func (v *Mobius) Machine() *anim.Machine { return v.m }

func (v *Mobius) setup(ctx context.Context) error {
	v.scene = viz.NewScene(viz.Trace{Kind: viz.Surface})
	v.pin()
	v.mount(v.size)
	v.restart()
	return nil
}

// pin fixes the scene box to the finished strip.
func (v *Mobius) pin() {
	lo, hi := viz.GridBounds(kernel.Mobius(v.twists, v.width, 2*math.Pi))
	v.scene.SetBounds(lo, hi)
}

func (v *Mobius) surface(uMax float64) {
	v.scene.Restyle(0, viz.Trace{
		Kind:    viz.Surface,
		Grid:    kernel.Mobius(v.twists, v.width, uMax),
		Scale:   kernel.Twilight,
		Opacity: mobiusOpacity,
	})
}

func (v *Mobius) drawEye(progress float64) viz.CameraState {
	return viz.Eye(1.2*math.Cos(v.angle), 1.2*math.Sin(v.angle), 2.8-0.6*progress)
}

func (v *Mobius) orbitEye() viz.CameraState {
	return viz.Eye(1.2*math.Cos(v.angle), 1.0*math.Sin(v.angle), 2.0+0.2*math.Sin(2*v.angle))
}

func (v *Mobius) restart() {
	v.m.Reset()
	v.angle = 0
	v.surface(0.01)
	viz.UpdateCamera(v.scene, v.drawEye(0))
	v.fader.Set(mobiusCaptions.Select(0), v.env.Clock.Now())
	v.draw(v.theme)
}

func (v *Mobius) Tick(now time.Time) {
	if !v.ticking() {
		return
	}
	v.m.Poll(now)
	from := v.m.Phase().Name
	if !v.m.Advance() {
		return
	}
	switch from {
	case PhaseDraw:
		progress := 1.0
		if v.m.Is(PhaseDraw) {
			progress = v.m.Progress()
		}
		v.surface(math.Max(progress*2*math.Pi, 0.01))
		v.angle += 0.004
		viz.UpdateCamera(v.scene, v.drawEye(progress))
		if v.m.Is(PhaseDraw) {
			v.fader.Set(mobiusCaptions.Select(progress), now)
		} else {
			v.fader.Set(mobiusOrbitCaption, now)
		}
	case PhaseOrbit:
		v.angle += 2 * math.Pi / mobiusOrbit
		viz.UpdateCamera(v.scene, v.orbitEye())
		if v.m.Done() {
			v.fader.Set(mobiusDoneCaption, now)
		}
	}
	v.draw(v.theme)
}

func (v *Mobius) halted() { v.m.CancelAutoResume() }

func (v *Mobius) resized() {
	v.mount(v.size)
	v.draw(v.theme)
}

func (v *Mobius) resumed(now time.Time) { v.m.RearmAutoResume(now) }

func (v *Mobius) TogglePause() {
	if v.m.Done() {
		return
	}
	v.m.TogglePause()
}

func (v *Mobius) Interact(now time.Time) { v.m.InteractionPause(now) }

func (v *Mobius) Skip() {
	if !v.initialized || v.inert || v.m.Done() {
		return
	}
	now := v.env.Clock.Now()
	if v.m.Is(PhaseDraw) {
		v.m.Skip()
		v.surface(2 * math.Pi)
		v.fader.Set(mobiusOrbitCaption, now)
	} else {
		v.m.Skip()
		v.fader.Set(mobiusDoneCaption, now)
	}
	v.draw(v.theme)
}

func (v *Mobius) Reset() {
	if !v.initialized || v.inert {
		return
	}
	v.restart()
}

func (v *Mobius) AdjustParameter(dir int) {
	_ = v.SetParam(TwistsParam.Name, TwistsParam.Nudge(float64(v.twists), dir))
}

func (v *Mobius) Params() []kernel.Param { return []kernel.Param{TwistsParam, WidthParam} }

func (v *Mobius) Param(name string) (float64, error) {
	switch name {
	case TwistsParam.Name:
		return float64(v.twists), nil
	case WidthParam.Name:
		return v.width, nil
	}
	return 0, fmt.Errorf("mobius %q: %w", name, kernel.ErrUnknownParam)
}

// SetParam rebuilds the full strip and jumps to the finished view.
func (v *Mobius) SetParam(name string, val float64) error {
	switch name {
	case TwistsParam.Name:
		v.twists = int(math.Round(TwistsParam.Clamp(val)))
	case WidthParam.Name:
		v.width = WidthParam.Clamp(val)
	default:
		return fmt.Errorf("mobius %q: %w", name, kernel.ErrUnknownParam)
	}
	if !v.initialized || v.inert {
		return nil
	}
	v.pin()
	v.surface(2 * math.Pi)
	unpause(v.m)
	v.m.JumpTo(PhaseDone)
	v.fader.Set(TwistCaption(v.twists, v.width), v.env.Clock.Now())
	v.draw(v.theme)
	return nil
}

// TwistCaption describes the strip after a slider change.
func TwistCaption(twists int, width float64) string {
	label := "half-twists"
	if twists == 1 {
		label = "half-twist"
	}
	return fmt.Sprintf("%d %s, width %.2f. Drag to explore", twists, label, width)
}

func (v *Mobius) Repaint(theme viz.Theme) {
	v.theme = theme
	if v.initialized && !v.inert {
		v.draw(theme)
	}
}

func (v *Mobius) Status(now time.Time) hud.Status {
	caption, fade := v.fader.Text(now)
	var st hud.Status
	switch {
	case v.m.Paused():
		st = hud.Paused(v.m.Manual(), v.m.ResumeIn(now), v.m.Progress())
	case v.m.Is(PhaseDraw):
		slices := min(int(math.Round(v.m.Progress()*kernel.MobiusUSteps)), kernel.MobiusUSteps)
		st = hud.Status{
			Label:  "DRAWING",
			Fill:   v.m.Progress(),
			Detail: fmt.Sprintf("%d / %d slices", slices, kernel.MobiusUSteps),
		}
	case v.m.Is(PhaseOrbit):
		st = hud.Status{
			Label:  "ORBITING",
			Fill:   v.m.Progress(),
			Detail: fmt.Sprintf("%d° / 360°", int(math.Round(v.m.Progress()*360))),
		}
	default:
		st = hud.Status{Label: "COMPLETE", Fill: 1, Detail: "Adjust sliders or reset to replay"}
	}
	st.Caption, st.Fade = caption, fade
	return st
}
