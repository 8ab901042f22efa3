package visual

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/deps"
	"github.com/san-kum/mathviz/internal/hud"
	"github.com/san-kum/mathviz/internal/integrators"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/physics"
	"github.com/san-kum/mathviz/internal/viz"
)

const (
	LorenzSteps = 10000
	LorenzDT    = 0.01
	lorenzBatch = 20
	lorenzOrbit = 600
)

// Phase names shared by the progressive-reveal views.
const (
	PhaseDraw  = "draw"
	PhaseOrbit = "orbit"
	PhaseDone  = "done"
)

var lorenzCaptions = hud.Captions{
	{At: 0.00, Text: "Starts from almost nothing, just 0.1 off zero"},
	{At: 0.15, Text: "First spiral forms around one of the fixed points"},
	{At: 0.35, Text: "Jumps to the other side. This is where it gets chaotic"},
	{At: 0.58, Text: "Keeps switching lobes, never tracing the same path twice"},
	{At: 0.82, Text: "The full butterfly: same equations every time, never the same path"},
	{At: 1.00, Text: ""},
}

const (
	lorenzOrbitCaption = "Drag to look around, or hit reset to run it again"
	lorenzDoneCaption  = "Press reset to replay"
)

var leadColor = color.RGBA{0xff, 0xe0, 0xb2, 0xff}

// LorenzOptions seed the attractor parameters.
type LorenzOptions struct {
	Sigma, Rho, Beta float64
	Steps            int
}

func DefaultLorenzOptions() LorenzOptions {
	return LorenzOptions{
		Sigma: physics.SigmaParam.Default,
		Rho:   physics.RhoParam.Default,
		Beta:  physics.BetaParam.Default,
		Steps: LorenzSteps,
	}
}

// Lorenz reveals a precomputed attractor trajectory, then orbits it.
type Lorenz struct {
	lifecycle
	scene3d

	m      *anim.Machine
	sys    *physics.Lorenz
	steps  int
	traj   []kernel.Sample
	colors []color.RGBA
	drawn  int
	angle  float64
	fader  hud.Fader
}

func NewLorenz(env *Env, opts LorenzOptions) *Lorenz {
	if opts.Steps < 2 {
		opts.Steps = LorenzSteps
	}
	l := &Lorenz{sys: physics.NewLorenz(), steps: opts.Steps}
	_ = l.sys.SetParam("sigma", opts.Sigma)
	_ = l.sys.SetParam("rho", opts.Rho)
	_ = l.sys.SetParam("beta", opts.Beta)
	l.m = anim.NewMachine(
		anim.Phase{Name: PhaseDraw, Budget: l.drawBudget()},
		anim.Phase{Name: PhaseOrbit, Budget: lorenzOrbit},
		anim.Phase{Name: PhaseDone},
	)
	l.bind("lorenz", deps.Scene3D, env, l)
	return l
}

// drawBudget is the number of ticks to reveal every point, starting from
// one point and adding a batch per tick.
func (l *Lorenz) drawBudget() int {
	return (l.steps - 1 + lorenzBatch - 1) / lorenzBatch
}

func (l *Lorenz) Machine() *anim.Machine      { return l.m }
func (l *Lorenz) Trajectory() []kernel.Sample { return l.traj }

// Drawn is the number of revealed points.
func (l *Lorenz) Drawn() int { return l.drawn }

func (l *Lorenz) setup(ctx context.Context) error {
	if err := l.compute(); err != nil {
		return err
	}
	l.mount(l.size)
	l.restart()
	return nil
}

func (l *Lorenz) compute() error {
	traj, err := kernel.Trajectory(l.sys, integrators.NewEuler(), l.sys.DefaultState(), LorenzDT, l.steps)
	if err != nil {
		return err
	}
	lut := l.env.Tables.Get("inferno")
	colors := make([]color.RGBA, len(traj))
	pts := make([]kernel.Vec3, len(traj))
	for i, s := range traj {
		colors[i] = deps.Lookup(lut, s.Color).RGBA()
		pts[i] = s.Pos
	}
	l.traj, l.colors = traj, colors
	lo, hi, _ := viz.Bounds(viz.Trace{Kind: viz.Line, Points: pts})
	if l.scene == nil {
		l.scene = viz.NewScene(viz.Trace{Kind: viz.Line}, viz.Trace{Kind: viz.Markers})
	}
	l.scene.SetBounds(lo, hi)
	return nil
}

func (l *Lorenz) reveal(n int) {
	n = max(1, min(n, len(l.traj)))
	l.drawn = n
	pts := make([]kernel.Vec3, n)
	for i := range pts {
		pts[i] = l.traj[i].Pos
	}
	l.scene.Restyle(0, viz.Trace{Kind: viz.Line, Points: pts, Colors: l.colors[:n]})
	tip := l.traj[n-1].Pos
	l.scene.Restyle(1, viz.Trace{
		Kind:   viz.Markers,
		Points: []kernel.Vec3{tip},
		Colors: []color.RGBA{leadColor},
		Hidden: !l.m.Is(PhaseDraw),
	})
}

func (l *Lorenz) drawEye(progress float64) viz.CameraState {
	return viz.Eye(2*math.Cos(l.angle), 2*math.Sin(l.angle), 1.6+(0.7-1.6)*progress)
}

func (l *Lorenz) orbitEye() viz.CameraState {
	return viz.Eye(2.2*math.Cos(l.angle), 1.6*math.Sin(l.angle), 0.7+0.3*math.Sin(2*l.angle))
}

func (l *Lorenz) restart() {
	l.m.Reset()
	l.angle = 0
	l.reveal(1)
	viz.UpdateCamera(l.scene, l.drawEye(0))
	l.fader.Set(lorenzCaptions.Select(0), l.env.Clock.Now())
	l.draw(l.theme)
}

func (l *Lorenz) Tick(now time.Time) {
	if !l.ticking() {
		return
	}
	l.m.Poll(now)
	from := l.m.Phase().Name
	if !l.m.Advance() {
		return
	}
	switch from {
	case PhaseDraw:
		n := 1 + lorenzBatch*l.m.Frame()
		if !l.m.Is(PhaseDraw) {
			n = len(l.traj)
		}
		l.reveal(n)
		progress := float64(l.drawn) / float64(len(l.traj))
		l.angle += 0.003
		viz.UpdateCamera(l.scene, l.drawEye(progress))
		if l.m.Is(PhaseDraw) {
			l.fader.Set(lorenzCaptions.Select(progress), now)
		} else {
			l.fader.Set(lorenzOrbitCaption, now)
		}
	case PhaseOrbit:
		l.angle += 2 * math.Pi / lorenzOrbit
		viz.UpdateCamera(l.scene, l.orbitEye())
		if l.m.Done() {
			l.fader.Set(lorenzDoneCaption, now)
		}
	}
	l.draw(l.theme)
}

func (l *Lorenz) halted() { l.m.CancelAutoResume() }

func (l *Lorenz) resized() {
	l.mount(l.size)
	l.draw(l.theme)
}

func (l *Lorenz) resumed(now time.Time) { l.m.RearmAutoResume(now) }

func (l *Lorenz) TogglePause() {
	if l.m.Done() {
		return
	}
	l.m.TogglePause()
}

func (l *Lorenz) Interact(now time.Time) { l.m.InteractionPause(now) }

func (l *Lorenz) Skip() {
	if !l.initialized || l.inert || l.m.Done() {
		return
	}
	now := l.env.Clock.Now()
	if l.m.Is(PhaseDraw) {
		l.m.Skip()
		l.reveal(len(l.traj))
		l.fader.Set(lorenzOrbitCaption, now)
	} else {
		l.m.Skip()
		l.fader.Set(lorenzDoneCaption, now)
	}
	l.draw(l.theme)
}

func (l *Lorenz) Reset() {
	if !l.initialized || l.inert {
		return
	}
	l.restart()
}

func (l *Lorenz) AdjustParameter(dir int) {
	v, _ := l.Param("rho")
	_ = l.SetParam("rho", physics.RhoParam.Nudge(v, dir))
}

func (l *Lorenz) Params() []kernel.Param {
	return []kernel.Param{physics.SigmaParam, physics.RhoParam, physics.BetaParam}
}

func (l *Lorenz) Param(name string) (float64, error) {
	v, ok := l.sys.GetParams()[name]
	if !ok {
		return 0, fmt.Errorf("lorenz %q: %w", name, kernel.ErrUnknownParam)
	}
	return v, nil
}

// SetParam recomputes the trajectory and jumps straight to the finished
// view with the new geometry.
func (l *Lorenz) SetParam(name string, v float64) error {
	if err := l.sys.SetParam(name, v); err != nil {
		return err
	}
	if !l.initialized || l.inert {
		return nil
	}
	if err := l.compute(); err != nil {
		return err
	}
	unpause(l.m)
	l.m.JumpTo(PhaseDone)
	l.reveal(len(l.traj))
	p := l.sys.GetParams()
	l.fader.Set(fmt.Sprintf("σ=%.1f ρ=%.0f β=%.2f. Drag to explore", p["sigma"], p["rho"], p["beta"]), l.env.Clock.Now())
	l.draw(l.theme)
	return nil
}

func (l *Lorenz) Repaint(theme viz.Theme) {
	l.theme = theme
	if l.initialized && !l.inert {
		l.draw(theme)
	}
}

func (l *Lorenz) Status(now time.Time) hud.Status {
	caption, fade := l.fader.Text(now)
	var st hud.Status
	switch {
	case l.m.Paused():
		st = hud.Paused(l.m.Manual(), l.m.ResumeIn(now), l.fill())
	case l.m.Is(PhaseDraw):
		st = hud.Status{
			Label:  "DRAWING",
			Fill:   l.fill(),
			Detail: fmt.Sprintf("%s / %s points", hud.Count(l.drawn), hud.Count(len(l.traj))),
		}
	case l.m.Is(PhaseOrbit):
		st = hud.Status{
			Label:  "ORBITING",
			Fill:   l.m.Progress(),
			Detail: fmt.Sprintf("%d° / 360°", int(math.Round(l.m.Progress()*360))),
		}
	default:
		st = hud.Status{Label: "COMPLETE", Fill: 1, Detail: "Press reset to replay"}
	}
	st.Caption, st.Fade = caption, fade
	return st
}

func (l *Lorenz) fill() float64 {
	switch {
	case len(l.traj) == 0:
		return 0
	case l.m.Is(PhaseDraw):
		return hud.Clamp01(float64(l.drawn) / float64(len(l.traj)))
	default:
		return l.m.Progress()
	}
}
