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
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/viz"
)

var DepthParam = kernel.Param{Name: "depth", Min: 0, Max: 8, Step: 1, Default: 7}

const (
	SierpinskiW   = 800
	SierpinskiH   = 700
	sierpinskiPad = 40

	FramesPerDepth = 90
	ChaosTotal     = 50000
	ChaosBatch     = 100

	MethodRecursive = "recursive"
	MethodChaos     = "chaos"

	PhaseBuilding = "building"
	PhasePlotting = "plotting"
	PhaseComplete = "complete"
)

var recursiveCaptions = hud.Captions{
	{At: 0, Text: "A single filled triangle, the starting point"},
	{At: 1, Text: "Remove the middle quarter, leaving three copies"},
	{At: 2, Text: "Each copy gets the same treatment. Nine triangles remain"},
	{At: 3, Text: "The pattern repeats at every scale"},
	{At: 5, Text: "Self-similarity emerges. Zoom into any corner and see the whole"},
	{At: 7, Text: "The fractal takes shape. Dimension 1.585"},
}

// chaosCaptions are keyed by points plotted.
var chaosCaptions = hud.Captions{
	{At: 0, Text: "Random points begin to cluster..."},
	{At: 500, Text: "The triangle emerges from apparent randomness"},
	{At: 5000, Text: "Thousands of points. The fractal structure is unmistakable"},
}

const (
	recursiveDoneCaption = "Complete! Adjust depth or switch to the chaos game"
	depthZeroCaption     = "Depth 0: just the base triangle"
	chaosStartCaption    = "Starting the chaos game..."
	chaosDoneCaption     = "Complete! 50,000 random steps reveal a fractal pattern"
)

type SierpinskiOptions struct {
	Depth  int
	Method string
}

func DefaultSierpinskiOptions() SierpinskiOptions {
	return SierpinskiOptions{Depth: int(DepthParam.Default), Method: MethodRecursive}
}

// Sierpinski draws the triangle either by removing middle triangles level
// by level or by playing the chaos game in batches.
type Sierpinski struct {
	lifecycle
	rasterSurface

	m       *anim.Machine
	method  string
	depth   int
	shown   int
	tri     kernel.Triangle
	removed [][]kernel.Triangle
	sampler *kernel.ChaosSampler
	points  []kernel.Point
	runs    uint64
	fader   hud.Fader
}

func NewSierpinski(env *Env, opts SierpinskiOptions) *Sierpinski {
	v := &Sierpinski{
		depth:  int(DepthParam.Clamp(float64(opts.Depth))),
		method: opts.Method,
		tri:    kernel.Equilateral(SierpinskiW, SierpinskiH, sierpinskiPad),
	}
	if v.method != MethodChaos {
		v.method = MethodRecursive
	}
	v.bind("sierpinski", deps.Raster, env, v)
	return v
}

func (v *Sierpinski) Machine() *anim.Machine { return v.m }
func (v *Sierpinski) Mode() string           { return v.method }

// Shown is the deepest removal level currently drawn.
func (v *Sierpinski) Shown() int { return v.shown }

func (v *Sierpinski) Points() []kernel.Point { return v.points }

// Triangle is the outer triangle in raster coordinates.
func (v *Sierpinski) Triangle() kernel.Triangle { return v.tri }

// Removed lists the middle triangles removed at each level.
func (v *Sierpinski) Removed() [][]kernel.Triangle { return v.removed }

func (v *Sierpinski) setup(ctx context.Context) error {
	v.raster = viz.NewRaster(SierpinskiW, SierpinskiH)
	v.cellSize = v.lifecycle.size
	v.start()
	return nil
}

func (v *Sierpinski) colors() (bg, accent color.RGBA) {
	return viz.RGBA(v.theme.Background), viz.RGBA(v.theme.Accent)
}

func (v *Sierpinski) start() {
	now := v.env.Clock.Now()
	if v.method == MethodChaos {
		v.m = anim.NewMachine(
			anim.Phase{Name: PhasePlotting, Budget: ChaosTotal / ChaosBatch},
			anim.Phase{Name: PhaseComplete},
		)
		v.runs++
		v.sampler = kernel.NewChaosSampler(v.tri, ChaosTotal, v.env.Seed+v.runs)
		v.points = v.points[:0]
		v.paintChaos()
		v.fader.Set(chaosStartCaption, now)
		return
	}
	v.m = anim.NewMachine(
		anim.Phase{Name: PhaseBuilding, Budget: v.depth * FramesPerDepth},
		anim.Phase{Name: PhaseComplete},
	)
	v.removed = kernel.RemovedTriangles(v.tri, v.depth)
	v.shown = 0
	v.paintRecursive()
	v.fader.Set(recursiveCaptions.Select(0), now)
	if v.depth == 0 {
		v.m.JumpTo(PhaseComplete)
		v.fader.Set(depthZeroCaption, now)
	}
}

func (v *Sierpinski) paintRecursive() {
	bg, accent := v.colors()
	v.raster.Fill(bg)
	v.raster.FillTriangle(v.tri, accent)
	for d := 1; d <= v.shown && d < len(v.removed); d++ {
		for _, t := range v.removed[d] {
			v.raster.FillTriangle(t, bg)
		}
	}
	v.flush()
}

func (v *Sierpinski) paintChaos() {
	bg, accent := v.colors()
	v.raster.Fill(bg)
	v.plot(v.points, accent)
	v.flush()
}

func (v *Sierpinski) plot(pts []kernel.Point, c color.RGBA) {
	for _, p := range pts {
		v.raster.Set(int(math.Floor(p.X)), int(math.Floor(p.Y)), c)
	}
}

func (v *Sierpinski) plotBatch(pts []kernel.Point) {
	_, accent := v.colors()
	v.points = append(v.points, pts...)
	v.plot(pts, accent)
	v.flush()
}

func (v *Sierpinski) Tick(now time.Time) {
	if !v.ticking() {
		return
	}
	v.m.Poll(now)
	if !v.m.Advance() {
		return
	}
	if v.method == MethodChaos {
		v.plotBatch(v.sampler.Next(ChaosBatch))
		if v.m.Done() {
			v.fader.Set(chaosDoneCaption, now)
		} else {
			v.fader.Set(chaosCaptions.Select(float64(len(v.points))), now)
		}
		return
	}
	depth := v.m.Frame() / FramesPerDepth
	if v.m.Done() {
		depth = v.depth
	}
	if depth > v.shown {
		v.shown = depth
		v.paintRecursive()
		v.fader.Set(recursiveCaptions.Select(float64(depth)), now)
	}
	if v.m.Done() {
		v.fader.Set(recursiveDoneCaption, now)
	}
}

func (v *Sierpinski) halted() { v.m.CancelAutoResume() }

func (v *Sierpinski) resized() {
	v.cellSize = v.lifecycle.size
	v.flush()
}

func (v *Sierpinski) resumed(now time.Time) { v.m.RearmAutoResume(now) }

func (v *Sierpinski) TogglePause() {
	if v.m == nil || v.m.Done() {
		return
	}
	v.m.TogglePause()
}

// Skip fast-forwards to the finished figure.
func (v *Sierpinski) Skip() {
	if !v.initialized || v.inert || v.m.Done() {
		return
	}
	now := v.env.Clock.Now()
	v.m.Skip()
	if v.method == MethodChaos {
		v.plotBatch(v.sampler.Finish())
		v.fader.Set(chaosDoneCaption, now)
		return
	}
	v.shown = v.depth
	v.paintRecursive()
	v.fader.Set(recursiveDoneCaption, now)
}

func (v *Sierpinski) Reset() {
	if !v.initialized || v.inert {
		return
	}
	v.theme = viz.CurrentTheme()
	v.start()
}

// CycleMode switches between the recursive build and the chaos game and
// starts over.
func (v *Sierpinski) CycleMode() {
	if v.method == MethodRecursive {
		v.method = MethodChaos
	} else {
		v.method = MethodRecursive
	}
	if v.initialized && !v.inert {
		v.start()
	}
}

func (v *Sierpinski) AdjustParameter(dir int) {
	_ = v.SetParam(DepthParam.Name, DepthParam.Nudge(float64(v.depth), dir))
}

func (v *Sierpinski) Params() []kernel.Param { return []kernel.Param{DepthParam} }

func (v *Sierpinski) Param(name string) (float64, error) {
	if name != DepthParam.Name {
		return 0, fmt.Errorf("sierpinski %q: %w", name, kernel.ErrUnknownParam)
	}
	return float64(v.depth), nil
}

// SetParam changes the target depth. The recursive build restarts from
// frame 0; the chaos game keeps going since depth does not affect it.
func (v *Sierpinski) SetParam(name string, val float64) error {
	if name != DepthParam.Name {
		return fmt.Errorf("sierpinski %q: %w", name, kernel.ErrUnknownParam)
	}
	v.depth = int(math.Round(DepthParam.Clamp(val)))
	if v.initialized && !v.inert && v.method == MethodRecursive {
		v.start()
	}
	return nil
}

func (v *Sierpinski) Repaint(theme viz.Theme) {
	v.theme = theme
	if !v.initialized || v.inert {
		return
	}
	if v.method == MethodChaos {
		v.paintChaos()
	} else {
		v.paintRecursive()
	}
}

func (v *Sierpinski) Status(now time.Time) hud.Status {
	caption, fade := v.fader.Text(now)
	var st hud.Status
	switch {
	case v.m == nil:
		st = hud.Status{Label: "LOADING"}
	case v.m.Paused():
		st = hud.Paused(v.m.Manual(), v.m.ResumeIn(now), v.fill())
	case v.m.Done() && v.method == MethodChaos:
		st = hud.Status{Label: "COMPLETE", Fill: 1, Detail: hud.Count(ChaosTotal) + " points plotted"}
	case v.m.Done():
		st = hud.Status{
			Label:  "COMPLETE",
			Fill:   1,
			Detail: fmt.Sprintf("%s triangles at depth %d", hud.Count(kernel.CornerCount(v.depth)), v.depth),
		}
	case v.method == MethodChaos:
		st = hud.Status{
			Label:  "PLOTTING",
			Fill:   v.fill(),
			Detail: fmt.Sprintf("%s / %s points", hud.Count(len(v.points)), hud.Count(ChaosTotal)),
		}
	default:
		st = hud.Status{
			Label:  "BUILDING",
			Fill:   v.fill(),
			Detail: fmt.Sprintf("Depth %d / %d", v.shown, v.depth),
		}
	}
	st.Caption, st.Fade = caption, fade
	return st
}

func (v *Sierpinski) fill() float64 {
	if v.method == MethodChaos {
		return float64(len(v.points)) / ChaosTotal
	}
	if v.depth == 0 {
		return 1
	}
	return float64(v.shown) / float64(v.depth)
}
