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

var MaxIterParam = kernel.Param{Name: "maxIter", Min: 50, Max: 1000, Step: 50, Default: 200}

const (
	MandelbrotW = 800
	MandelbrotH = 600
	MinZoom     = 50

	PhaseRendering = "rendering"

	mandelbrotCaption = "Click to zoom in, press - to zoom out"
)

// DefaultViewport frames the whole set.
var DefaultViewport = kernel.Viewport{CenterX: -0.5, CenterY: 0, Zoom: 200, W: MandelbrotW, H: MandelbrotH}

type MandelbrotOptions struct {
	Viewport kernel.Viewport
	MaxIter  int
	Palette  string
}

func DefaultMandelbrotOptions() MandelbrotOptions {
	return MandelbrotOptions{Viewport: DefaultViewport, MaxIter: int(MaxIterParam.Default), Palette: "inferno"}
}

// Mandelbrot renders the escape-time set a batch of rows per tick.
type Mandelbrot struct {
	lifecycle
	rasterSurface

	m       *anim.Machine
	home    kernel.Viewport
	vp      kernel.Viewport
	maxIter int
	palette string
	row     int
}

func NewMandelbrot(env *Env, opts MandelbrotOptions) *Mandelbrot {
	vp := opts.Viewport
	if vp.W <= 0 || vp.H <= 0 {
		vp.W, vp.H = MandelbrotW, MandelbrotH
	}
	if vp.Zoom <= 0 {
		vp.Zoom = DefaultViewport.Zoom
	}
	v := &Mandelbrot{
		home:    vp,
		vp:      vp,
		maxIter: int(MaxIterParam.Clamp(float64(opts.MaxIter))),
		palette: opts.Palette,
	}
	if !knownPalette(v.palette) {
		v.palette = kernel.PaletteNames[0]
	}
	v.m = anim.NewMachine(
		anim.Phase{Name: PhaseRendering, Budget: v.batches()},
		anim.Phase{Name: PhaseComplete},
	)
	v.bind("mandelbrot", deps.Raster, env, v)
	return v
}

func knownPalette(name string) bool {
	for _, n := range kernel.PaletteNames {
		if n == name {
			return true
		}
	}
	return false
}

func (v *Mandelbrot) batches() int {
	b := v.vp.RowBatch()
	return (v.vp.H + b - 1) / b
}

func (v *Mandelbrot) Machine() *anim.Machine    { return v.m }
func (v *Mandelbrot) Viewport() kernel.Viewport { return v.vp }
func (v *Mandelbrot) Mode() string              { return v.palette }

// Row is the next row to render.
func (v *Mandelbrot) Row() int { return v.row }

func (v *Mandelbrot) setup(ctx context.Context) error {
	v.raster = viz.NewRaster(v.vp.W, v.vp.H)
	v.cellSize = v.lifecycle.size
	v.start()
	return nil
}

// start restarts the render from the top row.
func (v *Mandelbrot) start() {
	v.m.SetBudget(PhaseRendering, v.batches())
	v.m.Reset()
	v.row = 0
	v.raster.Fill(color.RGBA{A: 255})
	v.flush()
}

func (v *Mandelbrot) lookup() kernel.Palette {
	lut := v.env.Tables.Get("palette/" + v.palette)
	if lut == nil {
		return kernel.GetPalette(v.palette)
	}
	return func(t float64) kernel.RGB { return deps.Lookup(lut, t) }
}

func (v *Mandelbrot) renderRows(n int) {
	end := min(v.row+n, v.vp.H)
	back := v.raster.Back()
	kernel.EscapeRows(v.vp, v.maxIter, v.lookup(), back.Pix, back.Stride, v.row, end)
	v.row = end
	v.flush()
}

func (v *Mandelbrot) Tick(now time.Time) {
	if !v.ticking() {
		return
	}
	if !v.m.Advance() {
		return
	}
	v.renderRows(v.vp.RowBatch())
	if v.m.Done() && v.row < v.vp.H {
		v.renderRows(v.vp.H - v.row)
	}
}

func (v *Mandelbrot) halted() {}

func (v *Mandelbrot) resized() {
	v.cellSize = v.lifecycle.size
	v.flush()
}

func (v *Mandelbrot) resumed(time.Time) {}

// Skip finishes every remaining row now.
func (v *Mandelbrot) Skip() {
	if !v.initialized || v.inert || v.m.Done() {
		return
	}
	v.renderRows(v.vp.H - v.row)
	v.m.Skip()
}

func (v *Mandelbrot) Reset() {
	v.vp = v.home
	if v.initialized && !v.inert {
		v.start()
	}
}

// Click zooms in two times around the clicked point.
func (v *Mandelbrot) Click(x, y float64) {
	x, y = hud.Clamp01(x), hud.Clamp01(y)
	v.vp = v.vp.ZoomAt(x*float64(v.vp.W), y*float64(v.vp.H), 2)
	if v.initialized && !v.inert {
		v.start()
	}
}

// ZoomOut halves the zoom around the current centre, never below MinZoom.
func (v *Mandelbrot) ZoomOut() {
	v.vp.Zoom = math.Max(MinZoom, v.vp.Zoom/2)
	if v.initialized && !v.inert {
		v.start()
	}
}

func (v *Mandelbrot) CycleMode() {
	for i, n := range kernel.PaletteNames {
		if n == v.palette {
			v.palette = kernel.PaletteNames[(i+1)%len(kernel.PaletteNames)]
			break
		}
	}
	if v.initialized && !v.inert {
		v.start()
	}
}

func (v *Mandelbrot) AdjustParameter(dir int) {
	_ = v.SetParam(MaxIterParam.Name, MaxIterParam.Nudge(float64(v.maxIter), dir))
}

func (v *Mandelbrot) Params() []kernel.Param { return []kernel.Param{MaxIterParam} }

func (v *Mandelbrot) Param(name string) (float64, error) {
	if name != MaxIterParam.Name {
		return 0, fmt.Errorf("mandelbrot %q: %w", name, kernel.ErrUnknownParam)
	}
	return float64(v.maxIter), nil
}

// SetParam restarts the render with the new iteration cap.
func (v *Mandelbrot) SetParam(name string, val float64) error {
	if name != MaxIterParam.Name {
		return fmt.Errorf("mandelbrot %q: %w", name, kernel.ErrUnknownParam)
	}
	v.maxIter = int(math.Round(MaxIterParam.Clamp(val)))
	if v.initialized && !v.inert {
		v.start()
	}
	return nil
}

// Coords formats a plane position for the HUD.
func Coords(re, im, zoom float64) string {
	return fmt.Sprintf("Re: %.6f  Im: %.6f  Zoom: %.0fx", re, im, zoom)
}

func (v *Mandelbrot) Status(now time.Time) hud.Status {
	st := hud.Status{Caption: mandelbrotCaption, Fade: 1, Extra: Coords(v.vp.CenterX, v.vp.CenterY, v.vp.Zoom)}
	if v.m.Done() {
		st.Label, st.Fill = "COMPLETE", 1
		st.Detail = fmt.Sprintf("%d max iterations", v.maxIter)
		return st
	}
	p := float64(v.row) / float64(v.vp.H)
	st.Label, st.Fill = "RENDERING", p
	st.Detail = fmt.Sprintf("%d%% rendered", int(math.Round(p*100)))
	return st
}
