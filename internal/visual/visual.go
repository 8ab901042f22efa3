// Package visual implements the five visualizations behind one lifecycle
// contract. Optional interactions are separate interfaces; callers check
// them with Supports before dispatching.
package visual

import (
	"context"
	"image"
	"time"

	"github.com/san-kum/mathviz/internal/hud"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/viz"
)

// Visualization is the contract every view satisfies.
type Visualization interface {
	Name() string
	// Init performs setup once; later calls are no-ops. A library that is
	// still loading defers setup and returns an error matching
	// kernel.ErrMissingDependency.
	Init(ctx context.Context) error
	// Pause stops ticking and cancels any pending auto-resume.
	Pause()
	// Resume initializes a view that was never set up, or continues from
	// the preserved frame after resyncing the surface size.
	Resume(ctx context.Context) error
	Tick(now time.Time)
	Active() bool
	Status(now time.Time) hud.Status
}

type Toggler interface{ TogglePause() }

type Resetter interface{ Reset() }

type Skipper interface{ Skip() }

// Adjuster nudges the primary parameter by one step.
type Adjuster interface{ AdjustParameter(dir int) }

// Interactor receives pointer-down on the surface.
type Interactor interface{ Interact(now time.Time) }

type Parametric interface {
	Params() []kernel.Param
	Param(name string) (float64, error)
	SetParam(name string, v float64) error
}

type Repainter interface{ Repaint(theme viz.Theme) }

// Clicker receives a click at normalized surface coordinates in [0, 1].
type Clicker interface{ Click(x, y float64) }

// Cycler switches mode: drawing method or palette.
type Cycler interface {
	CycleMode()
	Mode() string
}

type Zoomer interface{ ZoomOut() }

// Deferred is implemented by views whose Init can wait on a library.
type Deferred interface {
	Ready() <-chan struct{}
	RetryInit(ctx context.Context) error
}

// Resyncer follows a surface size change in place.
type Resyncer interface {
	Resync(ctx context.Context) error
}

// SceneView exposes the retained 3D surface and its terminal canvas.
type SceneView interface {
	Scene() *viz.Scene
	Canvas() *viz.Canvas
}

// RasterView exposes the pixel surface and its terminal cell image.
type RasterView interface {
	Raster() *viz.Raster
	Cells() *image.RGBA
}

type Capability int

const (
	CapTogglePause Capability = iota
	CapReset
	CapSkip
	CapAdjust
	CapInteract
	CapParams
	CapRepaint
	CapClick
	CapCycle
	CapZoomOut
)

// AllCapabilities in display order.
var AllCapabilities = []Capability{
	CapTogglePause, CapReset, CapSkip, CapAdjust, CapInteract,
	CapParams, CapRepaint, CapClick, CapCycle, CapZoomOut,
}

func (c Capability) String() string {
	switch c {
	case CapTogglePause:
		return "pause"
	case CapReset:
		return "reset"
	case CapSkip:
		return "skip"
	case CapAdjust:
		return "adjust"
	case CapInteract:
		return "interact"
	case CapParams:
		return "params"
	case CapRepaint:
		return "repaint"
	case CapClick:
		return "click"
	case CapCycle:
		return "cycle"
	case CapZoomOut:
		return "zoom-out"
	}
	return "unknown"
}

// Supports reports whether v offers capability c.
func Supports(v Visualization, c Capability) bool {
	var ok bool
	switch c {
	case CapTogglePause:
		_, ok = v.(Toggler)
	case CapReset:
		_, ok = v.(Resetter)
	case CapSkip:
		_, ok = v.(Skipper)
	case CapAdjust:
		_, ok = v.(Adjuster)
	case CapInteract:
		_, ok = v.(Interactor)
	case CapParams:
		_, ok = v.(Parametric)
	case CapRepaint:
		_, ok = v.(Repainter)
	case CapClick:
		_, ok = v.(Clicker)
	case CapCycle:
		_, ok = v.(Cycler)
	case CapZoomOut:
		_, ok = v.(Zoomer)
	}
	return ok
}

// Capabilities lists what v supports.
func Capabilities(v Visualization) []Capability {
	var out []Capability
	for _, c := range AllCapabilities {
		if Supports(v, c) {
			out = append(out, c)
		}
	}
	return out
}
