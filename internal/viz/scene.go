package viz

import (
	"image/color"
	"math"

	"github.com/san-kum/mathviz/internal/kernel"
)

type TraceKind int

const (
	Line TraceKind = iota
	Markers
	Surface
)

// Trace is one drawable in a Scene. Lines and markers use Points with one
// colour per point; surfaces use Grid and colour by height through Scale.
type Trace struct {
	Kind    TraceKind
	Points  []kernel.Vec3
	Colors  []color.RGBA
	Grid    kernel.Grid
	Scale   kernel.Colorscale
	Opacity float64
	Hidden  bool
}

// CameraState is a look-at camera in normalized scene units.
type CameraState struct {
	Eye, Center, Up kernel.Vec3
}

// DefaultUp is the z-up convention shared by every 3D view.
var DefaultUp = kernel.Vec3{Z: 1}

// Eye returns a camera at eye looking at the origin.
func Eye(x, y, z float64) CameraState {
	return CameraState{Eye: kernel.Vec3{X: x, Y: y, Z: z}, Up: DefaultUp}
}

// Surface3D is a retained 3D surface that can always be relaid out.
type Surface3D interface {
	Relayout(cam CameraState)
}

// DirectCamera is implemented by surfaces that can move the camera without a
// full relayout. SetCamera reports false when the fast path is unavailable.
type DirectCamera interface {
	SetCamera(cam CameraState) bool
}

// UpdateCamera moves the camera, preferring the direct path.
func UpdateCamera(s Surface3D, cam CameraState) {
	if d, ok := s.(DirectCamera); ok && d.SetCamera(cam) {
		return
	}
	s.Relayout(cam)
}

// Scene is the terminal's retained 3D surface. Data is normalized into the
// [-1, 1] cube per axis, the same way an autoranged 3D chart fits its box.
type Scene struct {
	Traces []Trace
	Camera CameraState

	lo, hi     kernel.Vec3
	fixed      bool
	laidOut    bool
	relayouts  int
	cameraSets int
}

func NewScene(traces ...Trace) *Scene {
	return &Scene{Traces: traces, Camera: Eye(1.25, 1.25, 1.25)}
}

// SetBounds pins the normalization box. Progressive reveals pin it to the
// full geometry so the view does not rescale while drawing.
func (s *Scene) SetBounds(lo, hi kernel.Vec3) {
	s.lo, s.hi, s.fixed = lo, hi, true
}

// Restyle replaces trace i.
func (s *Scene) Restyle(i int, t Trace) {
	if i < 0 || i >= len(s.Traces) {
		return
	}
	s.Traces[i] = t
	if !s.fixed {
		s.autorange()
	}
}

// Relayout recomputes the layout and applies cam. It also makes the direct
// camera path available.
func (s *Scene) Relayout(cam CameraState) {
	s.Camera = cam
	if !s.fixed {
		s.autorange()
	}
	s.laidOut = true
	s.relayouts++
}

// SetCamera moves the camera without recomputing the layout. It fails until
// the scene has been laid out once.
func (s *Scene) SetCamera(cam CameraState) bool {
	if !s.laidOut {
		return false
	}
	s.Camera = cam
	s.cameraSets++
	return true
}

// Invalidate drops the direct camera path; the next update relays out.
func (s *Scene) Invalidate() { s.laidOut = false }

// Relayouts and CameraSets count how each camera update was served.
func (s *Scene) Relayouts() int  { return s.relayouts }
func (s *Scene) CameraSets() int { return s.cameraSets }

// Normalize maps a data point into the scene cube.
func (s *Scene) Normalize(p kernel.Vec3) kernel.Vec3 {
	return kernel.Vec3{
		X: norm(p.X, s.lo.X, s.hi.X),
		Y: norm(p.Y, s.lo.Y, s.hi.Y),
		Z: norm(p.Z, s.lo.Z, s.hi.Z),
	}
}

// ZRange is the data height range, used for surface colouring.
func (s *Scene) ZRange() (lo, hi float64) { return s.lo.Z, s.hi.Z }

func norm(v, lo, hi float64) float64 {
	if hi-lo < 1e-12 {
		return 0
	}
	return 2*(v-lo)/(hi-lo) - 1
}

func (s *Scene) autorange() {
	lo, hi, ok := Bounds(s.Traces...)
	if ok {
		s.lo, s.hi = lo, hi
	}
}

// Bounds returns the axis-aligned box around every visible trace.
func Bounds(traces ...Trace) (lo, hi kernel.Vec3, ok bool) {
	inf := math.Inf(1)
	lo = kernel.Vec3{X: inf, Y: inf, Z: inf}
	hi = lo.Scale(-1)
	grow := func(p kernel.Vec3) {
		lo = kernel.Vec3{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = kernel.Vec3{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
		ok = true
	}
	for _, t := range traces {
		if t.Hidden {
			continue
		}
		for _, p := range t.Points {
			grow(p)
		}
		for _, row := range t.Grid {
			for _, p := range row {
				grow(p)
			}
		}
	}
	return lo, hi, ok
}

// GridBounds is Bounds for a single surface grid.
func GridBounds(g kernel.Grid) (lo, hi kernel.Vec3) {
	lo, hi, _ = Bounds(Trace{Kind: Surface, Grid: g})
	return lo, hi
}
