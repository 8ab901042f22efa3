package viz

import (
	"image/color"
	"math"
	"sort"

	"github.com/san-kum/mathviz/internal/kernel"
)

// FOV is the vertical field of view of every projection.
const FOV = math.Pi / 4

const near = 0.05

// Projector maps normalized scene points to screen pixels for one camera.
type Projector struct {
	eye, right, up, fwd kernel.Vec3
	W, H                int
	focal               float64
}

func NewProjector(cam CameraState, w, h int) Projector {
	fwd := cam.Center.Sub(cam.Eye).Normalize()
	up := cam.Up
	if up.Length() == 0 {
		up = DefaultUp
	}
	right := fwd.Cross(up).Normalize()
	if right.Length() == 0 {
		// looking straight along up
		right = kernel.Vec3{X: 1}
	}
	minDim := float64(min(w, h))
	return Projector{
		eye:   cam.Eye,
		right: right,
		up:    right.Cross(fwd),
		fwd:   fwd,
		W:     w,
		H:     h,
		focal: minDim / (2 * math.Tan(FOV/2)),
	}
}

// Project returns screen coordinates and view depth. ok is false for points
// behind the near plane.
func (p Projector) Project(v kernel.Vec3) (x, y, depth float64, ok bool) {
	d := v.Sub(p.eye)
	depth = d.Dot(p.fwd)
	if depth <= near {
		return 0, 0, 0, false
	}
	x = float64(p.W)/2 + d.Dot(p.right)/depth*p.focal
	y = float64(p.H)/2 - d.Dot(p.up)/depth*p.focal
	return x, y, depth, true
}

// Segment is a projected line; a zero-length segment is a point.
type Segment struct {
	X1, Y1, X2, Y2 float64
	Depth          float64
	Color          color.RGBA
}

// ProjectScene flattens the scene into depth-sorted segments, farthest
// first, so drawing in order paints near geometry over far geometry.
func ProjectScene(s *Scene, w, h int, theme Theme) []Segment {
	pr := NewProjector(s.Camera, w, h)
	segs := make([]Segment, 0, 1024)
	Walk(s, theme, func(a, b kernel.Vec3, c color.RGBA, frame bool) {
		x1, y1, d1, ok1 := pr.Project(a)
		x2, y2, d2, ok2 := pr.Project(b)
		if !ok1 || !ok2 {
			return
		}
		depth := (d1 + d2) / 2
		if frame {
			// push the frame behind all data at equal depth
			depth = math.Max(d1, d2) + 4
		}
		segs = append(segs, Segment{x1, y1, x2, y2, depth, c})
	})
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Depth > segs[j].Depth })
	return segs
}

// Walk calls fn for every segment of the scene in normalized coordinates,
// the axis box first with frame set. A point arrives as a zero-length
// segment.
func Walk(s *Scene, theme Theme, fn func(a, b kernel.Vec3, c color.RGBA, frame bool)) {
	bg := RGBA(theme.Background)
	add := func(a, b kernel.Vec3, c color.RGBA) {
		fn(s.Normalize(a), s.Normalize(b), c, false)
	}
	walkBox(theme, fn)

	for _, t := range s.Traces {
		if t.Hidden {
			continue
		}
		op := t.Opacity
		if op == 0 {
			op = 1
		}
		switch t.Kind {
		case Line:
			for i := 1; i < len(t.Points); i++ {
				add(t.Points[i-1], t.Points[i], Blend(bg, pointColor(t, i), op))
			}
			if len(t.Points) == 1 {
				add(t.Points[0], t.Points[0], Blend(bg, pointColor(t, 0), op))
			}
		case Markers:
			for i, p := range t.Points {
				add(p, p, Blend(bg, pointColor(t, i), op))
			}
		case Surface:
			zlo, zhi := s.ZRange()
			shade := func(a, b kernel.Vec3) color.RGBA {
				z := (a.Z + b.Z) / 2
				f := 0.0
				if zhi > zlo {
					f = (z - zlo) / (zhi - zlo)
				}
				return Blend(bg, t.Scale.At(f).RGBA(), op)
			}
			for i, row := range t.Grid {
				for j, p := range row {
					if j > 0 {
						add(row[j-1], p, shade(row[j-1], p))
					}
					if i > 0 && j < len(t.Grid[i-1]) {
						add(t.Grid[i-1][j], p, shade(t.Grid[i-1][j], p))
					}
				}
			}
		}
	}
}

// walkBox emits the axis box in the grid colour and the zero lines through
// the centre in the zero-line colour.
func walkBox(theme Theme, fn func(a, b kernel.Vec3, c color.RGBA, frame bool)) {
	grid, zero := RGBA(theme.Grid), RGBA(theme.ZeroLine)
	c := []kernel.Vec3{
		{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
	}
	for i := range c {
		fn(c[i], c[(i+1)%4], grid, true)
	}
	fn(kernel.Vec3{X: -1, Z: -1}, kernel.Vec3{X: 1, Z: -1}, zero, true)
	fn(kernel.Vec3{Y: -1, Z: -1}, kernel.Vec3{Y: 1, Z: -1}, zero, true)
}

func pointColor(t Trace, i int) color.RGBA {
	if i < len(t.Colors) {
		return t.Colors[i]
	}
	return color.RGBA{255, 255, 255, 255}
}

// Blend mixes c over bg at the given opacity.
func Blend(bg, c color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return c
	}
	mix := func(a, b uint8) uint8 { return uint8(math.Round(float64(a) + (float64(b)-float64(a))*opacity)) }
	return color.RGBA{mix(bg.R, c.R), mix(bg.G, c.G), mix(bg.B, c.B), 255}
}

// DrawScene renders the scene onto the braille canvas.
func DrawScene(c *Canvas, s *Scene, theme Theme) {
	if c == nil || s == nil {
		return
	}
	c.Clear()
	for _, seg := range ProjectScene(s, c.DotsW(), c.DotsH(), theme) {
		x1, y1 := int(math.Round(seg.X1)), int(math.Round(seg.Y1))
		x2, y2 := int(math.Round(seg.X2)), int(math.Round(seg.Y2))
		if !onScreen(x1, y1, c) && !onScreen(x2, y2, c) || !nearScreen(x1, y1, c) || !nearScreen(x2, y2, c) {
			continue
		}
		if x1 == x2 && y1 == y2 {
			c.SetColor(x1, y1, seg.Color)
			continue
		}
		c.DrawLine(x1, y1, x2, y2, seg.Color)
	}
}

func onScreen(x, y int, c *Canvas) bool {
	return x >= 0 && y >= 0 && x < c.DotsW() && y < c.DotsH()
}

// nearScreen bounds line rasterization for points projected far outside.
func nearScreen(x, y int, c *Canvas) bool {
	w, h := c.DotsW(), c.DotsH()
	return x > -w && y > -h && x < 2*w && y < 2*h
}
