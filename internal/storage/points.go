package storage

import (
	"github.com/san-kum/mathviz/internal/visual"
)

// Points flattens the data behind a view into CSV columns.
func Points(v visual.Visualization) (header []string, rows [][]float64) {
	switch x := v.(type) {
	case *visual.Lorenz:
		header = []string{"x", "y", "z", "color"}
		for _, s := range x.Trajectory() {
			rows = append(rows, []float64{s.Pos.X, s.Pos.Y, s.Pos.Z, s.Color})
		}
	case *visual.Sierpinski:
		if x.Mode() == visual.MethodChaos {
			header = []string{"x", "y"}
			for _, p := range x.Points() {
				rows = append(rows, []float64{p.X, p.Y})
			}
			return header, rows
		}
		header = []string{"level", "ax", "ay", "bx", "by", "cx", "cy"}
		t := x.Triangle()
		rows = append(rows, []float64{0, t.A.X, t.A.Y, t.B.X, t.B.Y, t.C.X, t.C.Y})
		for level, tris := range x.Removed() {
			for _, t := range tris {
				rows = append(rows, []float64{float64(level), t.A.X, t.A.Y, t.B.X, t.B.Y, t.C.X, t.C.Y})
			}
		}
	case *visual.Mandelbrot:
		vp := x.Viewport()
		iter, _ := x.Param(visual.MaxIterParam.Name)
		header = []string{"re", "im", "zoom", "max_iter", "width", "height"}
		rows = append(rows, []float64{vp.CenterX, vp.CenterY, vp.Zoom, iter, float64(vp.W), float64(vp.H)})
	case visual.SceneView:
		header = []string{"i", "j", "x", "y", "z"}
		if x.Scene() == nil || len(x.Scene().Traces) == 0 {
			return header, nil
		}
		for i, row := range x.Scene().Traces[0].Grid {
			for j, p := range row {
				rows = append(rows, []float64{float64(i), float64(j), p.X, p.Y, p.Z})
			}
		}
	}
	return header, rows
}
