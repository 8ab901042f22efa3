package kernel

import "math"

// Escape iterates z ← z² + c from z = 0 until |z|² > 4 or maxIter is
// reached. It returns the iteration count and the final |z|². An iteration
// count equal to maxIter means c did not escape.
func Escape(cr, ci float64, maxIter int) (iter int, mag2 float64) {
	var x, y, xx, yy float64
	for xx+yy <= 4 && iter < maxIter {
		y = 2*x*y + ci
		x = xx - yy + cr
		xx, yy = x*x, y*y
		iter++
	}
	return iter, xx + yy
}

// Smooth maps an escaped point to [0, 1) using continuous renormalization,
// then folds it eight times so colour bands repeat across the boundary.
func Smooth(iter int, mag2 float64, maxIter int) float64 {
	nu := math.Log(math.Log(math.Sqrt(mag2))/math.Ln2) / math.Ln2
	t := (float64(iter) + 1 - nu) / float64(maxIter)
	t = math.Max(0, math.Min(1, t))
	return math.Mod(t*8, 1)
}

// Viewport maps raster pixels to the complex plane.
type Viewport struct {
	CenterX, CenterY float64
	Zoom             float64
	W, H             int
}

func (v Viewport) ToPlane(px, py float64) (re, im float64) {
	return v.CenterX + (px-float64(v.W)/2)/v.Zoom, v.CenterY + (py-float64(v.H)/2)/v.Zoom
}

// ZoomAt recentres on pixel (px, py) and multiplies zoom by factor.
func (v Viewport) ZoomAt(px, py, factor float64) Viewport {
	v.CenterX, v.CenterY = v.ToPlane(px, py)
	v.Zoom *= factor
	return v
}

// RowBatch is the number of rows rendered per tick: a twentieth of the
// height, rounded up.
func (v Viewport) RowBatch() int {
	return (v.H + 19) / 20
}

// EscapeRows fills rows [y0, y1) of an RGBA byte buffer laid out with the
// given stride. Rows are split across goroutines.
func EscapeRows(v Viewport, maxIter int, pal Palette, pix []uint8, stride, y0, y1 int) {
	if y1 > v.H {
		y1 = v.H
	}
	ParallelFor(y1-y0, 8, func(start, end int) {
		for py := y0 + start; py < y0+end; py++ {
			row := pix[py*stride:]
			for px := 0; px < v.W; px++ {
				cr, ci := v.ToPlane(float64(px), float64(py))
				iter, mag2 := Escape(cr, ci, maxIter)
				var c RGB
				if iter < maxIter {
					c = pal(Smooth(iter, mag2, maxIter))
				}
				i := px * 4
				row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, 255
			}
		}
	})
}
