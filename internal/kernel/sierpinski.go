package kernel

import "math"

type Triangle struct {
	A, B, C Point
}

// Subdivide returns the removed middle triangle and the three corner
// triangles that recursion continues into.
func (t Triangle) Subdivide() (removed Triangle, corners [3]Triangle) {
	ab, bc, ac := t.A.Mid(t.B), t.B.Mid(t.C), t.A.Mid(t.C)
	removed = Triangle{ab, bc, ac}
	corners = [3]Triangle{
		{t.A, ab, ac},
		{ab, t.B, bc},
		{ac, bc, t.C},
	}
	return removed, corners
}

// Contains reports whether p lies inside or on t, within eps.
func (t Triangle) Contains(p Point, eps float64) bool {
	d1 := edgeSign(p, t.A, t.B)
	d2 := edgeSign(p, t.B, t.C)
	d3 := edgeSign(p, t.C, t.A)
	hasNeg := d1 < -eps || d2 < -eps || d3 < -eps
	hasPos := d1 > eps || d2 > eps || d3 > eps
	return !(hasNeg && hasPos)
}

func edgeSign(p, a, b Point) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}

// Equilateral returns the largest upward equilateral triangle that fits a
// w×h area with the given padding: A on top, B bottom-left, C bottom-right.
func Equilateral(w, h, pad float64) Triangle {
	side := math.Min(w-2*pad, (h-2*pad)*2/math.Sqrt(3))
	height := side * math.Sqrt(3) / 2
	cx := w / 2
	top := (h - height) / 2
	return Triangle{
		A: Point{cx, top},
		B: Point{cx - side/2, top + height},
		C: Point{cx + side/2, top + height},
	}
}

// RemovedTriangles computes the background-coloured triangles removed at
// each level. The result has depth+1 entries; entry 0 is always empty and
// entry k holds the 3^(k-1) triangles removed at level k.
func RemovedTriangles(t Triangle, depth int) [][]Triangle {
	if depth < 0 {
		depth = 0
	}
	levels := make([][]Triangle, depth+1)
	removeLevel(t, 0, depth, levels)
	return levels
}

func removeLevel(t Triangle, level, depth int, out [][]Triangle) {
	if level >= depth {
		return
	}
	removed, corners := t.Subdivide()
	out[level+1] = append(out[level+1], removed)
	for _, c := range corners {
		removeLevel(c, level+1, depth, out)
	}
}

// CornerCount is the number of filled triangles left at depth d.
func CornerCount(depth int) int {
	n := 1
	for i := 0; i < depth; i++ {
		n *= 3
	}
	return n
}
