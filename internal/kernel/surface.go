package kernel

import "math"

// Grid is a sampled parametric surface: Grid[i][j] is the point at the i-th
// u sample and j-th v sample. Rows may be fewer than the full resolution
// when the surface is only partially revealed.
type Grid [][]Vec3

// Points returns the total sample count.
func (g Grid) Points() int {
	n := 0
	for _, row := range g {
		n += len(row)
	}
	return n
}

const (
	MobiusUSteps = 80
	MobiusVSteps = 20
	minMobiusU   = 0.01
)

// MobiusSlices is the number of u slices revealed for a given uMax.
func MobiusSlices(uMax float64) int {
	if uMax < minMobiusU {
		uMax = minMobiusU
	}
	return max(2, int(math.Round(uMax/(2*math.Pi)*MobiusUSteps)))
}

// Mobius samples a strip with the given number of half-twists and half
// width, revealing u in [0, uMax]. uMax below 0.01 is raised to 0.01 and
// above 2π is capped at 2π.
func Mobius(twists int, halfWidth, uMax float64) Grid {
	if uMax < minMobiusU {
		uMax = minMobiusU
	}
	uMax = math.Min(uMax, 2*math.Pi)
	uSteps := MobiusSlices(uMax)
	tw := float64(twists)

	g := make(Grid, 0, uSteps+1)
	for i := 0; i <= uSteps; i++ {
		u := math.Min(float64(i)/MobiusUSteps*2*math.Pi, uMax)
		half := tw * u / 2
		cu, su := math.Cos(u), math.Sin(u)
		ch, sh := math.Cos(half), math.Sin(half)

		row := make([]Vec3, MobiusVSteps+1)
		for j := 0; j <= MobiusVSteps; j++ {
			v := -halfWidth + 2*halfWidth*float64(j)/MobiusVSteps
			r := 1 + v*ch
			row[j] = Vec3{r * cu, r * su, v * sh}
		}
		g = append(g, row)
	}
	return g
}

// Klein samples the classic bottle immersion on a (res+1)² grid with u and
// v both spanning [0, 2π].
func Klein(res int) Grid {
	if res < 2 {
		res = 2
	}
	g := make(Grid, res+1)
	for i := 0; i <= res; i++ {
		u := float64(i) / float64(res) * 2 * math.Pi
		cu, su := math.Cos(u), math.Sin(u)
		r := 4 * (1 - cu/2)

		row := make([]Vec3, res+1)
		for j := 0; j <= res; j++ {
			v := float64(j) / float64(res) * 2 * math.Pi
			cv, sv := math.Cos(v), math.Sin(v)
			var x, y float64
			if u < math.Pi {
				x = 6*cu*(1+su) + r*cu*cv
				y = 16*su + r*su*cv
			} else {
				x = 6*cu*(1+su) - r*cv
				y = 16 * su
			}
			row[j] = Vec3{x, y, r * sv}
		}
		g[i] = row
	}
	return g
}
