package analysis

import (
	"math"

	"github.com/san-kum/mathviz/internal/kernel"
)

// LyapunovExponent estimates the largest Lyapunov exponent by following a
// reference trajectory and a neighbour perturbation away. After every step
// the separation is logged and the neighbour pulled back to distance
// perturbation along the same direction.
//
// Algorithm:
// 1. Discard a transient of duration/10 so x0 lands on the attractor
// 2. Step both trajectories and measure their separation d
// 3. λ ≈ Σ ln(d/d0) / elapsed time
func LyapunovExponent(
	sys kernel.System,
	integ kernel.Integrator,
	x0 kernel.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || dt <= 0 || duration <= 0 || perturbation <= 0 {
		return 0
	}

	x := x0.Clone()
	t := 0.0
	for t < duration/10 {
		x = integ.Step(sys, x, t, dt)
		t += dt
	}

	xp := x.Clone()
	xp[0] += perturbation
	d0 := perturbation

	sumLog := 0.0
	steps := 0
	for elapsed := 0.0; elapsed < duration; elapsed += dt {
		x = integ.Step(sys, x, t, dt)
		xp = integ.Step(sys, xp, t, dt)
		t += dt

		sep := distance(x, xp)
		if sep == 0 || !x.IsValid() || !xp.IsValid() {
			break
		}
		sumLog += math.Log(sep / d0)
		steps++

		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	if steps == 0 {
		return 0
	}
	return sumLog / (float64(steps) * dt)
}

func distance(a, b kernel.State) float64 {
	sum := 0.0
	for i := range a {
		d := b[i] - a[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
