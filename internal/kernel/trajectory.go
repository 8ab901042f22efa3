package kernel

// Sample is one integrated point plus its normalized arc-length colour index.
type Sample struct {
	Pos   Vec3
	Color float64
}

// Trajectory integrates sys from x0 for n fixed steps of size dt. The
// returned samples are the post-step states, so x0 itself is not included.
// Colour index i runs 0..1 as i/(n-1). In-place integrators step a single
// state buffer.
func Trajectory(sys System, integ Integrator, x0 State, dt float64, n int) ([]Sample, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(x0) < 3 || !x0.IsValid() {
		return nil, ErrInvalidState
	}

	out := make([]Sample, n)
	x := x0.Clone()
	inPlace, ok := integ.(InPlaceIntegrator)
	t := 0.0
	for i := 0; i < n; i++ {
		if ok {
			inPlace.StepInto(sys, x, x, t, dt)
		} else {
			x = integ.Step(sys, x, t, dt)
		}
		t += dt
		out[i].Pos = Vec3{x[0], x[1], x[2]}
		if n > 1 {
			out[i].Color = float64(i) / float64(n-1)
		}
	}
	return out, nil
}
