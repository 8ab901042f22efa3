package integrators

import "github.com/san-kum/mathviz/internal/kernel"

// Euler is the explicit forward Euler step. All derivatives are taken from
// the current state before any component is updated.
type Euler struct {
	dx kernel.State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys kernel.System, x kernel.State, t, dt float64) kernel.State {
	out := make(kernel.State, len(x))
	e.StepInto(sys, out, x, t, dt)
	return out
}

// StepInto writes the next state into dst. dst may be x itself.
func (e *Euler) StepInto(sys kernel.System, dst, x kernel.State, t, dt float64) {
	if len(e.dx) != len(x) {
		e.dx = make(kernel.State, len(x))
	}
	kernel.Derive(sys, e.dx, x, t)
	for i := range x {
		dst[i] = x[i] + dt*e.dx[i]
	}
}
