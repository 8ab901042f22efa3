package integrators

import "github.com/san-kum/mathviz/internal/kernel"

// RK4 is the classic fourth-order Runge-Kutta step. The stage buffers are
// kept between calls, so stepping a fixed-size system through StepInto does
// not allocate. An RK4 is not safe for concurrent use.
type RK4 struct {
	k1, k2, k3, k4 kernel.State
	stage          kernel.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) grow(n int) {
	if len(r.k1) == n {
		return
	}
	buf := make(kernel.State, 5*n)
	r.k1, r.k2, r.k3, r.k4, r.stage = buf[:n], buf[n:2*n], buf[2*n:3*n], buf[3*n:4*n], buf[4*n:]
}

// Step returns the state one step of dt after x.
func (r *RK4) Step(sys kernel.System, x kernel.State, t, dt float64) kernel.State {
	out := make(kernel.State, len(x))
	r.StepInto(sys, out, x, t, dt)
	return out
}

// StepInto writes the next state into dst. dst may be x itself.
func (r *RK4) StepInto(sys kernel.System, dst, x kernel.State, t, dt float64) {
	n := len(x)
	r.grow(n)
	half := dt / 2

	kernel.Derive(sys, r.k1, x, t)
	r.offset(x, r.k1, half)
	kernel.Derive(sys, r.k2, r.stage, t+half)
	r.offset(x, r.k2, half)
	kernel.Derive(sys, r.k3, r.stage, t+half)
	r.offset(x, r.k3, dt)
	kernel.Derive(sys, r.k4, r.stage, t+dt)

	dt6 := dt / 6
	for i := 0; i < n; i++ {
		dst[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
}

// offset sets the stage state to x + h*k.
func (r *RK4) offset(x, k kernel.State, h float64) {
	for i := range x {
		r.stage[i] = x[i] + h*k[i]
	}
}
