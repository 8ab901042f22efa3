package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/physics"
)

type oscillator struct{}

func (oscillator) Derive(x kernel.State, _ float64) kernel.State {
	return kernel.State{x[1], -x[0]}
}

func (oscillator) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := kernel.State{1.0, 0.0}
	dt := 0.01
	steps := 100
	for i := 0; i < steps; i++ {
		x = integ.Step(oscillator{}, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerIsSimultaneous(t *testing.T) {
	// A sequential update would feed the new x[0] into x[1]'s derivative.
	x := NewEuler().Step(oscillator{}, kernel.State{1, 1}, 0, 0.5)
	if x[0] != 1.5 || x[1] != 0.5 {
		t.Errorf("got %v, want [1.5 0.5]", x)
	}
}

func TestEulerDoesNotMutateInput(t *testing.T) {
	in := kernel.State{1, 0}
	NewEuler().Step(oscillator{}, in, 0, 0.1)
	if in[0] != 1 || in[1] != 0 {
		t.Errorf("input mutated: %v", in)
	}
}

func TestStepIntoMatchesStep(t *testing.T) {
	tests := []struct {
		name  string
		sys   kernel.System
		x     kernel.State
		integ kernel.InPlaceIntegrator
	}{
		{"rk4 lorenz", physics.NewLorenz(), kernel.State{1, 2, 20}, NewRK4()},
		{"rk4 oscillator", oscillator{}, kernel.State{1, 0.5}, NewRK4()},
		{"euler lorenz", physics.NewLorenz(), kernel.State{1, 2, 20}, NewEuler()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.integ.Step(tt.sys, tt.x, 0, 0.01)
			x := tt.x.Clone()
			tt.integ.StepInto(tt.sys, x, x, 0, 0.01)
			for i := range want {
				if x[i] != want[i] {
					t.Fatalf("in place = %v, want %v", x, want)
				}
			}
		})
	}
}

func TestRK4StepIntoDoesNotAllocate(t *testing.T) {
	sys := physics.NewLorenz()
	integ := NewRK4()
	x := kernel.State{1, 1, 1}
	integ.StepInto(sys, x, x, 0, 0.01)

	allocs := testing.AllocsPerRun(100, func() {
		integ.StepInto(sys, x, x, 0, 0.01)
	})
	if allocs != 0 {
		t.Errorf("allocs per step = %v, want 0", allocs)
	}
}

func TestRK4ResizesBetweenSystems(t *testing.T) {
	integ := NewRK4()
	integ.Step(physics.NewLorenz(), kernel.State{1, 1, 1}, 0, 0.01)
	x := integ.Step(oscillator{}, kernel.State{1, 0}, 0, 0.01)
	if len(x) != 2 || math.Abs(x[0]-math.Cos(0.01)) > 1e-9 {
		t.Errorf("got %v", x)
	}
}
