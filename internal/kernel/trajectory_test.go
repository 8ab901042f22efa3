package kernel_test

import (
	"math"
	"testing"

	"github.com/san-kum/mathviz/internal/integrators"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/physics"
)

func TestLorenzFirstPoint(t *testing.T) {
	pts, err := kernel.Trajectory(physics.NewLorenz(), integrators.NewEuler(), kernel.State{0.1, 0, 0}, 0.01, 10000)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 10000 {
		t.Fatalf("got %d points, want 10000", len(pts))
	}
	first := pts[0].Pos
	if math.Abs(first.X-0.09) > 1e-12 || math.Abs(first.Y-0.028) > 1e-12 || first.Z != 0 {
		t.Errorf("first point = %+v, want (0.09, 0.028, 0)", first)
	}
}

func TestTrajectoryColorIndex(t *testing.T) {
	pts, _ := kernel.Trajectory(physics.NewLorenz(), integrators.NewEuler(), kernel.State{0.1, 0, 0}, 0.01, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i, p := range pts {
		if p.Color != want[i] {
			t.Errorf("color[%d] = %v, want %v", i, p.Color, want[i])
		}
	}
}

func TestTrajectoryStaysBounded(t *testing.T) {
	pts, _ := kernel.Trajectory(physics.NewLorenz(), integrators.NewEuler(), kernel.State{0.1, 0, 0}, 0.01, 10000)
	for i, p := range pts {
		if p.Pos.Length() > 100 {
			t.Fatalf("point %d diverged: %+v", i, p.Pos)
		}
	}
}

func TestTrajectoryInvalidStart(t *testing.T) {
	if _, err := kernel.Trajectory(physics.NewLorenz(), integrators.NewEuler(), kernel.State{math.NaN(), 0, 0}, 0.01, 10); err == nil {
		t.Error("expected error for NaN start")
	}
	pts, err := kernel.Trajectory(physics.NewLorenz(), integrators.NewEuler(), kernel.State{0.1, 0, 0}, 0.01, 0)
	if err != nil || pts != nil {
		t.Errorf("n=0: got %v, %v", pts, err)
	}
}

// stepOnly hides StepInto so Trajectory takes the allocating path.
type stepOnly struct{ kernel.Integrator }

func TestTrajectoryInPlaceMatchesStep(t *testing.T) {
	x0 := kernel.State{0.1, 0, 0}
	for _, integ := range []kernel.InPlaceIntegrator{integrators.NewEuler(), integrators.NewRK4()} {
		fast, err := kernel.Trajectory(physics.NewLorenz(), integ, x0, 0.01, 500)
		if err != nil {
			t.Fatal(err)
		}
		slow, _ := kernel.Trajectory(physics.NewLorenz(), stepOnly{integ}, x0, 0.01, 500)
		for i := range fast {
			if fast[i] != slow[i] {
				t.Fatalf("%T: sample %d = %+v, want %+v", integ, i, fast[i], slow[i])
			}
		}
		if x0[0] != 0.1 {
			t.Fatalf("%T: start state mutated: %v", integ, x0)
		}
	}
}
