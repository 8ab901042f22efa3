package integrators

import (
	"testing"

	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/physics"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	x := kernel.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(oscillator{}, x, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	x := kernel.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(oscillator{}, x, 0, 0.01)
	}
}

func BenchmarkRK4LorenzInPlace(b *testing.B) {
	integrator := NewRK4()
	sys := physics.NewLorenz()
	x := sys.DefaultState()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.StepInto(sys, x, x, 0, 0.01)
	}
}
