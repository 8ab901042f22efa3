package kernel

import (
	"fmt"
	"math"
)

// State is the vector integrated by an ODE system.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an autonomous ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// InPlaceSystem writes its derivative into dst instead of allocating.
type InPlaceSystem interface {
	System
	DeriveInto(dst, x State, t float64)
}

// InPlaceIntegrator steps into a caller-owned buffer. dst may alias x.
type InPlaceIntegrator interface {
	Integrator
	StepInto(sys System, dst, x State, t, dt float64)
}

// Derive fills dst with sys's derivative at x, without allocating when sys
// supports it.
func Derive(sys System, dst, x State, t float64) {
	if s, ok := sys.(InPlaceSystem); ok {
		s.DeriveInto(dst, x, t)
		return
	}
	copy(dst, sys.Derive(x, t))
}

// Configurable exposes named numeric parameters. SetParam clamps out of range
// values and only fails for names it does not know.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Param declares one tunable control.
type Param struct {
	Name    string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// Clamp returns v limited to [Min, Max]. NaN clamps to Default.
func (p Param) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.Default
	}
	return math.Max(p.Min, math.Min(p.Max, v))
}

// Nudge moves v by dir steps and clamps the result.
func (p Param) Nudge(v float64, dir int) float64 {
	return p.Clamp(v + float64(dir)*p.Step)
}

func (p Param) String() string {
	return fmt.Sprintf("%s [%g, %g]", p.Name, p.Min, p.Max)
}

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

type Point struct {
	X, Y float64
}

func (p Point) Mid(o Point) Point { return Point{(p.X + o.X) / 2, (p.Y + o.Y) / 2} }
