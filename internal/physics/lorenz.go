package physics

import (
	"fmt"

	"github.com/san-kum/mathviz/internal/kernel"
)

// Lorenz parameter ranges. Values outside are clamped.
var (
	SigmaParam = kernel.Param{Name: "sigma", Min: 1, Max: 30, Step: 0.5, Default: 10}
	RhoParam   = kernel.Param{Name: "rho", Min: 1, Max: 100, Step: 1, Default: 28}
	BetaParam  = kernel.Param{Name: "beta", Min: 0.1, Max: 10, Step: 0.1, Default: 8.0 / 3.0}
)

type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz() *Lorenz {
	return &Lorenz{SigmaParam.Default, RhoParam.Default, BetaParam.Default}
}

func (l *Lorenz) StateDim() int { return 3 }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(s kernel.State, t float64) kernel.State {
	d := make(kernel.State, 3)
	l.DeriveInto(d, s, t)
	return d
}

// DeriveInto is Derive writing into d. d may alias s.
func (l *Lorenz) DeriveInto(d, s kernel.State, _ float64) {
	x, y, z := s[0], s[1], s[2]
	d[0] = l.sigma * (y - x)
	d[1] = x*(l.rho-z) - y
	d[2] = x*y - l.beta*z
}

func (l *Lorenz) DefaultState() kernel.State { return kernel.State{0.1, 0, 0} }

func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.sigma, "rho": l.rho, "beta": l.beta}
}

func (l *Lorenz) SetParam(n string, v float64) error {
	switch n {
	case "sigma":
		l.sigma = SigmaParam.Clamp(v)
	case "rho":
		l.rho = RhoParam.Clamp(v)
	case "beta":
		l.beta = BetaParam.Clamp(v)
	default:
		return fmt.Errorf("lorenz %q: %w", n, kernel.ErrUnknownParam)
	}
	return nil
}
