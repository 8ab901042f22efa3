package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/mathviz/internal/analysis"
	"github.com/san-kum/mathviz/internal/config"
	"github.com/san-kum/mathviz/internal/integrators"
	"github.com/san-kum/mathviz/internal/kernel"
	"github.com/san-kum/mathviz/internal/physics"
)

// ParameterSweep varies one Lorenz parameter across a range
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Duration  float64
	Dt        float64
}

// SweepResult holds the measurements at one parameter value
type SweepResult struct {
	ParamValue float64
	Lyapunov   float64
	PeakFreq   float64
	FinalState kernel.State
}

// Chaotic reports a positive largest exponent.
func (r SweepResult) Chaotic() bool { return r.Lyapunov > 0.01 }

// RunSweep executes a parameter sweep starting from base
func RunSweep(ctx context.Context, sweep *ParameterSweep, base config.LorenzConfig) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if sweep.Dt <= 0 || sweep.Duration <= 0 {
		return nil, fmt.Errorf("sweep needs a positive dt and duration")
	}

	sys := physics.NewLorenz()
	for k, v := range map[string]float64{"sigma": base.Sigma, "rho": base.Rho, "beta": base.Beta} {
		if err := sys.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	if _, ok := sys.GetParams()[sweep.ParamName]; !ok {
		return nil, fmt.Errorf("lorenz %q: %w", sweep.ParamName, kernel.ErrUnknownParam)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	n := max(int(sweep.Duration/sweep.Dt), 16)

	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		paramVal := sweep.ParamMin + float64(i)*paramStep
		if err := sys.SetParam(sweep.ParamName, paramVal); err != nil {
			return results, err
		}
		// read back the clamped value
		paramVal = sys.GetParams()[sweep.ParamName]

		traj, err := kernel.Trajectory(sys, integrators.NewRK4(), sys.DefaultState(), sweep.Dt, n)
		if err != nil {
			return results, fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
		}
		xs := make([]float64, 0, len(traj))
		for _, s := range traj[len(traj)/10:] {
			xs = append(xs, s.Pos.X)
		}
		freq, _ := analysis.PowerSpectrum(xs, sweep.Dt).Peak()
		last := traj[len(traj)-1].Pos

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Lyapunov:   analysis.LyapunovExponent(sys, integrators.NewRK4(), sys.DefaultState(), sweep.Dt, sweep.Duration, 1e-8),
			PeakFreq:   freq,
			FinalState: kernel.State{last.X, last.Y, last.Z},
		})
	}

	return results, nil
}
