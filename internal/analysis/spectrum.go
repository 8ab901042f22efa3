package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum is a one-sided power spectrum. Freq[i] is in cycles per unit of
// simulated time.
type Spectrum struct {
	Freq  []float64
	Power []float64
}

// PowerSpectrum removes the mean from samples taken every dt, applies a
// Hann window and returns |X(f)|² for the non-negative frequencies.
func PowerSpectrum(samples []float64, dt float64) Spectrum {
	n := len(samples)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	x := make([]float64, n)
	for i, v := range samples {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	spec := fft.FFTReal(x)
	half := n/2 + 1
	out := Spectrum{Freq: make([]float64, half), Power: make([]float64, half)}
	for i := 0; i < half; i++ {
		a := cmplx.Abs(spec[i])
		out.Freq[i] = float64(i) / (float64(n) * dt)
		out.Power[i] = a * a
	}
	return out
}

// Peak returns the frequency with the most power, ignoring DC.
func (s Spectrum) Peak() (freq, power float64) {
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			freq, power = s.Freq[i], s.Power[i]
		}
	}
	return freq, power
}

// Band keeps the bins with frequency in [lo, hi].
func (s Spectrum) Band(lo, hi float64) Spectrum {
	var out Spectrum
	for i, f := range s.Freq {
		if f >= lo && f <= hi {
			out.Freq = append(out.Freq, f)
			out.Power = append(out.Power, s.Power[i])
		}
	}
	return out
}

// Column extracts one coordinate from a state trajectory.
func Column(traj [][]float64, idx int) []float64 {
	out := make([]float64, 0, len(traj))
	for _, x := range traj {
		if idx < len(x) {
			out = append(out, x[idx])
		}
	}
	return out
}
