// Package analysis characterizes the Lorenz trajectory behind the attractor
// view.
//
//   - [PowerSpectrum]: Hann-windowed power spectrum of one coordinate
//   - [LyapunovExponent]: largest Lyapunov exponent via renormalized
//     trajectory separation
//   - [Plot]: an ASCII rendering of a spectrum for the terminal
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(sys, integ, x0, dt, duration, 1e-8)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
