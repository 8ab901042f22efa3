// Package physics provides the ODE systems integrated by the visualizations.
//
// Each model implements [kernel.System] and [kernel.Configurable]:
//
//   - [Lorenz]: the butterfly attractor (σ, ρ, β)
//
// Parameters are clamped to their declared ranges on every SetParam.
package physics
