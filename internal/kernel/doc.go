// Package kernel holds the pure numeric code behind every visualization.
//
// Nothing here knows about terminals, windows or animation. Each function
// maps parameters to geometry or pixels:
//
//   - [Trajectory]: fixed-step integration of a [System]
//   - [Mobius], [Klein]: sampled parametric surfaces, with partial reveal
//   - [RemovedTriangles]: recursive Sierpinski removal, partitioned by level
//   - [ChaosSampler]: the chaos game, resumable in batches
//   - [Escape], [Smooth], [EscapeRows]: escape-time rendering
//   - [Palette], [Colorscale]: colour mapping
//
// # Example
//
//	sys := physics.NewLorenz()
//	pts, _ := kernel.Trajectory(sys, integrators.NewEuler(), kernel.State{0.1, 0, 0}, 0.01, 10000)
package kernel
