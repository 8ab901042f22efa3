// Package anim drives per-visualization animation state.
//
// A [Machine] walks a fixed list of [Phase] values, one frame per tick.
// Reaching a phase's budget moves to the next phase within the same tick,
// so a frame counter never exceeds its budget. Phases only move forward
// until [Machine.Reset].
//
// Pauses come in two kinds:
//
//   - interaction pause: pointer contact pauses and arms a deadline; the
//     next [Machine.Poll] past the deadline resumes
//   - manual pause: an explicit toggle that never auto-resumes
//
// The deadline lives inside the machine and is checked at the top of each
// tick, so cancelling it is just clearing a field.
package anim
