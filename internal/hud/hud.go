// Package hud derives the heads-up display for a visualization from its
// animation state. Nothing here mutates state.
package hud

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// UpdateInterval is how many ticks pass between routine HUD refreshes.
// State changes refresh immediately.
const UpdateInterval = 6

// Status is what a front-end shows for the active visualization.
type Status struct {
	Label   string  // short phase label, e.g. DRAWING
	Fill    float64 // progress bar fill in [0, 1]
	Detail  string
	Caption string
	Fade    float64 // caption opacity in [0, 1]
	Paused  bool
	Extra   string // secondary line, e.g. plane coordinates
}

var printer = message.NewPrinter(language.English)

// Count formats n with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// PauseDetail is the detail line while paused. An interaction pause counts
// down to its auto-resume.
func PauseDetail(manual bool, resumeIn time.Duration) string {
	if manual || resumeIn <= 0 {
		return "Paused"
	}
	secs := int(math.Ceil(resumeIn.Seconds()))
	return fmt.Sprintf("Resuming in %ds…", secs)
}

// Paused builds the status shown while an animation is held.
func Paused(manual bool, resumeIn time.Duration, fill float64) Status {
	return Status{Label: "PAUSED", Fill: fill, Detail: PauseDetail(manual, resumeIn), Paused: true}
}

// Clamp01 limits a fill fraction to [0, 1].
func Clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
