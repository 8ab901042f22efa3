package anim

import "time"

// Throttle caps the effective tick rate. Ticks arriving before Interval has
// elapsed since the last accepted one are skipped.
type Throttle struct {
	Interval time.Duration
	last     time.Time
}

func NewThrottle(fps int) *Throttle {
	if fps <= 0 {
		fps = 30
	}
	return &Throttle{Interval: time.Second / time.Duration(fps)}
}

// Ready reports whether a frame should run at now and, if so, the elapsed
// time to integrate over. The first frame after a Reset uses one interval.
func (t *Throttle) Ready(now time.Time) (time.Duration, bool) {
	if t.last.IsZero() {
		t.last = now
		return t.Interval, true
	}
	dt := now.Sub(t.last)
	if dt < t.Interval {
		return 0, false
	}
	t.last = now
	return dt, true
}

// Reset forgets the last frame so a resumed animation does not jump.
func (t *Throttle) Reset() {
	t.last = time.Time{}
}
