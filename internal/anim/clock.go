package anim

import "time"

// Clock abstracts wall time so deadlines can be tested.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the real time.
var SystemClock Clock = systemClock{}

// ManualClock only moves when told to.
type ManualClock struct {
	T time.Time
}

func (c *ManualClock) Now() time.Time { return c.T }

func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.T = c.T.Add(d)
	return c.T
}
