package anim

import (
	"time"
)

// Unbounded marks a phase that never ends on its own.
const Unbounded = -1

// DefaultResumeDelay is how long an interaction pause lasts before the
// animation resumes by itself.
const DefaultResumeDelay = 5000 * time.Millisecond

// Phase is one named stage of an animation. Budget is the number of ticks
// the phase lasts; the last phase of a sequence is terminal and its budget
// is ignored.
type Phase struct {
	Name   string
	Budget int
}

// Machine advances a fixed phase sequence one frame per tick and tracks the
// pause state. It is not safe for concurrent use; callers drive it from a
// single goroutine.
type Machine struct {
	phases []Phase
	idx    int
	frame  int

	paused   bool
	manual   bool
	resumeAt time.Time
	delay    time.Duration

	// OnTransition, when set, is called after every phase change.
	OnTransition func(from, to Phase)
}

func NewMachine(phases ...Phase) *Machine {
	if len(phases) == 0 {
		panic("anim: machine needs at least one phase")
	}
	ps := make([]Phase, len(phases))
	copy(ps, phases)
	return &Machine{phases: ps, delay: DefaultResumeDelay}
}

// SetResumeDelay changes the interaction pause length. Non-positive values
// restore the default.
func (m *Machine) SetResumeDelay(d time.Duration) {
	if d <= 0 {
		d = DefaultResumeDelay
	}
	m.delay = d
}

// SetBudget changes the budget of the named phase. Callers follow it with
// Reset when the phase is already running.
func (m *Machine) SetBudget(name string, budget int) {
	for i := range m.phases {
		if m.phases[i].Name == name {
			m.phases[i].Budget = budget
		}
	}
}

func (m *Machine) Phase() Phase { return m.phases[m.idx] }
func (m *Machine) Index() int   { return m.idx }
func (m *Machine) Frame() int   { return m.frame }
func (m *Machine) Paused() bool { return m.paused }
func (m *Machine) Manual() bool { return m.manual }

// Done reports whether the terminal phase has been reached.
func (m *Machine) Done() bool { return m.idx == len(m.phases)-1 }

// Is reports whether the current phase has the given name.
func (m *Machine) Is(name string) bool { return m.phases[m.idx].Name == name }

// Progress is frame/budget for the current phase. Terminal phases report 1
// and unbounded phases report 0.
func (m *Machine) Progress() float64 {
	if m.Done() {
		return 1
	}
	b := m.phases[m.idx].Budget
	if b == Unbounded {
		return 0
	}
	if b <= 0 {
		return 1
	}
	return float64(m.frame) / float64(b)
}

// Advance moves one frame forward unless paused or done. When the frame
// reaches the phase budget the machine enters the next phase at frame 0 in
// the same call. It reports whether a frame was consumed.
func (m *Machine) Advance() bool {
	if m.paused || m.Done() {
		return false
	}
	m.frame++
	b := m.phases[m.idx].Budget
	if b != Unbounded && m.frame >= b {
		m.enter(m.idx + 1)
	}
	return true
}

// Skip force-completes the current phase.
func (m *Machine) Skip() {
	if m.Done() {
		return
	}
	m.unpause()
	m.enter(m.idx + 1)
}

// JumpTo moves forward to the named phase. Moving backwards is a no-op;
// only Reset rewinds.
func (m *Machine) JumpTo(name string) {
	for i := m.idx + 1; i < len(m.phases); i++ {
		if m.phases[i].Name == name {
			m.enter(i)
			return
		}
	}
}

// Reset rewinds to the first phase at frame 0, unpaused.
func (m *Machine) Reset() {
	m.unpause()
	m.enter(0)
}

func (m *Machine) enter(i int) {
	from := m.phases[m.idx]
	m.idx = i
	m.frame = 0
	if m.OnTransition != nil {
		m.OnTransition(from, m.phases[i])
	}
}

// InteractionPause pauses on pointer contact and arms the auto-resume
// deadline. It is ignored once the sequence is done and while a manual pause
// is in effect.
func (m *Machine) InteractionPause(now time.Time) {
	if m.Done() || (m.paused && m.manual) {
		return
	}
	m.paused = true
	m.manual = false
	m.resumeAt = now.Add(m.delay)
}

// TogglePause flips between running and a manual pause. A manual pause never
// auto-resumes. Leaving any pause clears the deadline.
func (m *Machine) TogglePause() {
	if m.paused {
		m.unpause()
		return
	}
	m.paused = true
	m.manual = true
	m.resumeAt = time.Time{}
}

// CancelAutoResume drops a pending deadline without changing the pause.
func (m *Machine) CancelAutoResume() {
	m.resumeAt = time.Time{}
}

// RearmAutoResume restarts the deadline for an interaction pause that lost
// its timer, e.g. after the tab was hidden.
func (m *Machine) RearmAutoResume(now time.Time) {
	if m.paused && !m.manual {
		m.resumeAt = now.Add(m.delay)
	}
}

// Poll fires the auto-resume deadline if it has passed. It reports whether
// the machine resumed.
func (m *Machine) Poll(now time.Time) bool {
	if m.resumeAt.IsZero() || now.Before(m.resumeAt) {
		return false
	}
	m.unpause()
	return true
}

// ResumeIn is the time left before auto-resume, or 0 if none is pending.
func (m *Machine) ResumeIn(now time.Time) time.Duration {
	if m.resumeAt.IsZero() {
		return 0
	}
	if d := m.resumeAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Pending reports whether an auto-resume deadline is armed.
func (m *Machine) Pending() bool { return !m.resumeAt.IsZero() }

func (m *Machine) unpause() {
	m.paused = false
	m.manual = false
	m.resumeAt = time.Time{}
}
