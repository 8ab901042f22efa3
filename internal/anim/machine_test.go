package anim

import (
	"testing"
	"time"
)

func threePhase() *Machine {
	return NewMachine(Phase{"draw", 5}, Phase{"orbit", 3}, Phase{"done", 0})
}

func TestBudgetBoundary(t *testing.T) {
	m := threePhase()
	for i := 1; i <= 4; i++ {
		m.Advance()
		if !m.Is("draw") || m.Frame() != i {
			t.Fatalf("tick %d: phase %s frame %d", i, m.Phase().Name, m.Frame())
		}
	}
	// The tick that reaches the budget also transitions.
	m.Advance()
	if !m.Is("orbit") || m.Frame() != 0 {
		t.Fatalf("after budget: phase %s frame %d, want orbit 0", m.Phase().Name, m.Frame())
	}
}

func TestFrameNeverExceedsBudget(t *testing.T) {
	m := threePhase()
	for i := 0; i < 100; i++ {
		m.Advance()
		if b := m.Phase().Budget; !m.Done() && m.Frame() >= b {
			t.Fatalf("frame %d reached budget %d in %s", m.Frame(), b, m.Phase().Name)
		}
	}
	if !m.Done() {
		t.Error("expected done after 100 ticks")
	}
}

func TestPhaseMonotonic(t *testing.T) {
	m := threePhase()
	seen := []string{m.Phase().Name}
	m.OnTransition = func(_, to Phase) { seen = append(seen, to.Name) }
	for i := 0; i < 20; i++ {
		m.Advance()
		if i == 2 {
			m.InteractionPause(time.Unix(0, 0))
			m.Poll(time.Unix(10, 0))
		}
	}
	want := []string{"draw", "orbit", "done"}
	if len(seen) != len(want) {
		t.Fatalf("transitions %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transitions %v, want %v", seen, want)
		}
	}
	m.JumpTo("draw")
	if !m.Done() {
		t.Error("JumpTo must not move backwards")
	}
}

func TestPauseResumeExact(t *testing.T) {
	paused := threePhase()
	plain := threePhase()
	for i := 0; i < 3; i++ {
		paused.Advance()
		plain.Advance()
	}
	paused.TogglePause()
	if paused.Advance() {
		t.Error("paused machine advanced")
	}
	paused.TogglePause()
	paused.Advance()
	plain.Advance()
	if paused.Phase() != plain.Phase() || paused.Frame() != plain.Frame() {
		t.Errorf("paused run at %s/%d, plain run at %s/%d",
			paused.Phase().Name, paused.Frame(), plain.Phase().Name, plain.Frame())
	}
}

func TestInteractionPauseAutoResumes(t *testing.T) {
	clock := &ManualClock{T: time.Unix(100, 0)}
	m := threePhase()
	m.InteractionPause(clock.Now())
	if !m.Paused() || m.Manual() {
		t.Fatal("expected non-manual pause")
	}
	if got := m.ResumeIn(clock.Now()); got != DefaultResumeDelay {
		t.Errorf("ResumeIn = %v, want %v", got, DefaultResumeDelay)
	}
	if m.Poll(clock.Advance(4999 * time.Millisecond)) {
		t.Fatal("resumed early")
	}
	if !m.Poll(clock.Advance(time.Millisecond)) || m.Paused() {
		t.Fatal("expected resume at the deadline")
	}
}

func TestManualPauseCancelsAutoResume(t *testing.T) {
	clock := &ManualClock{T: time.Unix(0, 0)}
	m := threePhase()
	m.InteractionPause(clock.Now())
	// Toggling out of the interaction pause and back in makes it manual.
	m.TogglePause()
	m.TogglePause()
	if !m.Manual() || m.Pending() {
		t.Fatal("expected manual pause without deadline")
	}
	if m.Poll(clock.Advance(time.Hour)) {
		t.Error("manual pause auto-resumed")
	}
	m.InteractionPause(clock.Now())
	if !m.Manual() || m.Pending() {
		t.Error("interaction must not override a manual pause")
	}
}

func TestCancelAndRearm(t *testing.T) {
	clock := &ManualClock{T: time.Unix(0, 0)}
	m := threePhase()
	m.InteractionPause(clock.Now())
	m.CancelAutoResume()
	if m.Poll(clock.Advance(time.Minute)) {
		t.Fatal("cancelled deadline fired")
	}
	m.RearmAutoResume(clock.Now())
	if !m.Poll(clock.Advance(DefaultResumeDelay)) {
		t.Error("rearmed deadline did not fire")
	}
}

func TestInteractionIgnoredWhenDone(t *testing.T) {
	m := threePhase()
	m.Skip()
	m.Skip()
	m.InteractionPause(time.Now())
	if m.Paused() {
		t.Error("done machine paused on interaction")
	}
}

func TestSkipUnpausesAndReset(t *testing.T) {
	m := threePhase()
	m.Advance()
	m.TogglePause()
	m.Skip()
	if m.Paused() || !m.Is("orbit") || m.Frame() != 0 {
		t.Errorf("after skip: paused=%v phase=%s frame=%d", m.Paused(), m.Phase().Name, m.Frame())
	}
	m.Reset()
	if !m.Is("draw") || m.Frame() != 0 || m.Paused() {
		t.Error("reset did not rewind")
	}
}

func TestProgress(t *testing.T) {
	m := NewMachine(Phase{"build", 4}, Phase{"complete", 0})
	m.Advance()
	if got := m.Progress(); got != 0.25 {
		t.Errorf("Progress = %v, want 0.25", got)
	}
	open := NewMachine(Phase{"rotating", Unbounded}, Phase{"never", 0})
	for i := 0; i < 1000; i++ {
		open.Advance()
	}
	if !open.Is("rotating") || open.Frame() != 1000 {
		t.Error("unbounded phase ended")
	}
	zero := NewMachine(Phase{"build", 0}, Phase{"complete", 0})
	zero.Advance()
	if !zero.Done() {
		t.Error("zero budget phase should end on first tick")
	}
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(30)
	t0 := time.Unix(0, 0)
	if dt, ok := th.Ready(t0); !ok || dt != th.Interval {
		t.Fatalf("first frame: %v %v", dt, ok)
	}
	if _, ok := th.Ready(t0.Add(10 * time.Millisecond)); ok {
		t.Error("frame accepted before interval")
	}
	if dt, ok := th.Ready(t0.Add(50 * time.Millisecond)); !ok || dt != 50*time.Millisecond {
		t.Errorf("got %v %v, want 50ms", dt, ok)
	}
	th.Reset()
	if dt, _ := th.Ready(t0.Add(time.Hour)); dt != th.Interval {
		t.Errorf("after reset dt = %v", dt)
	}
}
