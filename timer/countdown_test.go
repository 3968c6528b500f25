package timer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type event struct {
	tick      bool
	remaining int
}

func newTestCountdown(clock clockwork.Clock) (*Countdown, chan event) {
	events := make(chan event, 64)
	c := NewCountdown(clock,
		func(remaining int) { events <- event{tick: true, remaining: remaining} },
		func() { events <- event{} },
	)
	return c, events
}

func nextEvent(t *testing.T, events chan event) event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a countdown event")
		return event{}
	}
}

func assertNoEvent(t *testing.T, events chan event) {
	t.Helper()
	select {
	case e := <-events:
		t.Fatalf("Unexpected countdown event: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCountdown_TicksThenEnds(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c, events := newTestCountdown(clock)

	c.Start(3)
	for _, want := range []int{2, 1} {
		clock.BlockUntil(1)
		clock.Advance(time.Second)
		e := nextEvent(t, events)
		if !e.tick || e.remaining != want {
			t.Fatalf("Expected tick(%d), got %+v", want, e)
		}
	}

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	e := nextEvent(t, events)
	if e.tick {
		t.Fatalf("Expected end event, got tick(%d)", e.remaining)
	}

	if c.Running() {
		t.Error("Countdown must be idle after reaching zero")
	}
	assertNoEvent(t, events)
}

func TestCountdown_StopCancelsPendingCallbacks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c, events := newTestCountdown(clock)

	c.Start(5)
	clock.BlockUntil(1)
	c.Stop()
	if c.Running() {
		t.Error("Countdown must report idle after Stop")
	}

	clock.Advance(10 * time.Second)
	assertNoEvent(t, events)

	// Repeated stops are no-ops.
	c.Stop()
	c.Stop()
}

func TestCountdown_RestartNeverDeliversFromOldRun(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c, events := newTestCountdown(clock)

	c.Start(5)
	clock.BlockUntil(1)
	c.Stop()

	c.Start(2)
	// The canceled run's pending wait stays registered with the fake clock
	// until fired, so wait for the new run's wait to join it.
	clock.BlockUntil(2)
	clock.Advance(time.Second)
	e := nextEvent(t, events)
	if !e.tick || e.remaining != 1 {
		t.Fatalf("Expected tick(1) from the new run, got %+v", e)
	}

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	e = nextEvent(t, events)
	if e.tick {
		t.Fatalf("Expected end from the new run, got tick(%d)", e.remaining)
	}
	assertNoEvent(t, events)
}

func TestCountdown_StartWhileRunningCancelsPrevious(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c, events := newTestCountdown(clock)

	c.Start(10)
	clock.BlockUntil(1)
	c.Start(2) // restart without an explicit Stop

	// Both runs have a wait registered; only the new run's callbacks arrive.
	clock.BlockUntil(2)
	clock.Advance(time.Second)
	e := nextEvent(t, events)
	if !e.tick || e.remaining != 1 {
		t.Fatalf("Expected tick(1), got %+v", e)
	}

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	e = nextEvent(t, events)
	if e.tick {
		t.Fatalf("Expected end, got tick(%d)", e.remaining)
	}
	assertNoEvent(t, events)
}

func TestCountdown_NonPositiveStartEndsImmediately(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c, events := newTestCountdown(clock)

	c.Start(0)
	e := nextEvent(t, events)
	if e.tick {
		t.Fatalf("Expected immediate end, got tick(%d)", e.remaining)
	}
	if c.Running() {
		t.Error("Countdown must be idle after an immediate end")
	}
}

func TestCountdown_EndFiresExactlyOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c, events := newTestCountdown(clock)

	c.Start(1)
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	e := nextEvent(t, events)
	if e.tick {
		t.Fatalf("Expected end, got tick(%d)", e.remaining)
	}

	clock.Advance(5 * time.Second)
	assertNoEvent(t, events)
}
