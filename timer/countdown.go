// timer/countdown.go
package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Countdown is a restartable one-shot second countdown. Start(from) begins a
// run that invokes onTick(remaining) once per elapsed second and onEnd()
// exactly once on reaching zero. Stop cancels the pending run and is
// idempotent. Restarting cancels the previous run first; callbacks from two
// overlapping runs never interleave.
//
// Callbacks are invoked from the countdown's own goroutine, never from the
// caller's stack, so a consumer can safely dispatch state updates from them.
// After Stop (or a new Start), no callback from the canceled run is
// delivered: each run is tagged with a generation and re-checks it before
// every callback.
type Countdown struct {
	clock  clockwork.Clock
	onTick func(remaining int)
	onEnd  func()

	mu     sync.Mutex
	gen    uint64
	stopCh chan struct{}
}

// NewCountdown creates an idle countdown. Either callback may be nil.
func NewCountdown(clock clockwork.Clock, onTick func(int), onEnd func()) *Countdown {
	return &Countdown{
		clock:  clock,
		onTick: onTick,
		onEnd:  onEnd,
	}
}

// Start begins a new run from the given number of seconds, canceling any run
// already in flight. A non-positive value ends immediately (asynchronously).
func (c *Countdown) Start(fromSeconds int) {
	c.mu.Lock()
	c.cancelLocked()
	c.gen++
	gen := c.gen
	stop := make(chan struct{})
	c.stopCh = stop
	c.mu.Unlock()

	go c.run(gen, fromSeconds, stop)
}

// Stop cancels the pending run, if any. Safe to call repeatedly and while
// idle.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.gen++
}

// Running reports whether a run is in flight.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopCh != nil
}

func (c *Countdown) cancelLocked() {
	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}
}

// live reports whether the run identified by gen is still the current one.
// When final is set the run retires itself, returning the countdown to idle.
func (c *Countdown) live(gen uint64, final bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	if final {
		c.stopCh = nil
	}
	return true
}

func (c *Countdown) run(gen uint64, remaining int, stop chan struct{}) {
	if remaining <= 0 {
		if c.live(gen, true) && c.onEnd != nil {
			c.onEnd()
		}
		return
	}
	for {
		select {
		case <-c.clock.After(time.Second):
			remaining--
			if remaining <= 0 {
				if c.live(gen, true) && c.onEnd != nil {
					c.onEnd()
				}
				return
			}
			if !c.live(gen, false) {
				return
			}
			if c.onTick != nil {
				c.onTick(remaining)
			}
		case <-stop:
			return
		}
	}
}
