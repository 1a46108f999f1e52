package game

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// countdown drives one tick per second into the session. It is a scoped
// resource: stop is idempotent, and every path that leaves the active states
// calls it. A tick can race past stop (already out of the select, waiting on
// the session mutex), so each tick carries its countdown's identity and the
// session drops ticks from any countdown it no longer owns. Without that
// check a stale tick could land after a replacing Start and decrement the new
// session's clock.
type countdown struct {
	clock    clockwork.Clock
	done     chan struct{}
	stopOnce sync.Once
}

// newCountdown starts ticking immediately. tick returns false when the
// session has left the active states and the goroutine should exit.
func newCountdown(clock clockwork.Clock, tick func(*countdown) bool) *countdown {
	c := &countdown{
		clock: clock,
		done:  make(chan struct{}),
	}
	go c.run(tick)
	return c
}

func (c *countdown) run(tick func(*countdown) bool) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.Chan():
			if !tick(c) {
				c.stop()
				return
			}
		}
	}
}

func (c *countdown) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}
