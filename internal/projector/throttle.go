package projector

import (
	"sync"
	"time"

	"github.com/padsync/padsync/internal/domain/presence"
)

// Coalescer bounds cursor-report volume from raw editor input. At most one
// flush happens per interval; the last offered cursor within the interval is
// the one emitted (trailing edge). Stop cancels any pending flush so nothing
// fires after the user navigates away.
type Coalescer struct {
	mu       sync.Mutex
	interval time.Duration
	emit     func(presence.Cursor)
	pending  *presence.Cursor
	timer    *time.Timer
	stopped  bool
}

// NewCoalescer creates a coalescer that calls emit at most once per interval.
func NewCoalescer(interval time.Duration, emit func(presence.Cursor)) *Coalescer {
	return &Coalescer{interval: interval, emit: emit}
}

// Offer records a cursor position for the next flush. The first offer after
// an idle period arms the timer; later offers within the interval just
// replace the pending position.
func (c *Coalescer) Offer(cursor presence.Cursor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}

	c.pending = &cursor
	if c.timer == nil {
		c.timer = time.AfterFunc(c.interval, c.flush)
	}
}

func (c *Coalescer) flush() {
	c.mu.Lock()
	cursor := c.pending
	c.pending = nil
	c.timer = nil
	stopped := c.stopped
	c.mu.Unlock()

	if cursor != nil && !stopped {
		c.emit(*cursor)
	}
}

// Stop cancels the pending flush. Safe to call multiple times.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = nil
}
