package carousel

import (
	"sync"
	"time"
)

// DefaultFrame is one display frame at 60Hz.
const DefaultFrame = 16 * time.Millisecond

// Coalescer collapses bursts of resize events into at most one apply per
// frame. The last width scheduled before the frame boundary wins.
type Coalescer struct {
	mu      sync.Mutex
	frame   time.Duration
	apply   func(width int)
	pending int
	timer   *time.Timer
	stopped bool
}

func NewCoalescer(frame time.Duration, apply func(width int)) *Coalescer {
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &Coalescer{frame: frame, apply: apply}
}

// Schedule records width and arms a flush for the end of the current frame.
func (c *Coalescer) Schedule(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.pending = width
	if c.timer == nil {
		c.timer = time.AfterFunc(c.frame, c.flush)
	}
}

// Flush applies a pending width immediately. It reports whether one was pending.
func (c *Coalescer) Flush() bool {
	c.mu.Lock()
	if c.stopped || c.timer == nil {
		c.mu.Unlock()
		return false
	}
	c.timer.Stop()
	c.timer = nil
	width := c.pending
	c.mu.Unlock()

	c.apply(width)
	return true
}

// Pending reports whether a flush is armed.
func (c *Coalescer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Stop drops any pending width. Later calls to Schedule are ignored.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coalescer) flush() {
	c.mu.Lock()
	if c.stopped || c.timer == nil {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	width := c.pending
	c.mu.Unlock()

	c.apply(width)
}
