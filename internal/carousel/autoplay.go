package carousel

import (
	"context"
	"sync"
	"time"
)

const DefaultAutoplayInterval = 6 * time.Second

// HoldReason is a bit set of reasons autoplay is paused.
type HoldReason uint8

const (
	HoldHover HoldReason = 1 << iota
	HoldDrag
	HoldUser
)

// Autoplay calls advance on a fixed interval until stopped. Ticks that land
// while any hold is active are skipped, not deferred.
type Autoplay struct {
	interval  time.Duration
	advance   func() bool
	onAdvance func()

	mu     sync.Mutex
	holds  HoldReason
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAutoplay builds a stopped autoplay. onAdvance runs after every tick that
// moved the carousel and must not call Stop.
func NewAutoplay(interval time.Duration, advance func() bool, onAdvance func()) *Autoplay {
	if interval <= 0 {
		interval = DefaultAutoplayInterval
	}
	return &Autoplay{interval: interval, advance: advance, onAdvance: onAdvance}
}

// Start launches the ticker goroutine. It is bound to ctx and to Stop,
// whichever comes first; once either ends it the autoplay can be started
// again. Starting a running autoplay does nothing.
func (a *Autoplay) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done

	go func() {
		defer close(done)
		defer a.exited(done)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.tick()
			}
		}
	}()
}

// Stop cancels the ticker and waits for the goroutine to exit.
func (a *Autoplay) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// exited clears the run state when the goroutine ends on its own because
// the parent context finished.
func (a *Autoplay) exited(done chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done != done {
		return
	}
	a.cancel()
	a.cancel, a.done = nil, nil
}

func (a *Autoplay) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

func (a *Autoplay) Hold(r HoldReason) {
	a.mu.Lock()
	a.holds |= r
	a.mu.Unlock()
}

func (a *Autoplay) Release(r HoldReason) {
	a.mu.Lock()
	a.holds &^= r
	a.mu.Unlock()
}

func (a *Autoplay) Held() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.holds != 0
}

func (a *Autoplay) tick() {
	if a.Held() {
		return
	}
	if a.advance() && a.onAdvance != nil {
		a.onAdvance()
	}
}
