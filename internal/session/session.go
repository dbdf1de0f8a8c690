package session

import (
	"context"
	"sync"
	"time"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/carousel"
)

// Session is one mounted carousel: the state machine plus the listeners and
// timers attached to it. Everything is released by close.
type Session[T carousel.Item] struct {
	ID       string
	Carousel *carousel.Carousel[T]

	coalescer *carousel.Coalescer
	autoplay  *carousel.Autoplay
	hub       *Broadcaster[carousel.View[T]]

	mu       sync.Mutex
	lastSeen time.Time
	closed   bool
	// players counts StartAutoplay callers that have not released yet.
	players int
}

func newSession[T carousel.Item](id string, c *carousel.Carousel[T], opts Options, now time.Time) *Session[T] {
	s := &Session[T]{
		ID:       id,
		Carousel: c,
		hub:      NewBroadcaster[carousel.View[T]](),
		lastSeen: now,
	}
	s.coalescer = carousel.NewCoalescer(opts.Frame, func(width int) {
		if c.Resize(width) {
			s.publish()
		}
	})
	s.autoplay = carousel.NewAutoplay(opts.AutoplayInterval, c.Next, s.publish)
	return s
}

func (s *Session[T]) View() carousel.View[T] {
	return s.Carousel.View()
}

// Resize applies width now. Use ScheduleResize for raw event streams.
func (s *Session[T]) Resize(width int) bool {
	return s.changed(s.Carousel.Resize(width))
}

// ScheduleResize coalesces width into the next frame flush.
func (s *Session[T]) ScheduleResize(width int) {
	s.coalescer.Schedule(width)
}

func (s *Session[T]) Next() bool {
	return s.changed(s.Carousel.Next())
}

func (s *Session[T]) Prev() bool {
	return s.changed(s.Carousel.Prev())
}

func (s *Session[T]) GoTo(index int) bool {
	return s.changed(s.Carousel.GoTo(index))
}

// BeginDrag pauses autoplay for the length of the gesture.
func (s *Session[T]) BeginDrag() {
	s.autoplay.Hold(carousel.HoldDrag)
	s.Carousel.BeginDrag()
}

func (s *Session[T]) DragMove(deltaPx float64) {
	s.Carousel.DragMove(deltaPx)
}

func (s *Session[T]) DragRelease(deltaPx, viewportPx float64) int {
	step := s.Carousel.DragRelease(deltaPx, viewportPx)
	s.autoplay.Release(carousel.HoldDrag)
	s.publish()
	return step
}

// Hover pauses autoplay while the pointer is over the carousel.
func (s *Session[T]) Hover(on bool) {
	if on {
		s.autoplay.Hold(carousel.HoldHover)
		return
	}
	s.autoplay.Release(carousel.HoldHover)
}

// CancelDrag drops a drag whose release will never arrive, such as when the
// page that started it disconnects, and lifts the autoplay hold.
func (s *Session[T]) CancelDrag() {
	was := s.Carousel.CancelDrag()
	s.autoplay.Release(carousel.HoldDrag)
	if was {
		s.publish()
	}
}

// StartAutoplay registers one player, typically an open page. Autoplay runs
// while at least one player holds it. The returned release is idempotent and
// also fires when ctx ends. A closed session never starts autoplay.
func (s *Session[T]) StartAutoplay(ctx context.Context) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	s.players++
	if s.players == 1 {
		s.autoplay.Start(context.Background())
	}

	var once sync.Once
	release = func() { once.Do(s.releaseAutoplay) }
	context.AfterFunc(ctx, release)
	return release
}

func (s *Session[T]) releaseAutoplay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.players == 0 {
		return
	}
	s.players--
	if s.players == 0 {
		s.autoplay.Stop()
	}
}

func (s *Session[T]) Autoplaying() bool {
	return s.autoplay.Running()
}

// Subscribe streams a View after every change. It reports false once the
// session is closed; the channel is closed when the session is.
func (s *Session[T]) Subscribe() (chan carousel.View[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	return s.hub.Subscribe(), true
}

func (s *Session[T]) Unsubscribe(ch chan carousel.View[T]) {
	s.hub.Unsubscribe(ch)
}

// Closed reports whether the session was unmounted.
func (s *Session[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session[T]) Subscribers() int {
	return s.hub.Len()
}

func (s *Session[T]) setItems(items []T) {
	s.Carousel.SetItems(items)
	s.publish()
}

func (s *Session[T]) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session[T]) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session[T]) changed(ok bool) bool {
	if ok {
		s.publish()
	}
	return ok
}

func (s *Session[T]) publish() {
	s.hub.Publish(s.Carousel.View())
}

// close detaches every listener: autoplay, the resize coalescer and all
// subscribers. It is idempotent. Marking the session closed under mu orders
// it after any StartAutoplay or Subscribe already in progress.
func (s *Session[T]) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.players = 0
	s.mu.Unlock()

	s.autoplay.Stop()
	s.coalescer.Stop()
	s.hub.Close()
}
