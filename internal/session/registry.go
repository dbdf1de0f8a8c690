package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"sync"
	"time"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/carousel"
)

const DefaultTTL = 30 * time.Minute

// Options are applied to every carousel the registry mounts.
type Options struct {
	Breakpoints      carousel.Breakpoints
	Mode             carousel.Mode
	Transition       time.Duration
	DragThreshold    float64
	AutoplayInterval time.Duration
	Frame            time.Duration
	TTL              time.Duration
}

func (o Options) settings() []carousel.Setting {
	s := []carousel.Setting{
		carousel.WithMode(o.Mode),
		carousel.WithTransition(o.Transition),
	}
	if o.DragThreshold > 0 {
		s = append(s, carousel.WithDragThreshold(o.DragThreshold))
	}
	return s
}

// Registry owns one carousel per visitor. Instances never share state.
type Registry[T carousel.Item] struct {
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	items    []T
	sessions map[string]*Session[T]
}

// NewRegistry validates opts once so Mount cannot fail on configuration.
func NewRegistry[T carousel.Item](opts Options, items []T) (*Registry[T], error) {
	if err := opts.Breakpoints.Validate(); err != nil {
		return nil, err
	}
	if _, err := carousel.New[T](nil, opts.Breakpoints, 0, opts.settings()...); err != nil {
		return nil, err
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Registry[T]{
		opts:     opts,
		now:      time.Now,
		items:    append([]T(nil), items...),
		sessions: make(map[string]*Session[T]),
	}, nil
}

// NewID returns a random session id.
func NewID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// Mount returns the session for id, creating it at width when absent. An
// existing session keeps its width; callers resize explicitly.
func (r *Registry[T]) Mount(id string, width int) (*Session[T], error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.touch(now)
		return s, nil
	}
	c, err := carousel.New(r.items, r.opts.Breakpoints, width, r.opts.settings()...)
	if err != nil {
		return nil, err
	}
	s := newSession(id, c, r.opts, now)
	r.sessions[id] = s
	return s, nil
}

// Get returns a mounted session and marks it active.
func (r *Registry[T]) Get(id string) (*Session[T], bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Unmount releases the session's listeners and forgets it.
func (r *Registry[T]) Unmount(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.close()
	}
	return ok
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.items...)
}

// Refresh replaces the item list for new and mounted sessions.
func (r *Registry[T]) Refresh(items []T) {
	r.mu.Lock()
	r.items = append([]T(nil), items...)
	sessions := make([]*Session[T], 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.setItems(items)
	}
}

// Reap unmounts sessions idle past the TTL that have no live subscribers.
func (r *Registry[T]) Reap(now time.Time) int {
	r.mu.Lock()
	var stale []*Session[T]
	for id, s := range r.sessions {
		if s.Subscribers() > 0 || now.Sub(s.idleSince()) < r.opts.TTL {
			continue
		}
		stale = append(stale, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.close()
	}
	return len(stale)
}

// Run reaps on a fixed cadence until ctx is done, then unmounts everything.
func (r *Registry[T]) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			if n := r.Reap(r.now()); n > 0 {
				log.Printf("Unmounted %d idle carousel sessions", n)
			}
		}
	}
}

func (r *Registry[T]) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session[T])
	r.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
