package session

import "sync"

// Broadcaster fans values out to subscribers. A subscriber that is not keeping
// up loses its oldest buffered value so the newest one always lands.
type Broadcaster[V any] struct {
	mu   sync.Mutex
	subs map[chan V]struct{}
}

func NewBroadcaster[V any]() *Broadcaster[V] {
	return &Broadcaster[V]{subs: make(map[chan V]struct{})}
}

func (b *Broadcaster[V]) Subscribe() chan V {
	ch := make(chan V, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster[V]) Unsubscribe(ch chan V) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *Broadcaster[V]) Publish(v V) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
	b.mu.Unlock()
}

func (b *Broadcaster[V]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close unsubscribes everyone.
func (b *Broadcaster[V]) Close() {
	b.mu.Lock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
