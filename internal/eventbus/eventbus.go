// Package eventbus is a small in-process publish/subscribe fan-out used to
// stream planning events to observers without coupling them to the planner.
package eventbus

import (
	"sync"
	"sync/atomic"
)

const defaultBuffer = 16

// Bus fans events of type T out to all subscribers. Delivery never blocks
// the publisher: a subscriber that falls behind loses events, counted in
// Dropped.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   map[int]chan T
	nextID int
	closed bool

	dropped atomic.Int64
	buffer  int
}

// New returns a bus with the default subscriber buffer.
func New[T any]() *Bus[T] {
	return NewBuffered[T](defaultBuffer)
}

// NewBuffered returns a bus whose subscriber channels hold up to buffer
// undelivered events each.
func NewBuffered[T any](buffer int) *Bus[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus[T]{subs: make(map[int]chan T), buffer: buffer}
}

// Publish delivers e to every subscriber that has room.
func (b *Bus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe registers a subscriber. The returned cancel func detaches it and
// closes its channel; calling cancel twice is safe.
func (b *Bus[T]) Subscribe() (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				if !b.closed {
					close(ch)
				}
			}
		})
	}
	return ch, cancel
}

// Dropped reports how many events were discarded because a subscriber's
// buffer was full.
func (b *Bus[T]) Dropped() int64 { return b.dropped.Load() }

// Close shuts the bus down and closes every subscriber channel.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
