// Package stream fans each tick's reading out to subscribers.
//
// Publishing is non-blocking: a subscriber that falls behind its buffer
// loses readings rather than stalling the polling loop.
package stream

import (
	"context"
	"sync"

	"github.com/snowbellsan/psiguard/internal/domain/types"
	"github.com/snowbellsan/psiguard/pkg/metrics"
)

const defaultBufferSize = 16

// Broadcast distributes readings to any number of subscribers.
type Broadcast struct {
	mu         sync.Mutex
	subs       map[int]chan types.Reading
	nextID     int
	bufferSize int
	closed     bool
}

// NewBroadcast creates a Broadcast with configuration options.
func NewBroadcast(opts ...Option) *Broadcast {
	b := &Broadcast{
		subs:       make(map[int]chan types.Reading),
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	metrics.UpdateSubscriberCount(0)
	return b
}

// Subscribe registers a new subscriber and returns its channel plus a cancel
// function. The channel is closed on cancel or when the broadcast closes.
func (b *Broadcast) Subscribe(ctx context.Context) (<-chan types.Reading, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, ErrClosed
	}

	id := b.nextID
	b.nextID++
	ch := make(chan types.Reading, b.bufferSize)
	b.subs[id] = ch
	metrics.UpdateSubscriberCount(len(b.subs))

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
			metrics.UpdateSubscriberCount(len(b.subs))
		}
	}
	return ch, cancel, nil
}

// Publish delivers the reading to every subscriber that has buffer room and
// returns the number of deliveries. Slow subscribers are skipped.
func (b *Broadcast) Publish(ctx context.Context, r types.Reading) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0
	}

	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- r:
			delivered++
			metrics.RecordStreamDelivered()
		default:
			metrics.RecordStreamDropped()
		}
	}
	return delivered
}

// SubscriberCount returns the current number of subscribers.
func (b *Broadcast) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close shuts the broadcast down and closes all subscriber channels.
func (b *Broadcast) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	metrics.UpdateSubscriberCount(0)
	return nil
}

// IsClosed reports whether the broadcast has been closed.
func (b *Broadcast) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
