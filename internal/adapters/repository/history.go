// Package repository keeps the bounded reading history and publishes
// immutable snapshots of it for concurrent readers.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/snowbellsan/psiguard/internal/domain/types"
	"github.com/snowbellsan/psiguard/pkg/metrics"
)

const defaultCapacity = 30

// Snapshot is an immutable view of the history at one instant. Readings are
// ordered oldest first. A Snapshot is never mutated after publication, so
// readers may hold it across ticks.
type Snapshot struct {
	Readings []types.Reading
	Latest   types.Reading
	HasData  bool
	TakenAt  time.Time
}

// History is a ring buffer of readings with single-writer append semantics.
// The poll loop is the sole writer; readers only ever see the atomically
// published snapshot, never the buffer mid-write.
type History struct {
	mu       sync.Mutex
	buf      []types.Reading
	next     int
	count    int
	capacity int

	snapshot atomic.Pointer[Snapshot]
}

// NewHistory creates a History with configuration options.
func NewHistory(opts ...Option) *History {
	h := &History{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(h)
	}
	h.buf = make([]types.Reading, h.capacity)
	h.snapshot.Store(&Snapshot{TakenAt: time.Now()})

	metrics.UpdateHistoryCapacity(h.capacity)
	metrics.UpdateHistorySize(0)

	return h
}

// Append records one reading, evicting the oldest once the buffer is full,
// and publishes a fresh snapshot.
func (h *History) Append(ctx context.Context, r types.Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()

	h.buf[h.next] = r
	h.next = (h.next + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}

	// Rebuild the ordered view. The buffer is small (trend-display sized),
	// so a full copy per tick is cheaper than readers locking.
	readings := make([]types.Reading, h.count)
	first := (h.next - h.count + h.capacity) % h.capacity
	for i := 0; i < h.count; i++ {
		readings[i] = h.buf[(first+i)%h.capacity]
	}

	h.snapshot.Store(&Snapshot{
		Readings: readings,
		Latest:   r,
		HasData:  true,
		TakenAt:  start,
	})

	metrics.UpdateHistorySize(h.count)
	metrics.RecordSnapshotPublished(float64(start.Unix()), float64(time.Since(start).Microseconds())/1000.0)
}

// Snapshot returns the most recently published snapshot. Never nil.
func (h *History) Snapshot() *Snapshot {
	return h.snapshot.Load()
}

// Latest returns the most recent reading, or ErrEmpty before the first tick.
func (h *History) Latest(ctx context.Context) (types.Reading, error) {
	snap := h.snapshot.Load()
	if !snap.HasData {
		return types.Reading{}, ErrEmpty
	}
	return snap.Latest, nil
}

// Recent returns up to n readings ending with the newest, oldest first.
// n < 1 or n beyond the retained count returns everything retained.
func (h *History) Recent(ctx context.Context, n int) ([]types.Reading, error) {
	snap := h.snapshot.Load()
	if !snap.HasData {
		return nil, ErrEmpty
	}
	readings := snap.Readings
	if n >= 1 && n < len(readings) {
		readings = readings[len(readings)-n:]
	}
	// The snapshot slice is immutable; hand out a copy so callers can't
	// reach into it either.
	out := make([]types.Reading, len(readings))
	copy(out, readings)
	return out, nil
}

// Len returns the number of readings currently retained.
func (h *History) Len(ctx context.Context) int {
	return len(h.snapshot.Load().Readings)
}

// Capacity returns the configured buffer capacity.
func (h *History) Capacity() int {
	return h.capacity
}
