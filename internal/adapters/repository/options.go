// Package repository keeps the bounded reading history and publishes
// immutable snapshots of it for concurrent readers.
package repository

// Option applies a configuration option to the History.
type Option func(*History)

// WithCapacity sets the ring buffer capacity.
func WithCapacity(capacity int) Option {
	return func(h *History) {
		if capacity > 0 {
			h.capacity = capacity
		}
	}
}
