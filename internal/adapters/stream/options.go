// Package stream fans each tick's reading out to subscribers.
package stream

// Option applies a configuration option to the Broadcast.
type Option func(*Broadcast)

// WithBufferSize sets the per-subscriber channel buffer.
func WithBufferSize(size int) Option {
	return func(b *Broadcast) {
		if size > 0 {
			b.bufferSize = size
		}
	}
}
