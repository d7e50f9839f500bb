// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// StreamDependencies defines the interface for live stream subscriptions.
type StreamDependencies interface {
	Subscribe(ctx context.Context) (<-chan Reading, func(), error)
}

// StreamHandler handles server-sent event stream requests.
type StreamHandler struct {
	deps StreamDependencies
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(deps StreamDependencies) *StreamHandler {
	return &StreamHandler{deps: deps}
}

// HandleStream handles GET /stream requests. Each tick's reading is sent
// as one SSE data frame; the stream ends when the client disconnects or
// the service shuts down.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", ErrUnavailable)
		return
	}

	ch, unsubscribe, err := h.deps.Subscribe(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "stream_closed", err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case reading, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(reading)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
