// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// SnapshotDependencies defines the interface for snapshot reads.
type SnapshotDependencies interface {
	Latest(ctx context.Context) (Reading, error)
}

// SnapshotHandler handles latest-snapshot requests.
type SnapshotHandler struct {
	deps SnapshotDependencies
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps SnapshotDependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// HandleGetSnapshot handles GET /snapshot requests.
func (h *SnapshotHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_snapshot"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	reading, err := h.deps.Latest(r.Context())
	if err != nil {
		if isEmpty(err) {
			writeError(w, http.StatusNotFound, "no_data", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, reading)
}
