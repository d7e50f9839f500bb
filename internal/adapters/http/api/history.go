// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// HistoryDependencies defines the interface for history reads.
type HistoryDependencies interface {
	Recent(ctx context.Context, n int) ([]Reading, error)
	HistoryCapacity() int
}

// HistoryHandler handles history requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleGetHistory handles GET /history?limit=N requests. The limit is
// optional and defaults to the full buffer; it never exceeds the buffer
// capacity.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := h.deps.HistoryCapacity()
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if parsed < n {
			n = parsed
		}
	}
	readings, err := h.deps.Recent(r.Context(), n)
	if err != nil {
		if isEmpty(err) {
			// An empty history is a valid, if young, history.
			writeJSON(w, http.StatusOK, []Reading{})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, readings)
}
