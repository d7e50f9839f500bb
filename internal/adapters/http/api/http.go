// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/snowbellsan/psiguard/internal/adapters/repository"
	"github.com/snowbellsan/psiguard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Latest returns the most recent reading.
	Latest(ctx context.Context) (Reading, error)

	// Recent returns up to n readings ending with the newest, oldest first.
	Recent(ctx context.Context, n int) ([]Reading, error)

	// Subscribe registers a stream subscriber for per-tick readings.
	Subscribe(ctx context.Context) (<-chan Reading, func(), error)

	// HistoryCapacity reports the history buffer capacity.
	HistoryCapacity() int
}

// Reading mirrors the read shape returned by monitor queries.
type Reading = types.Reading

// Server wires HTTP routes for the monitor API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	snapshotHandler  *SnapshotHandler
	historyHandler   *HistoryHandler
	streamHandler    *StreamHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		snapshotHandler:  NewSnapshotHandler(deps),
		historyHandler:   NewHistoryHandler(deps),
		streamHandler:    NewStreamHandler(deps),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/snapshot", MetricsMiddleware(s.snapshotHandler.HandleGetSnapshot, "snapshot"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/stream", s.streamHandler.HandleStream)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isEmpty reports whether an upstream error means the history has no
// readings yet, which the API translates to 404.
func isEmpty(err error) bool {
	return errors.Is(err, repository.ErrEmpty)
}
