// Package httpapi exposes the registry's presentation surface over REST.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/atriumhq/atrium/internal/metrics"
	"github.com/atriumhq/atrium/internal/registry"
	"github.com/atriumhq/atrium/pkg/logger"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// handler bundles the shell's HTTP endpoints.
type handler struct {
	reg *registry.Registry
	log *logger.Logger
}

// NewHandler returns a router exposing the shell REST API.
func NewHandler(reg *registry.Registry, log *logger.Logger, m *metrics.Metrics) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{reg: reg, log: log}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, principalMiddleware, loggingMiddleware(log))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/modules", h.modules).Methods(http.MethodGet)
	api.HandleFunc("/search", h.search).Methods(http.MethodGet)
	api.HandleFunc("/pending-actions", h.pendingActions).Methods(http.MethodGet)
	api.HandleFunc("/commands", h.commands).Methods(http.MethodGet)

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
		api.Use(func(next http.Handler) http.Handler {
			return instrumentRoutes(m, next)
		})
	}
	return r
}

func (h *handler) modules(w http.ResponseWriter, r *http.Request) {
	views := h.reg.ExportForPresentation()
	writeJSON(w, http.StatusOK, map[string]any{"modules": views})
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query parameter q is required"))
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results := h.reg.Search(r.Context(), query, principalFrom(r), limit)
	// Each provider was already capped at limit; the page is too.
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []registry.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *handler) pendingActions(w http.ResponseWriter, r *http.Request) {
	counts := h.reg.PendingActionCounts(r.Context(), principalFrom(r))
	writeJSON(w, http.StatusOK, map[string]any{"counts": counts})
}

func (h *handler) commands(w http.ResponseWriter, r *http.Request) {
	entries := h.reg.SearchCommands(r.URL.Query().Get("q"))
	if entries == nil {
		entries = []registry.CommandEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"commands": entries})
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultSearchLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return limit, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
