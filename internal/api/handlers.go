package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/charliek/syslogdash/internal/domain"
	"github.com/charliek/syslogdash/internal/logging"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store  *Store
	logger logging.Logger
}

// NewHandlers creates new HTTP handlers
func NewHandlers(store *Store, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handlers{store: store, logger: logger}
}

// GetLogs handles GET /api/logs
func (h *Handlers) GetLogs(w http.ResponseWriter, r *http.Request) {
	query, err := parseLogQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	entries := h.store.Query(query)
	resp := make([]LogEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = ToLogEntryResponse(e)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetLog handles GET /api/logs/{id}
func (h *Handlers) GetLog(w http.ResponseWriter, r *http.Request) {
	entry, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ToLogEntryResponse(entry))
}

// ClearLogs handles DELETE /api/logs
func (h *Handlers) ClearLogs(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	h.logger.Info("msg", "All logs cleared", "component", "api")
	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /api/stats
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, ToStatsResponse(h.store.Stats()))
}

// parseLogQuery extracts limit, offset, facility, severity and search
func parseLogQuery(r *http.Request) (LogQuery, error) {
	q := r.URL.Query()
	var query LogQuery

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return query, fmt.Errorf("%w: limit %q", domain.ErrInvalidFilter, v)
		}
		query.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return query, fmt.Errorf("%w: offset %q", domain.ErrInvalidFilter, v)
		}
		query.Offset = n
	}
	if v := q.Get("facility"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return query, fmt.Errorf("%w: facility %q", domain.ErrInvalidFilter, v)
		}
		f := domain.Facility(n)
		query.Facility = &f
	}
	if v := q.Get("severity"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return query, fmt.Errorf("%w: severity %q", domain.ErrInvalidFilter, v)
		}
		s := domain.Severity(n)
		query.Severity = &s
	}
	query.Search = q.Get("search")

	return query, nil
}

// writeJSON writes a JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("msg", "Error encoding JSON response", "component", "api", "error", err)
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "an internal error occurred"

	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidFilter):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		h.logger.Error("msg", "Internal error", "component", "api", "error", err)
	}

	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  domain.ErrorCode(err),
	})
}
