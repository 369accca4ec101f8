package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/afrolearn/afrolearn/internal/catalog"
	"github.com/afrolearn/afrolearn/internal/nav"
	"github.com/afrolearn/afrolearn/internal/progress"
)

type errorBody struct {
	Error  string `json:"error"`
	Entity string `json:"entity,omitempty"`
	ID     int64  `json:"id,omitempty"`
	Retry  bool   `json:"retry,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps the component error taxonomy onto HTTP statuses. Missing
// entities and inconsistent contexts are recoverable UI states; an invalid
// progress update is a data-integrity defect and is logged as an error;
// store unavailability is transient and flagged retryable.
func writeError(w http.ResponseWriter, err error) {
	var nf *catalog.NotFoundError
	if errors.As(err, &nf) {
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:  nf.Error(),
			Entity: nf.Entity,
			ID:     nf.ID,
		})
		return
	}

	var ic *nav.InconsistentContextError
	if errors.As(err, &ic) {
		writeJSON(w, http.StatusConflict, errorBody{Error: ic.Error()})
		return
	}

	var ip *progress.InvalidProgressUpdateError
	if errors.As(err, &ip) {
		slog.Error("invalid progress update rejected", "error", ip)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: ip.Error()})
		return
	}

	if errors.Is(err, catalog.ErrStoreUnavailable) {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error: "store unavailable, try again shortly",
			Retry: true,
		})
		return
	}

	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryID parses a required positive integer query parameter.
func queryID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
