package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/audience-simulator/internal/domain"
	"github.com/ignite/audience-simulator/internal/pkg/logger"
	"github.com/ignite/audience-simulator/internal/service/runs"
	"github.com/ignite/audience-simulator/internal/simulation"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	svc *runs.Service
}

// NewHandlers creates the handler set over the runs service.
func NewHandlers(svc *runs.Service) *Handlers {
	return &Handlers{svc: svc}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Simulate runs a simulation and streams NDJSON events: one progress line
// per persona, then a single result line. If the run is interrupted after
// the stream has started, an error line is emitted instead of a result.
func (h *Handlers) Simulate(w http.ResponseWriter, r *http.Request) {
	var draft domain.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	events, err := h.svc.Simulate(r.Context(), draft)
	if err != nil {
		if errors.Is(err, runs.ErrInvalidDraft) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to start simulation")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(w)
	sawResult := false
	for ev := range events {
		if ev.Type == simulation.EventResult {
			sawResult = true
		}
		if err := enc.Encode(ev); err != nil {
			// Client went away; the service goroutine stops with the
			// request context.
			logger.Debug("simulate stream write failed", "error", err.Error())
			return
		}
		flusher.Flush()
	}

	if !sawResult && r.Context().Err() == nil {
		enc.Encode(simulation.Event{
			Type:    simulation.EventError,
			Message: "simulation interrupted",
		})
		flusher.Flush()
	}
}

// ListAudiences returns the selectable audiences with sample personas.
func (h *Handlers) ListAudiences(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"audiences": h.svc.Audiences(),
	})
}

// ListHistory returns stored run summaries, newest first.
func (h *Handlers) ListHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.History(r.Context())
	if err != nil {
		logger.Error("list history failed", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"runs": history})
}

// GetHistoryRun returns one stored run with its full responses.
func (h *Handlers) GetHistoryRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		if errors.Is(err, runs.ErrNotFound) {
			respondError(w, http.StatusNotFound, "run not found")
			return
		}
		logger.Error("get run failed", "run_id", id, "error", err.Error())
		respondError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// ClearHistory deletes all stored runs.
func (h *Handlers) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		logger.Error("clear history failed", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
