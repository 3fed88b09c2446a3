package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

func (h *Handler) handleListCounters(w http.ResponseWriter, r *http.Request) {
	counters, err := h.counters.ListCounters(r.Context())
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"counters": counters,
	})
}

type createCounterRequest struct {
	CounterID         string   `json:"counterId"`
	DisplayName       string   `json:"displayName"`
	SupportedServices []string `json:"supportedServices"`
}

func (h *Handler) handleCreateCounter(w http.ResponseWriter, r *http.Request) {
	var req createCounterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.CounterID = strings.TrimSpace(req.CounterID)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "displayName is required")
		return
	}

	supported := h.serviceIndex(r).Normalize(req.SupportedServices)
	if len(supported) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "supportedServices must name at least one known service")
		return
	}

	counter, err := h.counters.CreateCounter(r.Context(), store.CreateCounterInput{
		CounterID:         req.CounterID,
		DisplayName:       req.DisplayName,
		SupportedServices: supported,
	})
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"ok":      true,
		"counter": counter,
	})
}

type updateCounterRequest struct {
	SupportedServices []string `json:"supportedServices"`
}

func (h *Handler) handleUpdateCounter(w http.ResponseWriter, r *http.Request) {
	counterID := chi.URLParam(r, "id")

	var req updateCounterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	supported := h.serviceIndex(r).Normalize(req.SupportedServices)
	if len(supported) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "supportedServices must name at least one known service")
		return
	}

	counter, err := h.counters.UpdateCounterServices(r.Context(), counterID, supported)
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"counter": counter,
	})
}

// handleDeleteCounter also removes the counter's paired staff login. The
// login cleanup is best-effort; the counter delete stands on its own.
func (h *Handler) handleDeleteCounter(w http.ResponseWriter, r *http.Request) {
	counterID := chi.URLParam(r, "id")

	counter, err := h.counters.DeleteCounter(r.Context(), counterID)
	if err != nil {
		h.serveError(w, err)
		return
	}

	if err := h.users.DeleteUserByRole(r.Context(), counterID, models.RoleCounter); err != nil {
		h.log.Warn().Err(err).Str("counter_id", counterID).Msg("counter login cleanup failed")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"counter": counter,
	})
}
