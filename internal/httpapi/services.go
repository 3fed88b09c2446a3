package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListServices(r.Context())
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"services": services,
	})
}

type createServiceRequest struct {
	DisplayName        string  `json:"displayName"`
	Priority           string  `json:"priority"`
	AvgHandlingMinutes float64 `json:"avgHandlingMinutes"`
}

func (h *Handler) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "displayName is required")
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !isValidPriority(req.Priority) {
		writeError(w, http.StatusBadRequest, "invalid_request", "priority must be low, medium, or high")
		return
	}
	if req.AvgHandlingMinutes < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "avgHandlingMinutes must be >= 0")
		return
	}

	service, err := h.catalog.CreateService(r.Context(), req.DisplayName, req.Priority, req.AvgHandlingMinutes)
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"ok":      true,
		"service": service,
	})
}

type updateServiceRequest struct {
	DisplayName        *string  `json:"displayName"`
	Priority           *string  `json:"priority"`
	AvgHandlingMinutes *float64 `json:"avgHandlingMinutes"`
}

func (h *Handler) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req updateServiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if req.DisplayName == nil && req.Priority == nil && req.AvgHandlingMinutes == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}
	if req.Priority != nil && !isValidPriority(*req.Priority) {
		writeError(w, http.StatusBadRequest, "invalid_request", "priority must be low, medium, or high")
		return
	}
	if req.AvgHandlingMinutes != nil && *req.AvgHandlingMinutes < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "avgHandlingMinutes must be >= 0")
		return
	}

	service, err := h.catalog.UpdateService(r.Context(), code, store.UpdateServiceInput{
		DisplayName: req.DisplayName,
		Priority:    req.Priority,
		AvgMinutes:  req.AvgHandlingMinutes,
	})
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"service": service,
	})
}

func (h *Handler) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	service, err := h.catalog.DeleteService(r.Context(), code)
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"service": service,
	})
}

func isValidPriority(value string) bool {
	switch value {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	default:
		return false
	}
}
