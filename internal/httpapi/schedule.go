package httpapi

import (
	"net/http"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/schedule"
)

func (h *Handler) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, found, err := h.schedules.GetSchedule(r.Context())
	if err != nil {
		h.serveError(w, err)
		return
	}
	if !found {
		sched = models.BankSchedule{Days: schedule.NormalizeDays(nil)}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"schedule": sched,
	})
}

type putScheduleRequest struct {
	Days     []models.DayWindow `json:"days"`
	Timezone string             `json:"timezone"`
}

func (h *Handler) handlePutSchedule(w http.ResponseWriter, r *http.Request) {
	var req putScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if len(req.Days) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "days is required")
		return
	}
	for _, day := range req.Days {
		if day.DayIndex < 0 || day.DayIndex > 6 {
			writeError(w, http.StatusBadRequest, "invalid_request", "day_index must be 0..6")
			return
		}
	}

	saved, err := h.schedules.PutSchedule(r.Context(), models.BankSchedule{
		Days:     schedule.NormalizeDays(req.Days),
		Timezone: req.Timezone,
	})
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"schedule": saved,
	})
}
