package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

type buttonHeartbeatRequest struct {
	DeviceKey     string `json:"deviceKey"`
	ButtonPressed bool   `json:"buttonPressed"`
}

// handleButtonHeartbeat registers or refreshes a device. A set pressed flag
// additionally runs the dequeue, so old firmware that only knows this
// endpoint still advances the queue.
func (h *Handler) handleButtonHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req buttonHeartbeatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.DeviceKey = strings.TrimSpace(req.DeviceKey)
	if req.DeviceKey == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "deviceKey is required")
		return
	}

	device, err := h.devices.UpsertHeartbeat(r.Context(), req.DeviceKey, h.now())
	if err != nil {
		h.serveError(w, err)
		return
	}

	if !req.ButtonPressed {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":     true,
			"device": device,
		})
		return
	}

	result, err := h.dispatcher.Dequeue(r.Context(), req.DeviceKey)
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleButtonPress(w http.ResponseWriter, r *http.Request) {
	deviceKey := chi.URLParam(r, "id")
	result, err := h.dispatcher.Dequeue(r.Context(), deviceKey)
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// buttonView exposes both online representations: the stored flag and the
// heartbeat-age recomputation. They can disagree.
type buttonView struct {
	models.ButtonDevice
	OnlineNow bool   `json:"online_now"`
	LastSeen  string `json:"last_seen"`
}

func (h *Handler) handleListButtons(w http.ResponseWriter, r *http.Request) {
	devices, err := h.devices.ListDevices(r.Context(), intParam(r.URL.Query().Get("limit"), 100))
	if err != nil {
		h.serveError(w, err)
		return
	}

	now := h.now()
	views := make([]buttonView, 0, len(devices))
	for _, device := range devices {
		view := buttonView{ButtonDevice: device, LastSeen: "never"}
		if device.LastHeartbeatAt != nil {
			age := now.Sub(*device.LastHeartbeatAt)
			view.OnlineNow = age <= h.onlineWindow
			view.LastSeen = fmtAgo(age)
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"buttons": views,
	})
}

type updateButtonRequest struct {
	CounterID *string `json:"counterId"`
	Online    *bool   `json:"online"`
}

func (h *Handler) handleUpdateButton(w http.ResponseWriter, r *http.Request) {
	deviceKey := chi.URLParam(r, "id")

	var req updateButtonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if req.CounterID == nil && req.Online == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}

	if req.CounterID != nil {
		if _, err := h.counters.GetCounter(r.Context(), *req.CounterID); err != nil {
			h.serveError(w, err)
			return
		}
	}

	device, err := h.devices.UpdateDevice(r.Context(), deviceKey, store.UpdateDeviceInput{
		AssignedCounterID: req.CounterID,
		Online:            req.Online,
	})
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"device": device,
	})
}

func fmtAgo(age time.Duration) string {
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	}
}
