package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/samanbandara/bank/internal/dispatch"
	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/schedule"
)

type createCallRequest struct {
	CustomerID  string `json:"customerId"`
	Date        string `json:"date"`
	ServiceCode string `json:"serviceCode"`
	Phone       string `json:"phone"`
}

// handleCreateCall is the phone-channel intake. Unlike the web path it also
// rejects requests that cannot be served at least an hour before closing;
// the two channels intentionally disagree on this check.
func (h *Handler) handleCreateCall(w http.ResponseWriter, r *http.Request) {
	var req createCallRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.Date = strings.TrimSpace(req.Date)
	req.ServiceCode = strings.TrimSpace(req.ServiceCode)
	req.Phone = strings.TrimSpace(req.Phone)

	if !isValidCustomerID(req.CustomerID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "customerId must be 12 digits")
		return
	}
	if !isValidDate(req.Date) {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}
	if req.ServiceCode == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "serviceCode is required")
		return
	}

	win := h.dispatcher.Schedules().Resolve(r.Context(), req.Date)
	if !win.Open {
		h.serveError(w, dispatch.ErrBankClosed)
		return
	}
	closeTime := win.CloseTime
	if closeTime == "" {
		closeTime = schedule.DefaultCloseTime
	}
	closeAt, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+closeTime, time.Local)
	if err == nil && h.now().Add(time.Hour).After(closeAt) {
		writeError(w, http.StatusBadRequest, "no_slot", "No slots available before close at "+closeTime)
		return
	}

	result, err := h.dispatcher.Assign(r.Context(), dispatch.AssignRequest{
		CustomerID: req.CustomerID,
		Date:       req.Date,
		Services:   []string{req.ServiceCode},
		Channel:    models.ChannelCall,
	})
	if err != nil {
		h.serveError(w, err)
		return
	}

	h.dispatcher.RecordCall(r.Context(), models.CallLog{
		Date:          req.Date,
		Phone:         req.Phone,
		CustomerID:    req.CustomerID,
		ServiceCode:   result.Ticket.Services[0],
		Token:         result.Ticket.Token,
		ScheduledTime: result.Ticket.ETATime,
	})

	counterName := result.Counter.DisplayName
	if counterName == "" {
		counterName = result.Counter.CounterID
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":       result.Ticket.Token,
		"counterName": counterName,
		"date":        result.Ticket.Date,
		"service":     result.Ticket.Services[0],
		"etaTime":     result.Ticket.ETATime,
	})
}

// handleListCallLogs serves the recent phone-channel history for the admin
// dashboard, newest first.
func (h *Handler) handleListCallLogs(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r.URL.Query().Get("limit"), 50)
	if limit > 200 {
		limit = 200
	}
	logs, err := h.calls.ListCallLogs(r.Context(), limit)
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"callLogs": logs,
	})
}

func isValidCustomerID(value string) bool {
	if len(value) != 12 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
