// Package httpapi exposes the queue platform over HTTP: customer intake,
// device triggers, the weekly schedule, and the admin CRUD collaborators.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/samanbandara/bank/internal/dispatch"
	"github.com/samanbandara/bank/internal/store"
)

type Handler struct {
	dispatcher *dispatch.Dispatcher
	tickets    store.TicketStore
	counters   store.CounterStore
	catalog    store.CatalogStore
	devices    store.DeviceStore
	schedules  store.ScheduleStore
	calls      store.CallStore
	users      store.UserStore

	onlineWindow time.Duration
	log          zerolog.Logger
	now          func() time.Time
}

type Options struct {
	// OnlineWindow is the heartbeat age beyond which a button reads as
	// offline in listings.
	OnlineWindow time.Duration

	// Now overrides the wall clock in tests.
	Now func() time.Time
}

func New(
	dispatcher *dispatch.Dispatcher,
	tickets store.TicketStore,
	counters store.CounterStore,
	catalog store.CatalogStore,
	devices store.DeviceStore,
	schedules store.ScheduleStore,
	calls store.CallStore,
	users store.UserStore,
	log zerolog.Logger,
	options Options,
) *Handler {
	window := options.OnlineWindow
	if window <= 0 {
		window = 5 * time.Minute
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		dispatcher:   dispatcher,
		tickets:      tickets,
		counters:     counters,
		catalog:      catalog,
		devices:      devices,
		schedules:    schedules,
		calls:        calls,
		users:        users,
		onlineWindow: window,
		log:          log,
		now:          now,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", h.handleHealth)

	r.Post("/customers", h.handleCreateCustomer)
	r.Get("/customers", h.handleListCustomers)
	r.Put("/customers/{id}/counter", h.handleReassignCustomer)
	r.Post("/customers/archive", h.handleArchiveCustomers)

	r.Post("/calls", h.handleCreateCall)
	r.Get("/calls/logs", h.handleListCallLogs)

	r.Post("/buttons", h.handleButtonHeartbeat)
	r.Get("/buttons", h.handleListButtons)
	r.Post("/buttons/{id}/press", h.handleButtonPress)
	r.Put("/buttons/{id}", h.handleUpdateButton)

	r.Get("/bank-schedule", h.handleGetSchedule)
	r.Put("/bank-schedule", h.handlePutSchedule)

	r.Get("/services", h.handleListServices)
	r.Post("/services", h.handleCreateService)
	r.Put("/services/{code}", h.handleUpdateService)
	r.Delete("/services/{code}", h.handleDeleteService)

	r.Get("/counters", h.handleListCounters)
	r.Post("/counters", h.handleCreateCounter)
	r.Put("/counters/{id}", h.handleUpdateCounter)
	r.Delete("/counters/{id}", h.handleDeleteCounter)

	r.Post("/auth/login", h.handleLogin)
	r.Get("/auth/users", h.handleListUsers)
	r.Post("/auth/counters", h.handleCreateCounterUser)
	r.Put("/auth/users/{id}", h.handleUpdatePassword)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) serveError(w http.ResponseWriter, err error) {
	status, code, message := mapError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
	}
	writeError(w, status, code, message)
}

func mapError(err error) (int, string, string) {
	var emptyQueue dispatch.EmptyQueueError
	switch {
	case errors.Is(err, dispatch.ErrBankClosed):
		return http.StatusBadRequest, "bank_closed", "Bank is closed on the selected day"
	case errors.Is(err, dispatch.ErrUnknownServices):
		return http.StatusBadRequest, "unknown_services", "Requested services did not match any known service IDs"
	case errors.Is(err, dispatch.ErrNoCounters):
		return http.StatusBadRequest, "no_counters", "No counters available"
	case errors.Is(err, dispatch.ErrNoCoverage):
		return http.StatusBadRequest, "no_coverage", "No counter supports the requested services"
	case errors.Is(err, dispatch.ErrDeviceNotAssigned):
		return http.StatusBadRequest, "device_unassigned", "Device is not assigned to a counter"
	case errors.As(err, &emptyQueue):
		return http.StatusNotFound, "queue_empty", emptyQueue.Error()
	case errors.Is(err, store.ErrServiceNotFound):
		return http.StatusNotFound, "service_not_found", "service not found"
	case errors.Is(err, store.ErrCounterNotFound):
		return http.StatusNotFound, "counter_not_found", "counter not found"
	case errors.Is(err, store.ErrTicketNotFound):
		return http.StatusNotFound, "ticket_not_found", "ticket not found"
	case errors.Is(err, store.ErrDeviceNotFound):
		return http.StatusNotFound, "device_not_found", "device not found"
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found", "user not found"
	case errors.Is(err, store.ErrCounterExists):
		return http.StatusConflict, "counter_exists", "counter id already in use"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func isValidDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
