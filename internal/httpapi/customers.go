package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samanbandara/bank/internal/catalog"
	"github.com/samanbandara/bank/internal/dispatch"
	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

type createCustomerRequest struct {
	CustomerID string   `json:"customerId"`
	Date       string   `json:"date"`
	Services   []string `json:"services"`
	Channel    string   `json:"channel"`
}

func (h *Handler) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.Date = strings.TrimSpace(req.Date)
	req.Channel = strings.TrimSpace(req.Channel)

	if req.CustomerID == "" || req.Date == "" || len(req.Services) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "customerId, date, and services are required")
		return
	}
	if !isValidDate(req.Date) {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}
	if req.Channel == "" {
		req.Channel = models.ChannelWeb
	}

	result, err := h.dispatcher.Assign(r.Context(), dispatch.AssignRequest{
		CustomerID: req.CustomerID,
		Date:       req.Date,
		Services:   req.Services,
		Channel:    req.Channel,
	})
	if err != nil {
		h.serveError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"ok":      true,
		"token":   result.Ticket.Token,
		"counter": result.Counter,
		"ticket":  result.Ticket,
		"etaTime": result.Ticket.ETATime,
	})
}

// customerView is a ticket enriched with the display names the admin list
// shows alongside raw codes.
type customerView struct {
	models.Ticket
	CounterName  string   `json:"counter_name"`
	ServiceNames []string `json:"service_names"`
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.TicketFilter{
		Date:      query.Get("date"),
		CounterID: query.Get("counterId"),
		Query:     query.Get("q"),
		Sort:      query.Get("sort"),
		Dir:       query.Get("dir"),
		Page:      intParam(query.Get("page"), 1),
		Limit:     intParam(query.Get("limit"), 20),
	}

	tickets, total, err := h.tickets.ListTickets(r.Context(), filter)
	if err != nil {
		h.serveError(w, err)
		return
	}

	counterNames := h.counterNames(r)
	serviceIndex := h.serviceIndex(r)

	views := make([]customerView, 0, len(tickets))
	for _, ticket := range tickets {
		view := customerView{Ticket: ticket, CounterName: counterNames[ticket.CounterID]}
		for _, code := range ticket.Services {
			view.ServiceNames = append(view.ServiceNames, serviceIndex.DisplayName(code))
		}
		views = append(views, view)
	}

	pages := total / filter.Limit
	if total%filter.Limit != 0 {
		pages++
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"customers": views,
		"total":     total,
		"page":      filter.Page,
		"pages":     pages,
	})
}

type reassignRequest struct {
	CounterID string `json:"counterId"`
}

// handleReassignCustomer moves a ticket to another counter. The target must
// cover at least one of the ticket's services.
func (h *Handler) handleReassignCustomer(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "id")

	var req reassignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.CounterID = strings.TrimSpace(req.CounterID)
	if req.CounterID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "counterId is required")
		return
	}

	ticket, err := h.tickets.GetTicket(r.Context(), ticketID)
	if err != nil {
		h.serveError(w, err)
		return
	}
	counter, err := h.counters.GetCounter(r.Context(), req.CounterID)
	if err != nil {
		h.serveError(w, err)
		return
	}

	ix := h.serviceIndex(r)
	supported := ix.Normalize(counter.SupportedServices)
	covered := false
	for _, code := range ix.Normalize(ticket.Services) {
		for _, have := range supported {
			if code == have {
				covered = true
			}
		}
	}
	if !covered {
		writeError(w, http.StatusBadRequest, "no_coverage", "No counter supports the requested services")
		return
	}

	updated, err := h.tickets.UpdateTicketCounter(r.Context(), ticketID, counter.CounterID)
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"ticket":  updated,
		"counter": counter,
	})
}

type archiveRequest struct {
	Before string `json:"before"`
}

func (h *Handler) handleArchiveCustomers(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.Before = strings.TrimSpace(req.Before)
	if !isValidDate(req.Before) {
		writeError(w, http.StatusBadRequest, "invalid_request", "before must be YYYY-MM-DD")
		return
	}

	moved, err := h.tickets.ArchiveBefore(r.Context(), req.Before, h.now())
	if err != nil {
		h.serveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"moved": moved,
	})
}

// counterNames is a best-effort id-to-name map; listing still works when the
// lookup fails.
func (h *Handler) counterNames(r *http.Request) map[string]string {
	names := make(map[string]string)
	counters, err := h.counters.ListCounters(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("counter name lookup failed")
		return names
	}
	for _, counter := range counters {
		names[counter.CounterID] = counter.DisplayName
	}
	return names
}

func (h *Handler) serviceIndex(r *http.Request) *catalog.Index {
	services, err := h.catalog.ListServices(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("service catalog lookup failed")
		services = nil
	}
	return catalog.NewIndex(services)
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
