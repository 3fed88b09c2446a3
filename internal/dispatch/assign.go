package dispatch

import (
	"context"

	"github.com/google/uuid"

	"github.com/samanbandara/bank/internal/catalog"
	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/monitoring"
)

type AssignRequest struct {
	CustomerID string
	Date       string
	Services   []string
	Channel    string
}

type AssignResult struct {
	Ticket  models.Ticket
	Counter models.Counter
}

// Assign runs the full intake pipeline: schedule gate, service
// normalization, counter selection, ETA, token, persist. The fairness-marker
// update on the chosen counter is fire-and-forget.
func (d *Dispatcher) Assign(ctx context.Context, req AssignRequest) (AssignResult, error) {
	win := d.schedules.Resolve(ctx, req.Date)
	if !win.Open {
		return AssignResult{}, ErrBankClosed
	}

	services, err := d.catalog.ListServices(ctx)
	if err != nil {
		return AssignResult{}, err
	}
	ix := catalog.NewIndex(services)
	requested := ix.Normalize(req.Services)
	if len(requested) == 0 {
		return AssignResult{}, ErrUnknownServices
	}

	counters, err := d.counters.ListCounters(ctx)
	if err != nil {
		return AssignResult{}, err
	}
	if len(counters) == 0 {
		return AssignResult{}, ErrNoCounters
	}
	ids := make([]string, 0, len(counters))
	for i := range counters {
		counters[i].SupportedServices = ix.Normalize(counters[i].SupportedServices)
		ids = append(ids, counters[i].CounterID)
	}

	load, err := d.tickets.CountByCounter(ctx, req.Date)
	if err != nil {
		return AssignResult{}, err
	}

	// Device data is advisory; assignment proceeds without it.
	online, err := d.devices.OnlineCounters(ctx, ids)
	if err != nil {
		d.log.Warn().Err(err).Msg("device liveness lookup failed, skipping filter")
		online = nil
	}

	chosen, err := SelectCounter(counters, requested, load, online)
	if err != nil {
		return AssignResult{}, err
	}

	now := d.now()
	if err := d.counters.TouchLastAssigned(ctx, chosen.CounterID, now); err != nil {
		d.log.Warn().Err(err).Str("counter_id", chosen.CounterID).Msg("fairness marker update failed")
	}

	eta := EstimateETA(req.Date, win, load[chosen.CounterID], ix.AvgMinutes(requested), now)

	issued, err := d.tickets.CountTicketsForDate(ctx, req.Date)
	if err != nil {
		return AssignResult{}, err
	}

	ticket, err := d.tickets.InsertTicket(ctx, models.Ticket{
		TicketID:   uuid.NewString(),
		CustomerID: req.CustomerID,
		Date:       req.Date,
		Services:   requested,
		CounterID:  chosen.CounterID,
		Token:      Token(req.Date, issued),
		Channel:    req.Channel,
		ETATime:    eta,
		CreatedAt:  now,
	})
	if err != nil {
		return AssignResult{}, err
	}

	monitoring.TicketsIssued.WithLabelValues(ticket.Channel).Inc()
	d.log.Info().
		Str("token", ticket.Token).
		Str("counter_id", chosen.CounterID).
		Str("eta", eta).
		Str("channel", ticket.Channel).
		Msg("ticket assigned")

	return AssignResult{Ticket: ticket, Counter: chosen}, nil
}

// RecordCall stores the call log row for a phone-channel intake. Failures
// are logged and swallowed; the ticket is the primary artifact.
func (d *Dispatcher) RecordCall(ctx context.Context, log models.CallLog) {
	log.CallID = uuid.NewString()
	log.CreatedAt = d.now()
	if _, err := d.calls.InsertCallLog(ctx, log); err != nil {
		d.log.Warn().Err(err).Str("token", log.Token).Msg("call log insert failed")
	}
}
