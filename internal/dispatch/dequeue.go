package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samanbandara/bank/internal/catalog"
	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/monitoring"
	"github.com/samanbandara/bank/internal/store"
)

type DequeueResult struct {
	DeletedToken  string                `json:"deletedToken"`
	NextToken     *string               `json:"nextToken"`
	NextTicket    *models.Ticket        `json:"nextTicket"`
	DeletedTicket models.ArchivedTicket `json:"deletedTicket"`
}

// Dequeue handles a physical trigger from the given device: it resolves the
// assigned counter, pops and archives the oldest active ticket, reports the
// new head, and may enqueue a derived follow-up ticket. The follow-up step
// never fails the dequeue.
func (d *Dispatcher) Dequeue(ctx context.Context, deviceKey string) (DequeueResult, error) {
	device, err := d.devices.GetDevice(ctx, deviceKey)
	if err != nil {
		return DequeueResult{}, err
	}
	if device.AssignedCounterID == "" {
		return DequeueResult{}, ErrDeviceNotAssigned
	}

	label := device.AssignedCounterID
	if counter, err := d.counters.GetCounter(ctx, device.AssignedCounterID); err == nil && counter.DisplayName != "" {
		label = counter.DisplayName
	}

	deleted, next, err := d.tickets.DequeueOldest(ctx, device.AssignedCounterID, d.now())
	if err != nil {
		if errors.Is(err, store.ErrQueueEmpty) {
			return DequeueResult{}, EmptyQueueError{Counter: label}
		}
		return DequeueResult{}, err
	}

	monitoring.Dequeues.Inc()
	d.log.Info().
		Str("token", deleted.Token).
		Str("counter_id", device.AssignedCounterID).
		Msg("ticket dequeued")

	d.enqueueFollowUp(ctx, deleted)

	result := DequeueResult{DeletedToken: deleted.Token, DeletedTicket: deleted, NextTicket: next}
	if next != nil {
		result.NextToken = &next.Token
	}
	return result, nil
}

// enqueueFollowUp applies the dual-service routing rule: a popped ticket
// that requested both paired codes spawns a single-service ticket for the
// second code at a secondary counter, reusing the original token.
func (d *Dispatcher) enqueueFollowUp(ctx context.Context, popped models.ArchivedTicket) {
	if !containsFold(popped.Services, d.followUp.First) || !containsFold(popped.Services, d.followUp.Second) {
		return
	}
	if err := d.tryFollowUp(ctx, popped); err != nil {
		monitoring.FollowUpFailures.Inc()
		d.log.Warn().Err(err).Str("token", popped.Token).Msg("follow-up enqueue failed")
	}
}

func (d *Dispatcher) tryFollowUp(ctx context.Context, popped models.ArchivedTicket) error {
	services, err := d.catalog.ListServices(ctx)
	if err != nil {
		return err
	}
	ix := catalog.NewIndex(services)
	second := strings.ToLower(d.followUp.Second)

	counters, err := d.counters.ListCounters(ctx)
	if err != nil {
		return err
	}
	var candidates []models.Counter
	for _, c := range counters {
		if containsFold(ix.Normalize(c.SupportedServices), second) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return ErrNoCoverage
	}
	target := candidates[0]
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.CounterID), d.followUp.CounterHint) {
			target = c
			break
		}
	}

	depth, err := d.tickets.CountQueueDepth(ctx, target.CounterID)
	if err != nil {
		return err
	}
	avg := ix.AvgMinutes([]string{second})
	now := d.now()
	eta := now.Add(time.Duration(float64(depth) * avg * float64(time.Minute))).Format("15:04")

	_, err = d.tickets.InsertTicket(ctx, models.Ticket{
		TicketID:   uuid.NewString(),
		CustomerID: popped.CustomerID,
		Date:       popped.Date,
		Services:   []string{second},
		CounterID:  target.CounterID,
		Token:      popped.Token,
		Channel:    popped.Channel,
		ETATime:    eta,
		CreatedAt:  now,
	})
	if err != nil {
		return err
	}

	monitoring.FollowUpsEnqueued.Inc()
	d.log.Info().
		Str("token", popped.Token).
		Str("counter_id", target.CounterID).
		Str("service", second).
		Msg("follow-up ticket enqueued")
	return nil
}

func containsFold(codes []string, target string) bool {
	for _, code := range codes {
		if strings.EqualFold(code, target) {
			return true
		}
	}
	return false
}
