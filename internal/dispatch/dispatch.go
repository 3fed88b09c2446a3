// Package dispatch is the counter assignment and queue dispatch engine: it
// turns a service request into an assigned, tokenized ticket and reacts to
// physical button triggers by advancing the queue.
package dispatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/samanbandara/bank/internal/schedule"
	"github.com/samanbandara/bank/internal/store"
)

var (
	ErrBankClosed        = errors.New("bank is closed on the selected day")
	ErrUnknownServices   = errors.New("requested services did not match any known service ids")
	ErrNoCounters        = errors.New("no counters available")
	ErrNoCoverage        = errors.New("no counter supports the requested services")
	ErrDeviceNotAssigned = errors.New("device is not assigned to a counter")
)

// EmptyQueueError carries the counter label for the caller-visible message.
type EmptyQueueError struct {
	Counter string
}

func (e EmptyQueueError) Error() string {
	return fmt.Sprintf("no customer in queue for counter %s", e.Counter)
}

// FollowUpRule describes the service pairing that triggers a derived
// follow-up ticket on dequeue. When a popped ticket requested both First and
// Second, a new single-service ticket for Second is enqueued at a counter
// whose id contains CounterHint (falling back to the first match).
type FollowUpRule struct {
	First       string
	Second      string
	CounterHint string
}

type Dispatcher struct {
	tickets   store.TicketStore
	counters  store.CounterStore
	devices   store.DeviceStore
	catalog   store.CatalogStore
	calls     store.CallStore
	schedules *schedule.Resolver
	followUp  FollowUpRule
	log       zerolog.Logger
	now       func() time.Time
}

type Options struct {
	FollowUp FollowUpRule

	// Now overrides the wall clock in tests.
	Now func() time.Time
}

func New(
	tickets store.TicketStore,
	counters store.CounterStore,
	devices store.DeviceStore,
	catalog store.CatalogStore,
	calls store.CallStore,
	schedules *schedule.Resolver,
	log zerolog.Logger,
	options Options,
) *Dispatcher {
	rule := options.FollowUp
	if rule.First == "" {
		rule.First = "sv01"
	}
	if rule.Second == "" {
		rule.Second = "sv06"
	}
	if rule.CounterHint == "" {
		rule.CounterHint = "5"
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		tickets:   tickets,
		counters:  counters,
		devices:   devices,
		catalog:   catalog,
		calls:     calls,
		schedules: schedules,
		followUp:  rule,
		log:       log,
		now:       now,
	}
}

// Schedules exposes the resolver for request-layer checks (the call channel
// validates closing time before entering the pipeline).
func (d *Dispatcher) Schedules() *schedule.Resolver {
	return d.schedules
}
