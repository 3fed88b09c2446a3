// Package monitoring holds the process-wide Prometheus collectors.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Tickets issued, by intake channel",
		},
		[]string{"channel"},
	)

	Dequeues = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_dequeues_total",
			Help: "Tickets dequeued by physical button triggers",
		},
	)

	FollowUpsEnqueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "follow_up_tickets_total",
			Help: "Automatically enqueued follow-up tickets",
		},
	)

	FollowUpFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "follow_up_failures_total",
			Help: "Follow-up enqueue attempts that were logged and dropped",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests, by method and status class",
		},
		[]string{"method", "status"},
	)

	HTTPDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
	)
)
