package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "transit",
		Name:      "bookings_created_total",
		Help:      "The total number of bookings created",
	})

	// BookingTransitions counts successful status changes by target status.
	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "transit",
			Name:      "booking_transitions_total",
			Help:      "The total number of booking status transitions",
		},
		[]string{"to"},
	)

	InventoryConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "transit",
		Name:      "inventory_conflicts_total",
		Help:      "Reservations rejected for insufficient inventory",
	})

	SweeperExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "transit",
		Name:      "sweeper_expired_total",
		Help:      "Bookings expired by the sweeper",
	})

	SweeperFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "transit",
		Name:      "sweeper_failures_total",
		Help:      "Bookings the sweeper failed to expire",
	})

	PaymentCallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "transit",
			Name:      "payment_callbacks_total",
			Help:      "Gateway callbacks by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// MessagesProcessed The total number of processed messages (counter)
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"topic", "handler"},
	)

	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"topic", "handler"},
	)

	MessagesProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "messages",
			Name:       "processing_duration_seconds",
			Help:       "The total time spent processing messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic", "handler"},
	)
)
