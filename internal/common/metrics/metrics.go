// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_events_received_total",
			Help: "Total number of events received by the dispatch pipeline",
		},
		[]string{"kind"},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_events_dropped_total",
			Help: "Total number of events dropped before delivery",
		},
		[]string{"reason"},
	)

	NotificationsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_notifications_stored_total",
			Help: "Total number of in-app notification records written",
		},
		[]string{"type"},
	)

	NotificationStoreFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_notification_store_failures_total",
			Help: "Total number of failed in-app notification writes",
		},
	)

	PushResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_push_results_total",
			Help: "Push dispatch results by outcome (sent, skipped, failed)",
		},
		[]string{"result"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dispatch_duration_seconds",
			Help: "Duration of full event dispatch in seconds",
		},
		[]string{"kind"},
	)
)
