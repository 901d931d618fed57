// Package metrics exposes Prometheus instrumentation for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveSessions tracks currently open stream sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_active_sessions",
		Help: "Number of open SSE stream sessions",
	})

	// FramesEmitted counts frames written to consumers by kind.
	FramesEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beacon_frames_emitted_total",
		Help: "Total SSE frames emitted to consumers",
	}, []string{"kind"}) // kind: data, error, heartbeat

	// PublishesAccepted counts publish requests by outcome.
	PublishesAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beacon_publishes_total",
		Help: "Total publish requests handled by the gateway",
	}, []string{"outcome"}) // outcome: ok, rejected, throttled, invalid

	// EventsDelivered counts envelope deliveries to matched subscribers.
	EventsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacon_events_delivered_total",
		Help: "Total envelope deliveries to matched subscribers",
	})

	// SubscriberDrops counts events dropped on full subscriber queues.
	SubscriberDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacon_subscriber_drops_total",
		Help: "Events dropped because a subscriber queue was full",
	})
)
