package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hudumahub_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hudumahub_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// ChatConnections tracks currently joined realtime chat connections.
	ChatConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hudumahub_chat_connections",
			Help: "Number of joined websocket chat connections",
		},
	)

	// MessagesPersisted counts chat messages stored by ingress path (realtime|api).
	MessagesPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hudumahub_messages_persisted_total",
			Help: "Total number of chat messages persisted",
		},
		[]string{"path"},
	)

	// NotificationsCreated counts notifications produced by message fan-out.
	NotificationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hudumahub_notifications_created_total",
			Help: "Total number of notifications created",
		},
	)
)
