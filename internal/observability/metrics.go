package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Chat metrics
	ChatConnectionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chat_connections_active",
			Help: "Number of live WebSocket connections per room",
		},
		[]string{"batch_id"},
	)

	ChatMessagesBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_broadcast_total",
			Help: "Total number of frames broadcast to chat rooms",
		},
		[]string{"batch_id", "type"},
	)

	ChatPeersDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_peers_dropped_total",
			Help: "Connections removed from a room because delivery failed",
		},
	)

	// Rate limiter metrics
	RateLimitDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_denied_total",
			Help: "Requests denied by the fixed-window rate limiter",
		},
		[]string{"action"},
	)

	// Degraded-mode metrics: incremented whenever the key-value store is
	// unreachable and a component falls back (limiter fail-open, cache
	// miss-through). A normal allow or miss never touches these.
	StoreDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_degraded_total",
			Help: "Key-value store failures absorbed by graceful degradation",
		},
		[]string{"component"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Cache-aside reads served from the key-value store",
		},
		[]string{"resource"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Cache-aside reads that recomputed from source of truth",
		},
		[]string{"resource"},
	)
)
