package observability

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	aggregateOps       *prometheus.CounterVec
	aggregateLatency   *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec

	voteTransitions *prometheus.CounterVec
	feedRequests    *prometheus.CounterVec
	feedLatency     *prometheus.HistogramVec
	feedItems       *prometheus.HistogramVec
	realtimeEvents  *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

// Current returns the process metrics, or nil before Init.
func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics once.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("prometheus metrics initialized")
		}
	})
	return instance
}

// New builds metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	latencyBuckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibemix_api_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vibemix_api_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: latencyBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "vibemix_api_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		aggregateOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibemix_aggregate_operations_total",
			Help: "Aggregate write operations by name and status.",
		}, []string{"op", "status"}),
		aggregateLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vibemix_aggregate_operation_duration_seconds",
			Help:    "Aggregate write latency including retries.",
			Buckets: latencyBuckets,
		}, []string{"op"}),
		aggregateConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibemix_aggregate_conflicts_total",
			Help: "Aggregate writes rejected with a conflict.",
		}, []string{"op"}),
		aggregateRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibemix_aggregate_retries_total",
			Help: "Aggregate transactions retried after a transient store error.",
		}, []string{"op"}),
		voteTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibemix_vote_transitions_total",
			Help: "Accepted votes by transition (created, flipped).",
		}, []string{"transition", "direction"}),
		feedRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibemix_feed_requests_total",
			Help: "Feed pages served by strategy, mode and status.",
		}, []string{"strategy", "mode", "status"}),
		feedLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vibemix_feed_duration_seconds",
			Help:    "Feed page build latency.",
			Buckets: latencyBuckets,
		}, []string{"strategy"}),
		feedItems: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vibemix_feed_items",
			Help:    "Items returned per feed page.",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		}, []string{"strategy"}),
		realtimeEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vibemix_realtime_events_total",
			Help: "Realtime events published by event and status.",
		}, []string{"event", "status"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.WithLabelValues(op, status).Inc()
	m.aggregateLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(op).Inc()
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(op).Inc()
}

func (m *Metrics) IncVoteTransition(transition, direction string) {
	if m == nil {
		return
	}
	m.voteTransitions.WithLabelValues(transition, direction).Inc()
}

func (m *Metrics) ObserveFeed(strategy, mode, status string, items int, dur time.Duration) {
	if m == nil {
		return
	}
	m.feedRequests.WithLabelValues(strategy, mode, status).Inc()
	m.feedLatency.WithLabelValues(strategy).Observe(dur.Seconds())
	if status == "success" {
		m.feedItems.WithLabelValues(strategy).Observe(float64(items))
	}
}

func (m *Metrics) IncRealtimeEvent(event, status string) {
	if m == nil {
		return
	}
	m.realtimeEvents.WithLabelValues(event, status).Inc()
}
