package providers

import (
	"strconv"
	"time"

	"drift/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveStorageDuration(op string, duration time.Duration)
	IncStorageErrors(op string)
	IncActions(action string, accepted bool)
	AddXPAwarded(reason string, amount int)
	IncLevelUps()
	SetProgress(xp, level int)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	storageDuration *prometheus.HistogramVec
	storageErrors   *prometheus.CounterVec
	actionsTotal    *prometheus.CounterVec
	xpAwarded       *prometheus.CounterVec
	levelUps        prometheus.Counter
	xp              prometheus.Gauge
	level           prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveStorageDuration(op string, duration time.Duration) {
	m.storageDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncStorageErrors(op string) {
	m.storageErrors.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) IncActions(action string, accepted bool) {
	m.actionsTotal.WithLabelValues(action, strconv.FormatBool(accepted)).Inc()
}

// AddXPAwarded records gains and penalties separately; amount may be negative.
func (m *MetricsProvider) AddXPAwarded(reason string, amount int) {
	if amount < 0 {
		m.xpAwarded.WithLabelValues(reason, "penalty").Add(float64(-amount))
		return
	}
	m.xpAwarded.WithLabelValues(reason, "reward").Add(float64(amount))
}

func (m *MetricsProvider) IncLevelUps() {
	m.levelUps.Inc()
}

func (m *MetricsProvider) SetProgress(xp, level int) {
	m.xp.Set(float64(xp))
	m.level.Set(float64(level))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "drift_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drift_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drift_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drift_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		storageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drift_storage_duration_seconds",
			Help:    "Duration of key-value storage operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		storageErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "drift_storage_errors_total",
			Help: "Total number of failed key-value storage operations",
		}, []string{"op"}),

		actionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "drift_actions_total",
			Help: "User intents by action and whether they were accepted",
		}, []string{"action", "accepted"}),

		xpAwarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "drift_xp_awarded_total",
			Help: "XP granted or taken, by reason",
		}, []string{"reason", "kind"}),

		levelUps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drift_level_ups_total",
			Help: "Total number of level-ups",
		}),

		xp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "drift_xp",
			Help: "Current cumulative XP",
		}),

		level: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "drift_level",
			Help: "Current level index",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncStorageErrors(_ string)                        {}
func (n *noopMetrics) IncActions(_ string, _ bool)                      {}
func (n *noopMetrics) AddXPAwarded(_ string, _ int)                     {}
func (n *noopMetrics) IncLevelUps()                                     {}
func (n *noopMetrics) SetProgress(_, _ int)                             {}
