package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the server exports. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Rating ledger metrics
	RatingWritesTotal       *prometheus.CounterVec
	AggregateRecomputeTotal *prometheus.CounterVec
	AggregateTxDuration     prometheus.Histogram

	// Account metrics
	DeactivationsTotal *prometheus.CounterVec
	LoginAttemptsTotal *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg under namespace
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		RatingWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rating_writes_total",
				Help:      "Rating ledger writes by operation (created, updated, deleted, noop)",
			},
			[]string{"op"},
		),
		AggregateRecomputeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "aggregate_recompute_total",
				Help:      "Store aggregate recomputations by result",
			},
			[]string{"result"},
		),
		AggregateTxDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rating_tx_duration_seconds",
				Help:      "Duration of the rating write plus aggregate recomputation transaction",
				Buckets:   prometheus.DefBuckets,
			},
		),
		DeactivationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "account_deactivations_total",
				Help:      "Owner/store deactivations by entry point",
			},
			[]string{"origin"},
		),
		LoginAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts by result",
			},
			[]string{"result"},
		),
	}
}

// RatingWrite counts a ledger write
func (m *Metrics) RatingWrite(op string) {
	if m == nil {
		return
	}
	m.RatingWritesTotal.WithLabelValues(op).Inc()
}

// RatingTx records the outcome and duration of one rating transaction
func (m *Metrics) RatingTx(start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rolled_back"
	}
	m.AggregateRecomputeTotal.WithLabelValues(result).Inc()
	m.AggregateTxDuration.Observe(time.Since(start).Seconds())
}

// Deactivation counts a cascade triggered from origin ("user" or "store")
func (m *Metrics) Deactivation(origin string) {
	if m == nil {
		return
	}
	m.DeactivationsTotal.WithLabelValues(origin).Inc()
}

// LoginAttempt counts a login by result
func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// Middleware records request count, latency and in-flight requests
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
