package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RatingCounters(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.RatingWrite("created")
	m.RatingWrite("created")
	m.RatingWrite("updated")
	m.RatingTx(time.Now(), nil)
	m.RatingTx(time.Now(), errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RatingWritesTotal.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RatingWritesTotal.WithLabelValues("updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AggregateRecomputeTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AggregateRecomputeTotal.WithLabelValues("rolled_back")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RatingWrite("created")
		m.RatingTx(time.Now(), nil)
		m.Deactivation("user")
		m.LoginAttempt("success")
	})
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics("test", prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/ping", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
}
