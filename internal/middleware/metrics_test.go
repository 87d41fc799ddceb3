package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"pharmabill/internal/metrics"
	"pharmabill/internal/middleware"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	m := metrics.NewHTTP("mw", prometheus.NewRegistry())
	r := gin.New()
	r.Use(middleware.Metrics(m))
	r.GET("/drafts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/drafts/a", "/drafts/b", "/nowhere"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReqTotal.WithLabelValues("GET", "/drafts/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReqTotal.WithLabelValues("GET", "unknown", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}

func TestMetrics_CountsRecoveredPanic(t *testing.T) {
	m := metrics.NewHTTP("mw_panic", prometheus.NewRegistry())
	r := gin.New()
	r.Use(middleware.Metrics(m), middleware.Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReqTotal.WithLabelValues("GET", "/boom", "500")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}

func TestMetrics_InFlightReleasedOnPanic(t *testing.T) {
	m := metrics.NewHTTP("mw_unwind", prometheus.NewRegistry())
	r := gin.New()
	r.Use(middleware.Metrics(m))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", http.NoBody)
	assert.Panics(t, func() { r.ServeHTTP(w, req) })

	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}
