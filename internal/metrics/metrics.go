// Package metrics holds the Prometheus collectors for the HTTP surface and
// for draft lifecycle events.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTP groups request collectors.
type HTTP struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTP creates and registers request collectors on reg.
func NewHTTP(namespace string, reg prometheus.Registerer) *HTTP {
	m := &HTTP{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	reg.MustRegister(m.ReqTotal, m.ReqDur, m.InFlight)
	return m
}

// DurationMillis converts a duration to milliseconds for observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var (
	domainOnce sync.Once

	// QuotesTotal counts stateless quotes by pricing mode.
	QuotesTotal *prometheus.CounterVec
	// DraftEventsTotal counts draft lifecycle events.
	DraftEventsTotal *prometheus.CounterVec
	// ExportsTotal counts rendered exports by format and outcome.
	ExportsTotal *prometheus.CounterVec
)

// MustRegisterDomain initialises and registers the draft collectors. Until
// it is called the Record helpers are no-ops.
func MustRegisterDomain(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		QuotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_quotes_total",
			Help:      "Count of pricing quotes by mode.",
		}, []string{"mode"})
		DraftEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draft_events_total",
			Help:      "Count of purchase draft lifecycle events.",
		}, []string{"event"})
		ExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draft_exports_total",
			Help:      "Count of draft exports by format and result.",
		}, []string{"format", "result"})

		for _, c := range []prometheus.Collector{QuotesTotal, DraftEventsTotal, ExportsTotal} {
			if err := reg.Register(c); err != nil {
				panic(fmt.Errorf("register domain metric: %w", err))
			}
		}
	})
}

// RecordQuote counts one quote priced in mode.
func RecordQuote(mode string) {
	if QuotesTotal != nil {
		QuotesTotal.WithLabelValues(mode).Inc()
	}
}

// RecordDraftEvent counts one lifecycle event such as "created" or "finalized".
func RecordDraftEvent(event string) {
	if DraftEventsTotal != nil {
		DraftEventsTotal.WithLabelValues(event).Inc()
	}
}

// RecordExport counts one export attempt.
func RecordExport(format, result string) {
	if ExportsTotal != nil {
		ExportsTotal.WithLabelValues(format, result).Inc()
	}
}
