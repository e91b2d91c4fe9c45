// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records HTTP traffic, refused tokens and unit-of-work outcomes.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	authFailures *prometheus.CounterVec
	txTotal      *prometheus.CounterVec
	rateLimited  prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tweetbook_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tweetbook_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tweetbook_auth_failures_total",
			Help: "Refused identity tokens by reason.",
		}, []string{"reason"}),
		txTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tweetbook_unit_of_work_total",
			Help: "Units of work by outcome.",
		}, []string{"outcome"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tweetbook_rate_limited_total",
			Help: "Requests refused by the auth rate limiter.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.authFailures,
		c.txTotal,
		c.rateLimited,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) ObserveAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveTx(committed bool) {
	outcome := "rolled_back"
	if committed {
		outcome = "committed"
	}
	c.txTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
