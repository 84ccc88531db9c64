// Package metrics collects HTTP request metrics for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request counts and latencies per route.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	records  *prometheus.CounterVec
}

// NewCollector registers the collector's metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offerboard_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "offerboard_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offerboard_record_writes_total",
			Help: "Successful record writes by kind and operation.",
		}, []string{"kind", "op"}),
	}
	reg.MustRegister(c.requests, c.latency, c.records)
	return c
}

// ObserveRequest records one served request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordWrite counts a successful create, update or delete.
func (c *Collector) RecordWrite(kind, op string) {
	c.records.WithLabelValues(kind, op).Inc()
}

// Handler returns the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
