// Package metrics wires Prometheus instrumentation for the upstream
// feed clients.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec // feed label: tampere|turku|helsinki|digitransit|geocoding
	UpstreamErrors   *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec
	LastPollSuccess  *prometheus.GaugeVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transit_upstream_requests_total",
			Help: "Total upstream feed requests.",
		}, []string{"feed"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transit_upstream_errors_total",
			Help: "Total upstream feed requests that failed or decoded badly.",
		}, []string{"feed"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transit_upstream_fetch_duration_seconds",
			Help:    "Duration of upstream feed fetches.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"feed"}),
		LastPollSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "transit_upstream_last_success_timestamp_seconds",
			Help: "Unix time of the last successful fetch per feed.",
		}, []string{"feed"}),
	}

	reg.MustRegister(c.UpstreamRequests, c.UpstreamErrors, c.FetchDuration, c.LastPollSuccess)
	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
