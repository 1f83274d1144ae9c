package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors exposed on /metrics.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	MatchedElements *prometheus.CounterVec
	MatchScore      prometheus.Histogram
	DemandLines     *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beamcut_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "beamcut_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		MatchedElements: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beamcut_match_elements_total",
				Help: "Elements evaluated by the matcher",
			},
			[]string{"outcome"},
		),
		MatchScore: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "beamcut_match_score",
				Help:    "Match scores of matched elements",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
		),
		DemandLines: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beamcut_demand_lines_total",
				Help: "Demand lines processed by status",
			},
			[]string{"status"},
		),
	}
}
