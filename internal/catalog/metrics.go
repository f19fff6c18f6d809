package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess   = "success"
	outcomeFallback  = "fallback"
	outcomeMalformed = "malformed"
)

type FetchMetrics struct {
	Outcomes *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewFetchMetrics(reg prometheus.Registerer) *FetchMetrics {
	m := &FetchMetrics{
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_fetch_total",
				Help: "Catalog fetches by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_fetch_duration_seconds",
				Help:    "Catalog fetch latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"source"},
		),
	}

	reg.MustRegister(m.Outcomes, m.Duration)
	return m
}

func (m *FetchMetrics) observe(source, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(source, outcome).Inc()
	m.Duration.WithLabelValues(source).Observe(time.Since(started).Seconds())
}
