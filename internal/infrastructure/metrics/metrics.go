package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ForecastRuns counts forecast pipeline runs by outcome.
	ForecastRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_runs_total",
			Help: "Total number of forecast pipeline runs",
		},
		[]string{"outcome"},
	)

	// ForecastDuration observes end-to-end pipeline duration.
	ForecastDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forecast_duration_seconds",
			Help:    "Forecast pipeline duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// OccurrencesExpanded observes how many occurrences a run materializes.
	OccurrencesExpanded = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forecast_occurrences_expanded",
			Help:    "Occurrences materialized per forecast run",
			Buckets: prometheus.ExponentialBuckets(10, 4, 6),
		},
	)

	// PriceLookups counts price lookups by result.
	PriceLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_lookups_total",
			Help: "Total number of equity price lookups",
		},
		[]string{"result"},
	)

	// PriceLookupDuration observes quote fetch latency.
	PriceLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "price_lookup_duration_seconds",
			Help:    "Price lookup duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
)

// Price lookup result labels.
const (
	LookupHit    = "hit"
	LookupFetch  = "fetch"
	LookupPinned = "pinned"
	LookupError  = "error"
)
