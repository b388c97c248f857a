package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_runs_total",
			Help: "Total matching runs by outcome (matched, empty, error)",
		},
		[]string{"outcome"},
	)

	LeadsDistributed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_distributed_total",
			Help: "Total partner assignments committed to inquiries",
		},
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "matching_duration_seconds",
			Help: "Duration of one matching run in seconds",
		},
	)
)
