package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courieraudit_runs_total",
		Help: "Total number of reconciliation runs executed.",
	})

	quarantinedRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courieraudit_quarantined_rows_total",
		Help: "Total number of rows quarantined across all runs.",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "courieraudit_run_duration_seconds",
		Help:    "Wall-clock duration of reconciliation runs.",
		Buckets: prometheus.DefBuckets,
	})
)
