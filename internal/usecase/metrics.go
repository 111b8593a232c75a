package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carhaven_catalog_fetches_total",
		Help: "The total number of catalog reads from the content store",
	})
	catalogFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carhaven_catalog_fetch_failures_total",
		Help: "The total number of failed catalog reads",
	})
	catalogSnapshotHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carhaven_catalog_snapshot_hits_total",
		Help: "The total number of catalog reads served from the snapshot cache",
	})
	catalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "carhaven_catalog_items",
		Help: "The number of cars in the last fetched catalog",
	})
	comparisonMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carhaven_comparison_mutations_total",
		Help: "The total number of comparison set mutations by operation",
	}, []string{"op"})
	comparisonPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carhaven_comparison_persist_failures_total",
		Help: "The total number of comparison sets that could not be written",
	})
)
