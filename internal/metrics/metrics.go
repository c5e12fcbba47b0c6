package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered on the default registry and exposed by the
// serve command under /metrics.
var (
	ChainReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lendingscope_chain_reads_total",
		Help: "Contract read calls issued, by method.",
	}, []string{"method"})

	ChainReadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lendingscope_chain_read_failures_total",
		Help: "Contract read calls that returned an error, by method.",
	}, []string{"method"})

	IndexerFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lendingscope_indexer_fetches_total",
		Help: "Pool list fetches against the indexer, by outcome.",
	}, []string{"outcome"})

	QuoteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lendingscope_quote_cache_hits_total",
		Help: "Exchange-rate quotes served from the freshness cache.",
	})

	QuoteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lendingscope_quote_cache_misses_total",
		Help: "Exchange-rate quotes that required a chain read.",
	})

	SnapshotDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lendingscope_snapshot_duration_seconds",
		Help:    "Wall time of one snapshot tick.",
		Buckets: prometheus.DefBuckets,
	})
)
