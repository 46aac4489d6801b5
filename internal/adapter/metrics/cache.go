package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics tracks the insights summary cache.
type CacheMetrics struct {
	Hits          *prometheus.CounterVec
	Misses        prometheus.Counter
	Computations  prometheus.Counter
	Invalidations *prometheus.CounterVec
	Errors        *prometheus.CounterVec
}

func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insights_cache",
			Name:      "hits_total",
			Help:      "Insights cache hits, by layer (memory, redis).",
		}, []string{"layer"}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insights_cache",
			Name:      "misses_total",
			Help:      "Insights cache lookups that missed every layer.",
		}),
		Computations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insights_cache",
			Name:      "computations_total",
			Help:      "Summaries computed after a miss (after singleflight collapsing).",
		}),
		Invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insights_cache",
			Name:      "invalidations_total",
			Help:      "Insights cache invalidations, by source (local, remote).",
		}, []string{"source"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insights_cache",
			Name:      "errors_total",
			Help:      "Redis errors seen by the insights cache, by operation.",
		}, []string{"operation"}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Computations, m.Invalidations, m.Errors)
	return m
}
