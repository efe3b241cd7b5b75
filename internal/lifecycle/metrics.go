package lifecycle

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docexd",
			Subsystem: "lifecycle",
			Name:      "loads_total",
			Help:      "Total resource constructions by kind",
		},
		[]string{"kind"},
	)

	evictionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docexd",
			Subsystem: "lifecycle",
			Name:      "evictions_total",
			Help:      "Total resource evictions by kind",
		},
		[]string{"kind"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docexd",
			Subsystem: "lifecycle",
			Name:      "cache_hits_total",
			Help:      "Acquire calls satisfied by a resident resource",
		},
		[]string{"kind"},
	)

	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docexd",
			Subsystem: "lifecycle",
			Name:      "cache_misses_total",
			Help:      "Acquire calls that triggered construction",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(loadsCounter, evictionsCounter, cacheHits, cacheMisses)
}
