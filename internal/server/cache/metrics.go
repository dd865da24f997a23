package cache

import "github.com/prometheus/client_golang/prometheus"

var cacheOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "postsets",
		Subsystem: "cache",
		Name:      "operations_total",
		Help:      "Total number of cache operations, by cache, operation and result.",
	},
	[]string{"cache", "operation", "result"})

func init() {
	prometheus.MustRegister(cacheOperationsTotal)
}
