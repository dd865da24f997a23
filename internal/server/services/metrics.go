package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var setOperationsDurationSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "postsets",
		Subsystem: "set",
		Name:      "operations_duration_seconds",
		Help:      "Amount of time spent per set service operation, in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	},
	[]string{"operation"})

func init() {
	prometheus.MustRegister(setOperationsDurationSeconds)
}

// observe records the time since start under operation. Use it as
// defer observe("op", time.Now()).
func observe(operation string, start time.Time) {
	setOperationsDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
