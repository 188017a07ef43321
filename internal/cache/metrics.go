package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// operations counts cache operations by operation and result (hit, miss, ok, error).
var operations = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "cache_operations_total",
		Help: "Number of cache operations, differentiated by operation and result.",
	},
	[]string{"operation", "result"},
)

func observe(op, result string) {
	operations.WithLabelValues(op, result).Inc()
}
