package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "usersadmin", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "usersadmin", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "usersadmin", Name: "store_operations_total", Help: "User store operations by operation and outcome."},
		[]string{"op", "outcome"},
	)
	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "usersadmin", Name: "store_operation_duration_seconds", Help: "Round-trip time of user store operations.", Buckets: prometheus.DefBuckets},
		[]string{"op"},
	)
	StoreUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "usersadmin", Name: "store_users", Help: "Users currently held by the store."},
	)
	StaleFetchesDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "usersadmin", Name: "store_stale_fetches_discarded_total", Help: "Fetch responses dropped because a newer fetch was already applied."},
	)
)

// Outcome labels for StoreOperations.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(StoreOperations)
	reg.MustRegister(StoreOperationDuration)
	reg.MustRegister(StoreUsers)
	reg.MustRegister(StaleFetchesDiscarded)
}
