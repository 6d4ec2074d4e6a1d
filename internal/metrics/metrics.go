package metrics

import "github.com/prometheus/client_golang/prometheus"

const metricPrefix = "velokassa_"

var (
	// Operations counts committed ledger mutations by operation name.
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "operations_total",
			Help: "Committed ledger operations",
		},
		[]string{"operation"},
	)

	// SnapshotSaves counts successful snapshot writes.
	SnapshotSaves = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "snapshot_saves_total",
			Help: "Snapshot writes to the local store",
		},
	)

	// SnapshotSaveFailures counts swallowed persistence errors.
	SnapshotSaveFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metricPrefix + "snapshot_save_failures_total",
			Help: "Failed snapshot writes (logged and swallowed)",
		},
	)
)

func init() {
	prometheus.MustRegister(Operations, SnapshotSaves, SnapshotSaveFailures)
}
