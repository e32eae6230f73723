package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	SnapshotBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dash_snapshot_builds_total",
			Help: "Snapshot computations by origin",
		},
		[]string{"origin"}, // build|cache
	)

	SectionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dash_section_failures_total",
			Help: "Dashboard sections that could not be computed",
		},
		[]string{"section"},
	)

	SnapshotDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dash_snapshot_build_seconds",
			Help:    "Time spent loading data and computing a snapshot",
			Buckets: prometheus.DefBuckets,
		},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dash_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)

	OrdersIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dash_orders_ingested_total",
			Help: "Order events consumed by the ingest worker",
		},
		[]string{"result"}, // stored|skipped|failed
	)

	NotifyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dash_notify_total",
			Help: "Webhook deliveries by sink and result",
		},
		[]string{"sink", "result"},
	)
)

// MustRegister registers every collector. Registering twice on the same
// registerer is a no-op.
func MustRegister(r prometheus.Registerer) {
	for _, c := range []prometheus.Collector{
		SnapshotBuilds,
		SectionFailures,
		SnapshotDuration,
		HTTPRequests,
		OrdersIngested,
		NotifyTotal,
	} {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			panic(err)
		}
	}
}
