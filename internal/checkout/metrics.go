package checkout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "orders_submitted_total",
		Help:      "Total number of successfully submitted orders.",
	})

	submitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "submit_failures_total",
		Help:      "Total number of failed order submissions.",
	})

	doubleSubmitRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "double_submit_rejected_total",
		Help:      "Total number of submit triggers rejected while a submission was in flight.",
	})

	staleResultsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "stale_results_discarded_total",
		Help:      "Total number of submission results discarded because the workflow had moved on.",
	})

	submitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "submit_duration_seconds",
		Help:      "Histogram of order submission durations in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)
