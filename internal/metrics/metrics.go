package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeApplied              = "applied"
	OutcomeInvalidRequest       = "invalid_request"
	OutcomeConfigurationMissing = "configuration_missing"
	OutcomeNoApplicableRule     = "no_applicable_rule"
	OutcomeStoreFailure         = "store_failure"
)

var (
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fee_resolutions_total",
			Help: "Total number of fee resolutions by outcome",
		},
		[]string{"outcome"},
	)

	AppliedFees = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fee_applied_total",
			Help: "Number of resolutions per applied fee id",
		},
		[]string{"fee_id"},
	)

	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fee_resolution_duration_seconds",
			Help:    "Duration of fee resolutions",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	ConfigurationUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fee_configuration_updates_total",
			Help: "Fee configuration provisioning attempts by source and status",
		},
		[]string{"source", "status"},
	)
)
