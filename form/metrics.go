package form

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindForm  = "form"
	kindField = "field"

	outcomeValid   = "valid"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

var (
	validations = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "form_validations_total",
		Help: "The total number of completed or failed validation passes",
	}, []string{"kind", "outcome"})

	validationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "form_validation_duration_seconds",
		Help:    "Time spent in the schema during a validation pass",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), //nolint:mnd
	}, []string{"kind"})
)

func observe(enabled bool, kind, outcome string, elapsed time.Duration) {
	if !enabled {
		return
	}

	validations.WithLabelValues(kind, outcome).Inc()
	validationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
