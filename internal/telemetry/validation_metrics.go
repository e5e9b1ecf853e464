package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ValidationMetrics holds Prometheus metrics for address validation
// observability. All metrics include a provider label so dashboards can
// segment Google vs Smarty behavior.
type ValidationMetrics struct {
	// Validation outcomes
	ValidationsTotal *prometheus.CounterVec

	// Provider failures
	ProviderErrors *prometheus.CounterVec

	// Fallback activity
	FallbacksTotal *prometheus.CounterVec

	// External API performance
	ProviderLatency *prometheus.HistogramVec
}

// NewValidationMetrics creates and registers all validation metrics
func NewValidationMetrics(namespace string) *ValidationMetrics {
	if namespace == "" {
		namespace = "address_validator"
	}

	subsystem := "validation"

	m := &ValidationMetrics{
		ValidationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "outcomes_total",
				Help:      "Total validation outcomes by provider and status",
			},
			[]string{"provider", "status"}, // status: VALID, CORRECTED, UNVERIFIABLE
		),
		ProviderErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "provider_errors_total",
				Help:      "Total provider failures by provider and error kind",
			},
			[]string{"provider", "kind"}, // kind: not_configured, transport, api
		),
		FallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fallbacks_total",
				Help:      "Total times the secondary provider was consulted",
			},
			[]string{"reason"}, // reason: unverifiable, provider_error
		),
		ProviderLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "provider_duration_seconds",
				Help:      "Duration of upstream provider calls in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"provider"},
		),
	}

	return m
}

// Global instance for easy access from the service layer
var Validation *ValidationMetrics

// InitValidationMetrics initializes the global validation metrics instance
func InitValidationMetrics(namespace string) *ValidationMetrics {
	Validation = NewValidationMetrics(namespace)
	return Validation
}
