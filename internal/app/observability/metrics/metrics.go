package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AuthMetrics holds the application's metric instruments.
type AuthMetrics struct {
	LoginAttemptsTotal      metric.Int64Counter
	TokenVerificationsTotal metric.Int64Counter
	GateDecisionsTotal      metric.Int64Counter
}

var (
	authMetrics *AuthMetrics
	once        sync.Once
)

// InitAuthMetrics initializes the global metric instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so it works
// both with the Prometheus-backed provider in production and the no-op
// provider in tests.
func InitAuthMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-authgate")
		var err error
		m := &AuthMetrics{}

		m.LoginAttemptsTotal, err = meter.Int64Counter(
			"auth_login_attempts_total",
			metric.WithDescription("Total number of login attempts by outcome"),
			metric.WithUnit("{attempt}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_login_attempts_total: %v", err)
		}

		m.TokenVerificationsTotal, err = meter.Int64Counter(
			"auth_token_verifications_total",
			metric.WithDescription("Total number of session token verifications by outcome"),
			metric.WithUnit("{verification}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_token_verifications_total: %v", err)
		}

		m.GateDecisionsTotal, err = meter.Int64Counter(
			"auth_gate_decisions_total",
			metric.WithDescription("Total number of authorization gate decisions by decision"),
			metric.WithUnit("{decision}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_gate_decisions_total: %v", err)
		}

		authMetrics = m
	})
}

// Get returns the global instruments, initializing them if needed.
func Get() *AuthMetrics {
	InitAuthMetrics()
	return authMetrics
}
