package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the counters recorded by the authentication flows.
type Metrics struct {
	logins            metric.Int64Counter
	tokenRotations    metric.Int64Counter
	singleUseConsumed metric.Int64Counter
	rateLimitRejected metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	logins, err := meter.Int64Counter("authkit.logins",
		metric.WithDescription("Login attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authkit.logins counter: %w", err)
	}

	rotations, err := meter.Int64Counter("authkit.token_rotations",
		metric.WithDescription("Refresh token rotations by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authkit.token_rotations counter: %w", err)
	}

	consumed, err := meter.Int64Counter("authkit.single_use_consumed",
		metric.WithDescription("Verification and reset token consumptions by purpose and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authkit.single_use_consumed counter: %w", err)
	}

	rejected, err := meter.Int64Counter("authkit.ratelimit_rejections",
		metric.WithDescription("Requests rejected by the rate limiter, by policy"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authkit.ratelimit_rejections counter: %w", err)
	}

	return &Metrics{
		logins:            logins,
		tokenRotations:    rotations,
		singleUseConsumed: consumed,
		rateLimitRejected: rejected,
	}, nil
}

// RecordLogin counts one login attempt. Outcome is "ok" or "rejected".
func (m *Metrics) RecordLogin(ctx context.Context, provider, outcome string) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
}

// RecordRotation counts one refresh token rotation attempt.
func (m *Metrics) RecordRotation(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.tokenRotations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordSingleUse counts one verification or reset consumption attempt.
func (m *Metrics) RecordSingleUse(ctx context.Context, purpose, outcome string) {
	if m == nil {
		return
	}
	m.singleUseConsumed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("purpose", purpose),
		attribute.String("outcome", outcome),
	))
}

// RecordRateLimitRejection counts one request turned away by policy.
func (m *Metrics) RecordRateLimitRejection(ctx context.Context, policy string) {
	if m == nil {
		return
	}
	m.rateLimitRejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("policy", policy),
	))
}
