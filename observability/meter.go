package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/hydrakit/logger"
)

// Request outcomes.
const (
	// OutcomeSuccess is a 2xx response decoded into a payload.
	OutcomeSuccess = "success"
	// OutcomeFailure is a protocol failure (non-2xx) returned as data.
	OutcomeFailure = "failure"
	// OutcomeError is a transport or decoding error returned to the caller.
	OutcomeError = "error"
)

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	cfg.ApplyDefaults()

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Debug("Meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// RequestMetrics holds the instruments recorded per client request.
type RequestMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// NewRequestMetrics creates the client instruments on meter.
func NewRequestMetrics(meter metric.Meter) (*RequestMetrics, error) {
	total, err := meter.Int64Counter("hydra.client.requests",
		metric.WithDescription("Requests sent, by method, status and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hydra.client.requests counter: %w", err)
	}

	duration, err := meter.Float64Histogram("hydra.client.request.duration",
		metric.WithDescription("Round trip duration including decoding"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hydra.client.request.duration histogram: %w", err)
	}

	active, err := meter.Int64UpDownCounter("hydra.client.requests.active",
		metric.WithDescription("Requests currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hydra.client.requests.active counter: %w", err)
	}

	return &RequestMetrics{total: total, duration: duration, active: active}, nil
}

// RecordStart marks a request as in flight.
func (m *RequestMetrics) RecordStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1)
}

// RecordEnd records a finished request. status is 0 when no response was
// received.
func (m *RequestMetrics) RecordEnd(ctx context.Context, method string, status int, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.active.Add(ctx, -1)
	m.total.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", strconv.Itoa(status)),
		attribute.String("outcome", outcome),
	))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
}
