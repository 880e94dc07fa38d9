package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("hydractl")
	if cfg.ServiceName != "hydractl" || cfg.Endpoint != "localhost:4318" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SampleRate != 1.0 || cfg.Interval != 15*time.Second || !cfg.Insecure {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigApplyDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint == "" || cfg.Environment == "" || cfg.Interval == 0 {
		t.Errorf("ApplyDefaults left zero values: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled config should validate: %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"sample rate too high", Config{SampleRate: 1.5}},
		{"negative sample rate", Config{SampleRate: -0.1}},
		{"enabled without name", Config{Enabled: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSampler(t *testing.T) {
	tests := map[float64]string{
		1.0: "AlwaysOnSampler",
		2.0: "AlwaysOnSampler",
		0:   "AlwaysOffSampler",
	}
	for rate, want := range tests {
		if got := sampler(rate).Description(); got != want {
			t.Errorf("sampler(%v) = %q, want %q", rate, got, want)
		}
	}
	if got := sampler(0.5).Description(); got == "AlwaysOnSampler" || got == "AlwaysOffSampler" {
		t.Errorf("sampler(0.5) should be ratio based, got %q", got)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(Config{ServiceName: "hydractl", ServiceVersion: "1.2.0", Environment: "test"})
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "hydractl" || found["service.version"] != "1.2.0" {
		t.Errorf("missing service attributes: %v", found)
	}
}

func TestStartSpan(t *testing.T) {
	exporter := useRecorder(t)

	ctx, span := StartSpan(context.Background(), "test-operation")
	if !SpanFromContext(ctx).SpanContext().IsValid() {
		t.Error("expected a valid span in context")
	}
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "test-operation" {
		t.Fatalf("unexpected spans: %+v", spans)
	}
	if spans[0].InstrumentationScope.Name != instrumentationName {
		t.Errorf("scope = %q", spans[0].InstrumentationScope.Name)
	}
}

func TestOperation_Success(t *testing.T) {
	exporter := useRecorder(t)

	ctx, op := StartOperation(context.Background(), SpanHydraRequest, "GET", nil,
		attribute.String(AttrURL, "https://example.com/books"))
	op.End(ctx, 200, OutcomeSuccess, nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %d", len(spans))
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrHTTPMethod].AsString() != "GET" {
		t.Errorf("method attribute = %v", attrs[AttrHTTPMethod])
	}
	if attrs[AttrStatusCode].AsInt64() != 200 {
		t.Errorf("status attribute = %v", attrs[AttrStatusCode])
	}
	if attrs[AttrOutcome].AsString() != OutcomeSuccess {
		t.Errorf("outcome attribute = %v", attrs[AttrOutcome])
	}
	if spans[0].Status.Code == codes.Error {
		t.Error("successful operation should not set error status")
	}
}

func TestOperation_FailureAndError(t *testing.T) {
	exporter := useRecorder(t)

	ctx, op := StartOperation(context.Background(), SpanHydraRequest, "GET", nil)
	op.End(ctx, 404, OutcomeFailure, nil)

	ctx, op = StartOperation(context.Background(), SpanHydraRequest, "POST", nil)
	op.End(ctx, 0, OutcomeError, fmt.Errorf("connection refused"))

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected two spans, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error || spans[0].Status.Description != "HTTP 404" {
		t.Errorf("failure status = %+v", spans[0].Status)
	}
	if spans[1].Status.Description != "connection refused" || len(spans[1].Events) == 0 {
		t.Errorf("error should be recorded on the span: %+v", spans[1])
	}
}

func TestRequestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewRequestMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewRequestMetrics: %v", err)
	}
	ctx, op := StartOperation(context.Background(), SpanHydraRequest, "GET", m)
	op.End(ctx, 200, OutcomeSuccess, nil)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
			if md.Name == "hydra.client.requests" {
				sum, ok := md.Data.(metricdata.Sum[int64])
				if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
					t.Errorf("unexpected request counter: %+v", md.Data)
				}
			}
		}
	}
	for _, want := range []string{"hydra.client.requests", "hydra.client.request.duration", "hydra.client.requests.active"} {
		if !names[want] {
			t.Errorf("missing instrument %s", want)
		}
	}
}

func TestRequestMetrics_NilSafe(t *testing.T) {
	var m *RequestMetrics
	m.RecordStart(context.Background())
	m.RecordEnd(context.Background(), "GET", 200, OutcomeSuccess, time.Millisecond)

	noopMetrics, err := NewRequestMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil || noopMetrics == nil {
		t.Fatalf("noop meter should create instruments: %v", err)
	}
}

func TestInitTracerAndMeter(t *testing.T) {
	cfg := DefaultConfig("hydractl-test")

	tp, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitMeter: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = mp.Shutdown(ctx)
}
