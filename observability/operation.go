package observability

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one traced and metered client request.
type Operation struct {
	method  string
	start   time.Time
	span    trace.Span
	metrics *RequestMetrics
}

// StartOperation starts a client span and marks the request in flight.
// metrics may be nil.
func StartOperation(ctx context.Context, name, method string, metrics *RequestMetrics, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String(AttrHTTPMethod, method))
	span.SetAttributes(attrs...)
	metrics.RecordStart(ctx)
	return ctx, &Operation{method: method, start: time.Now(), span: span, metrics: metrics}
}

// Span returns the operation's span.
func (o *Operation) Span() trace.Span {
	return o.span
}

// End closes the span and records metrics. A non-nil err marks the span as
// failed; a protocol failure only sets the outcome attribute.
func (o *Operation) End(ctx context.Context, status int, outcome string, err error) {
	d := time.Since(o.start)
	if status > 0 {
		o.span.SetAttributes(attribute.Int(AttrStatusCode, status))
	}
	o.span.SetAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.Int64(AttrDurationMs, d.Milliseconds()),
	)
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	} else if outcome == OutcomeFailure {
		o.span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
	}
	o.span.End()
	o.metrics.RecordEnd(ctx, o.method, status, outcome, d)
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.start)
}
