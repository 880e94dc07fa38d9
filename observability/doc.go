// Package observability wires OpenTelemetry tracing and metrics for hydrakit.
//
// Exporters are opt-in and usually set up once by the binary:
//
//	tp, err := observability.InitTracer(ctx, cfg)
//	defer tp.Shutdown(ctx)
//	mp, err := observability.InitMeter(ctx, cfg)
//	defer mp.Shutdown(ctx)
//
// Library code only uses the global providers, which are no-ops until an
// exporter is installed:
//
//	metrics, _ := observability.NewRequestMetrics(observability.Meter("hydra"))
//	ctx, op := observability.StartOperation(ctx, "hydra.request", metrics,
//	    attribute.String(observability.AttrHTTPMethod, "GET"))
//	defer op.End(ctx, 200, observability.OutcomeSuccess, nil)
package observability
