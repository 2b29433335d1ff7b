// Package telemetry provides OpenTelemetry tracing for archive analysis.
//
// Tracing is off unless enabled in the telemetry config section or with
// OTEL_ENABLED=true. When off, the global TracerProvider stays the default
// no-op provider, so spans started through Tracer cost next to nothing.
//
// Usage:
//
//	shutdown, err := telemetry.Init(ctx, cfg.Telemetry.ApplyEnv())
//	if err != nil {
//	    logger.Warn("telemetry disabled: %v", err)
//	}
//	defer shutdown(ctx)
//
//	ctx, span := telemetry.Tracer().Start(ctx, "analyze")
//	defer span.End()
package telemetry

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans created by this module.
const InstrumentationName = "github.com/jar-analysis"

// ShutdownFunc is a function that shuts down the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

var enabled atomic.Bool

// Enabled reports whether Init installed an exporting TracerProvider.
func Enabled() bool {
	return enabled.Load()
}

func noopShutdown(_ context.Context) error {
	return nil
}

// Init installs a global TracerProvider exporting over OTLP. With a nil or
// disabled config it does nothing and returns a no-op shutdown function.
func Init(ctx context.Context, cfg *Config) (ShutdownFunc, error) {
	if cfg == nil || !cfg.Enabled {
		return noopShutdown, nil
	}

	sampler, err := createSampler(cfg)
	if err != nil {
		return noopShutdown, err
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	exporter, err := createExporter(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
		trace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	enabled.Store(true)

	return func(ctx context.Context) error {
		enabled.Store(false)
		return tp.Shutdown(ctx)
	}, nil
}

// Tracer returns the module's tracer from the global provider.
func Tracer() oteltrace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// RecordError marks span as failed with err. A nil err is ignored.
func RecordError(span oteltrace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
