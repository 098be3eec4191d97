// Package otel configures OpenTelemetry tracing for eventwire services.
package otel

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config controls tracing. The command entrypoint loads it from the
// EVENTWIRE_OTEL_* environment variables.
type Config struct {
	// Endpoint is the OTLP/HTTP collector URL. Empty disables tracing.
	Endpoint string `env:"OTEL_ENDPOINT"`
	// Enabled allows forcing tracing off with the endpoint still
	// configured.
	Enabled bool `env:"OTEL_ENABLED" envDefault:"true"`
	// SampleRatio is the parent-based sampling ratio for root spans, in
	// (0, 1]. Values outside the range sample everything. Replication
	// streams are long-lived and span-per-envelope traffic is high, so
	// production deployments usually dial this down.
	SampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1.0"`
}

// Setup initialises tracing for the given service.
//
// Tracing is opt-in: with no endpoint, or Enabled false, Setup returns
// a no-op shutdown function and registers no global provider. The
// returned shutdown flushes pending spans and should be deferred by the
// caller.
func Setup(ctx context.Context, serviceName string, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if !cfg.Enabled || strings.TrimSpace(cfg.Endpoint) == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
