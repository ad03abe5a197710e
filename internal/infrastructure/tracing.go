package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"floodctl/internal/config"
)

const (
	ServiceName    = "floodctl"
	ServiceVersion = "1.0.0"
)

// Tracing holds the configured tracer provider of one process. A disabled
// exporter yields a no-op Tracer and a nil provider.
type Tracing struct {
	provider *sdktrace.TracerProvider
	Tracer   trace.Tracer
}

// InitializeTracing sets up OpenTelemetry tracing per the configuration.
// Exporter "none" returns a no-op Tracing; drivers call Shutdown either way.
func InitializeTracing(cfg config.TracingConfig, logger *slog.Logger) (*Tracing, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Exporter == "none" || cfg.Exporter == "" {
		return &Tracing{Tracer: noop.NewTracerProvider().Tracer(ServiceName)}, nil
	}
	if cfg.Exporter != "stdout" {
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracing initialized",
		slog.String("exporter", cfg.Exporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return &Tracing{
		provider: tp,
		Tracer:   tp.Tracer(ServiceName, trace.WithInstrumentationVersion(ServiceVersion)),
	}, nil
}

// Shutdown flushes pending spans. Safe on a no-op Tracing.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
