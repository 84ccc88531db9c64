// Package otel wires OpenTelemetry tracing: provider setup, span helpers and
// trace id extraction for log correlation.
package otel

import (
	"context"
	"fmt"
	"net/http"

	gootel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"offerboard/pkg/logger"
)

// Config configures the tracer provider.
type Config struct {
	ServiceName string
	// Host is the OTLP/gRPC collector endpoint. Empty disables export;
	// spans are still created so trace ids reach the logs.
	Host        string
	Probability float64
}

// InitTracing installs a global tracer provider and returns it along with
// its shutdown function.
func InitTracing(log *logger.Logger, cfg Config) (trace.TracerProvider, func(context.Context) error, error) {
	ctx := context.Background()

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Probability))),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		)),
	}

	if cfg.Host != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(cfg.Host),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
		log.Info(ctx, "trace export enabled", "endpoint", cfg.Host, "probability", cfg.Probability)
	} else {
		log.Info(ctx, "trace export disabled")
	}

	tp := sdktrace.NewTracerProvider(opts...)
	gootel.SetTracerProvider(tp)
	gootel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, tp.Shutdown, nil
}

type tracerKey struct{}

// InjectTracing extracts any propagated trace context from the request
// headers and stores tracer in the returned context for AddSpan.
func InjectTracing(ctx context.Context, tracer trace.Tracer, header http.Header) context.Context {
	ctx = gootel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(header))
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// AddSpan starts a span with the tracer stored by InjectTracing, falling
// back to the global provider.
func AddSpan(ctx context.Context, spanName string, keyValues ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer, ok := ctx.Value(tracerKey{}).(trace.Tracer)
	if !ok || tracer == nil {
		tracer = gootel.GetTracerProvider().Tracer("offerboard")
	}
	ctx, span := tracer.Start(ctx, spanName)
	span.SetAttributes(keyValues...)
	return ctx, span
}

// GetTraceID returns the trace id of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
