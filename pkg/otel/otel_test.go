package otel

import (
	"context"
	"io"
	"net/http"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"offerboard/pkg/logger"
)

func TestGetTraceIDWithoutSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Fatalf("expected empty trace id, got %q", id)
	}
}

func TestAddSpanUsesInjectedTracer(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx := InjectTracing(context.Background(), tp.Tracer("test"), http.Header{})
	ctx, span := AddSpan(ctx, "op")
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Fatal("expected a recording span from the sdk tracer")
	}
	if got := GetTraceID(ctx); got != span.SpanContext().TraceID().String() {
		t.Fatalf("trace id = %q, want %q", got, span.SpanContext().TraceID())
	}
}

func TestInjectTracingContinuesRemoteTrace(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	tp, shutdown, err := InitTracing(log, Config{ServiceName: "test", Probability: 1})
	if err != nil {
		t.Fatalf("init tracing: %v", err)
	}
	defer shutdown(context.Background())

	h := http.Header{}
	h.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	ctx := InjectTracing(context.Background(), tp.Tracer("test"), h)
	ctx, span := AddSpan(ctx, "handler")
	defer span.End()

	if got := GetTraceID(ctx); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("trace id = %q, want the propagated one", got)
	}
}
