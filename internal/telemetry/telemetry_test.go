package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupDisabled(t *testing.T) {
	for _, endpoint := range []string{"", "off", "OFF"} {
		before := otel.GetTracerProvider()
		shutdown, err := Setup(context.Background(), endpoint)
		if err != nil {
			t.Fatalf("%q: %v", endpoint, err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("%q: shutdown: %v", endpoint, err)
		}
		if otel.GetTracerProvider() != before {
			t.Errorf("%q: provider replaced", endpoint)
		}
	}
}

func TestStartRecordsViz(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := Start(context.Background(), "render", "klein")
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != "render" {
		t.Fatalf("spans = %v", spans)
	}
	found := false
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "viz" && kv.Value.AsString() == "klein" {
			found = true
		}
	}
	if !found {
		t.Error("viz attribute missing")
	}
}
