package telemetry_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/storefront-prefetch/pkg/telemetry"
)

func TestSetupTracing_Disabled_Noop(t *testing.T) {
	tp, shutdown, err := telemetry.SetupTracing(context.Background(), telemetry.Options{})
	if err != nil {
		t.Fatalf("SetupTracing: %v", err)
	}
	_, span := tp.Tracer("test").Start(context.Background(), "op")
	if span.SpanContext().IsValid() {
		t.Fatalf("disabled tracing must produce noop spans")
	}
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupTracing_Enabled(t *testing.T) {
	tp, shutdown, err := telemetry.SetupTracing(context.Background(), telemetry.Options{
		Enabled:     true,
		ServiceName: "storefront-prefetch-test",
		Endpoint:    "127.0.0.1:4318",
		SampleRatio: 5,
	})
	if err != nil {
		t.Fatalf("SetupTracing: %v", err)
	}
	_, span := tp.Tracer("test").Start(context.Background(), "op")
	if !span.SpanContext().IsValid() || !span.SpanContext().IsSampled() {
		t.Fatalf("ratio clamped to 1 must sample every span")
	}
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
