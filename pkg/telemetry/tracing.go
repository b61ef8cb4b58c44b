package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Options — параметры экспорта трассировок.
type Options struct {
	Enabled     bool
	ServiceName string
	Endpoint    string  // host:port OTLP/HTTP, без TLS
	SampleRatio float64 // [0..1]
}

// SetupTracing — провайдер трассировки и функция его остановки.
// Выключенная трассировка даёт noop-провайдер, глобальные настройки otel не меняются.
func SetupTracing(ctx context.Context, o Options) (trace.TracerProvider, func(context.Context) error, error) {
	if !o.Enabled {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	if o.Endpoint == "" {
		o.Endpoint = "localhost:4318"
	}
	o.SampleRatio = min(max(o.SampleRatio, 0), 1)

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(o.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(o.SampleRatio))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(o.ServiceName),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	return tp, tp.Shutdown, nil
}
