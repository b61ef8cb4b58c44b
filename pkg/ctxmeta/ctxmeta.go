// Пакет ctxmeta — метаданные запроса в context.Context (request_id, trace_id).
// HTTP-слой кладёт их, логгер читает; друг от друга они не зависят.
package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

// KeyRequestID — ключ request_id в контексте.
const KeyRequestID ctxKey = "request_id"

// WithRequestID — кладёт request_id в контекст; пустой id контекст не меняет.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyRequestID, requestID)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(KeyRequestID).(string)
	return v, ok && v != ""
}

// TraceIDFromContext — trace_id активного span'а.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", false
	}
	return sc.TraceID().String(), true
}

// SpanIDFromContext — span_id активного span'а.
func SpanIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

// Fields — пары ключ/значение для структурного лога; отсутствующие поля пропускаются.
func Fields(ctx context.Context) []any {
	var out []any
	if v, ok := RequestIDFromContext(ctx); ok {
		out = append(out, "request_id", v)
	}
	if v, ok := TraceIDFromContext(ctx); ok {
		out = append(out, "trace_id", v)
	}
	if v, ok := SpanIDFromContext(ctx); ok {
		out = append(out, "span_id", v)
	}
	return out
}
