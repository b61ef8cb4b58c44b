package logger_test

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Gunvolt24/storefront-prefetch/pkg/ctxmeta"
	"github.com/Gunvolt24/storefront-prefetch/pkg/logger"
)

func TestZapLogger_LevelsAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := logger.FromZap(zap.New(core))

	ctx := ctxmeta.WithRequestID(context.Background(), "req-7")
	l.Infof(ctx, "cache hit key=%s", "k1")
	l.Warnf(context.Background(), "stale key=%s", "k2")
	l.Errorf(ctx, "boom")

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "cache hit key=k1" || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-7" {
		t.Fatalf("request_id field: want req-7, got %v", got)
	}
	if _, ok := entries[1].ContextMap()["request_id"]; ok || entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("warn entry must have no request_id: %+v", entries[1])
	}
	if entries[2].Level != zapcore.ErrorLevel {
		t.Fatalf("want error level, got %v", entries[2].Level)
	}
}

func TestNewZapLogger(t *testing.T) {
	for _, prod := range []bool{false, true} {
		l, cleanup, err := logger.NewZapLogger(prod)
		if err != nil || l == nil || cleanup == nil {
			t.Fatalf("NewZapLogger(%v): %v", prod, err)
		}
		if l.Base() == nil {
			t.Fatalf("Base must not be nil")
		}
		_ = cleanup()
	}
}
