package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gunvolt24/storefront-prefetch/pkg/ctxmeta"
)

// ZapLogger — реализация ports.Logger на zap. request_id и trace_id из ctx добавляются полями.
type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// NewZapLogger — production (JSON) или development (консоль) логгер и функция Sync для остановки.
func NewZapLogger(isProd bool) (*ZapLogger, func() error, error) {
	var (
		base *zap.Logger
		err  error
	)
	if isProd {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, err
	}

	l := FromZap(base)
	return l, l.base.Sync, nil
}

// FromZap — обёртка над готовым *zap.Logger (в тестах — observer).
func FromZap(base *zap.Logger) *ZapLogger {
	base = base.WithOptions(zap.AddCallerSkip(1))
	return &ZapLogger{base: base, sugar: base.Sugar()}
}

func (z *ZapLogger) with(ctx context.Context) *zap.SugaredLogger {
	if f := ctxmeta.Fields(ctx); len(f) > 0 {
		return z.sugar.With(f...)
	}
	return z.sugar
}

func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.with(ctx).Infof(format, args...)
}

func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Warnf(format, args...)
}

func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Errorf(format, args...)
}

func (z *ZapLogger) Base() *zap.Logger { return z.base }
