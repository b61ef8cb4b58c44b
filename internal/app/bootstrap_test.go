package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/config"
	"github.com/Gunvolt24/storefront-prefetch/internal/app"
)

// логгер-заглушка
type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// фейковый консьюмер, который ждёт отмены контекста
type fakeConsumer struct {
	runCalls   int32
	closeCalls int32
}

func (f *fakeConsumer) Run(ctx context.Context) error {
	atomic.AddInt32(&f.runCalls, 1)
	<-ctx.Done()
	return ctx.Err()
}
func (f *fakeConsumer) Close() error {
	atomic.AddInt32(&f.closeCalls, 1)
	return nil
}

// фейковый поллер: запоминает токен и факт остановки
type fakePoller struct {
	token     atomic.Value
	interval  atomic.Int64
	stopCalls int32
}

func (p *fakePoller) StartPolling(_ context.Context, token string, interval time.Duration) {
	p.token.Store(token)
	p.interval.Store(int64(interval))
}
func (p *fakePoller) StopPolling() { atomic.AddInt32(&p.stopCalls, 1) }

func newServer() *http.Server {
	// HTTP-сервер на случайном свободном порту
	return &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}
}

func TestAppRun_GracefulShutdown(t *testing.T) {
	fc := &fakeConsumer{}
	fp := &fakePoller{}
	a := &app.App{
		Logger:        nopLogger{},
		HTTPServer:    newServer(),
		KafkaConsumer: fc,
		Poller:        fp,
		PollToken:     "tok",
		PollInterval:  time.Minute,
	}

	// Запуск и быстрая остановка
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if atomic.LoadInt32(&fc.runCalls) == 0 {
		t.Fatalf("consumer.Run should be called")
	}
	if atomic.LoadInt32(&fc.closeCalls) == 0 {
		t.Fatalf("consumer.Close should be called")
	}
	if got, _ := fp.token.Load().(string); got != "tok" {
		t.Fatalf("poller should start with configured token, got %q", got)
	}
	if time.Duration(fp.interval.Load()) != time.Minute {
		t.Fatalf("poller interval not passed through")
	}
	if atomic.LoadInt32(&fp.stopCalls) != 1 {
		t.Fatalf("poller should be stopped once, got %d", fp.stopCalls)
	}
}

func TestAppRun_OptionalComponentsAbsent(t *testing.T) {
	fp := &fakePoller{}
	a := &app.App{
		Logger:     nopLogger{},
		HTTPServer: newServer(),
		Poller:     fp, // без токена опрос не стартует
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if fp.token.Load() != nil {
		t.Fatalf("poller must not start without token")
	}
}

func TestBootstrap_MinimalConfig(t *testing.T) {
	cfg, err := config.LoadWithPrefix("BOOTSTRAP_TEST")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.HTTP.GinMode = "test"
	cfg.Polling.Enabled = true
	cfg.Polling.Bell = false

	a, cleanup, err := app.Bootstrap(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	defer cleanup()

	if a.KafkaConsumer != nil {
		t.Fatalf("kafka consumer must be nil when disabled")
	}
	if a.Poller == nil {
		t.Fatalf("poller must be wired when polling is enabled")
	}

	for _, tc := range []struct {
		path string
		want int
	}{
		{"/ping", http.StatusOK},
		{"/cache/stats", http.StatusOK},
		{"/orders/my", http.StatusOK},
		{"/alerts", http.StatusServiceUnavailable},
	} {
		w := httptest.NewRecorder()
		a.HTTPServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
		if w.Code != tc.want {
			t.Fatalf("%s: want %d, got %d, body=%s", tc.path, tc.want, w.Code, w.Body.String())
		}
	}
}
