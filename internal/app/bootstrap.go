package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/config"
	"github.com/Gunvolt24/storefront-prefetch/internal/cache/memory"
	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/kafka"
	"github.com/Gunvolt24/storefront-prefetch/internal/notify"
	"github.com/Gunvolt24/storefront-prefetch/internal/polling"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
	"github.com/Gunvolt24/storefront-prefetch/internal/repo/postgres"
	rest "github.com/Gunvolt24/storefront-prefetch/internal/transport/http"
	"github.com/Gunvolt24/storefront-prefetch/internal/upstream"
	"github.com/Gunvolt24/storefront-prefetch/internal/usecase"
	"github.com/Gunvolt24/storefront-prefetch/pkg/logger"
	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
	"github.com/Gunvolt24/storefront-prefetch/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Poller — фоновый опрос «моих заказов», которым управляет App.
type Poller interface {
	StartPolling(ctx context.Context, token string, interval time.Duration)
	StopPolling()
}

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer, поллер).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	KafkaConsumer   ports.MessageConsumer // консьюмер инвалидаций; nil, если Kafka выключена
	Poller          Poller                // поллер заказов; nil, если опрос выключен
	PollToken       string                // токен для автозапуска опроса
	PollInterval    time.Duration         // период опроса
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// closers — стек функций очистки, выполняется в обратном порядке.
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	var cl closers
	cl.add(func() {
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	})
	fail := func(err error) (*App, Cleanup, error) {
		cl.run()
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); иначе no-op провайдер.
	tp, shutdownTrace, err := telemetry.SetupTracing(ctx, telemetry.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logg.Warnf(ctx, "failed to setup tracing: %v", err)
		tp, shutdownTrace, _ = telemetry.SetupTracing(ctx, telemetry.Options{})
	} else if cfg.Tracing.Enabled {
		logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
			cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
	}
	cl.add(func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
	})

	// Журнал уведомлений в Postgres (опционально).
	var alertRepo *postgres.AlertRepository
	if cfg.Postgres.Enabled {
		var pool *pgxpool.Pool
		if pool, err = openJournal(ctx, cfg.Postgres, logg); err != nil {
			return fail(err)
		}
		cl.add(pool.Close)
		alertRepo = postgres.NewAlertRepository(pool)
	}

	// Кэш и менеджер предзагрузки.
	store := memory.NewStore(cfg.Cache.MaxEntries, memory.WithDefaultTTL(cfg.Cache.DefaultTTL))
	manager := prefetch.NewManager(store, logg, prefetch.WithTracerProvider(tp))
	cl.add(manager.Close)

	client, err := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, upstream.WithOrdersPath(cfg.Polling.Endpoint))
	if err != nil {
		return fail(err)
	}

	resources := usecase.NewResourceService(manager, client, logg)
	cacheSvc := usecase.NewCacheService(manager, logg)

	deps := rest.Deps{Resources: resources, Cache: cacheSvc, Log: logg}
	if alertRepo != nil {
		deps.Alerts = alertRepo
	}

	app := &App{
		Logger:          logg,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Опрос «моих заказов» и каналы уведомлений.
	if cfg.Polling.Enabled {
		routes := []notify.Route{{Channel: domain.ChannelLog, Notifier: notify.NewLog(logg)}}
		if cfg.Polling.Bell {
			if bell := notify.NewBell(os.Stdout); bell.Enabled() {
				routes = append(routes, notify.Route{Channel: domain.ChannelSound, Notifier: bell})
			} else {
				logg.Infof(ctx, "stdout is not a terminal, bell disabled")
			}
		}
		if alertRepo != nil {
			routes = append(routes, notify.Route{Channel: domain.ChannelJournal, Notifier: notify.NewJournal(alertRepo)})
		}
		if cfg.Kafka.AlertsEnabled {
			pub := kafka.NewAlertPublisher(&kafka.ProducerConfig{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.AlertsTopic,
			})
			cl.add(func() {
				if perr := pub.Close(); perr != nil {
					logg.Warnf(ctx, "alert publisher close error: %v", perr)
				}
			})
			routes = append(routes, notify.Route{Channel: domain.ChannelSystem, Notifier: pub})
		}

		poller := polling.NewOrderPoller(client, notify.NewFanout(routes...), logg, polling.Config{
			WatchStatuses: cfg.Polling.WatchStatuses,
		})
		deps.Orders = poller
		app.Poller = poller
		app.PollToken = cfg.Polling.Token
		app.PollInterval = cfg.Polling.Interval
	}

	// Консьюмер событий инвалидации.
	if cfg.Kafka.Enabled {
		kafkaCfg := kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.InvalidationTopic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}
		if err := kafkaCfg.Validate(); err != nil {
			return fail(err)
		}
		consumer := kafka.NewConsumer(&kafkaCfg, cacheSvc, logg)
		cl.add(func() {
			if cerr := consumer.Close(); cerr != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", cerr)
			}
		})
		app.KafkaConsumer = consumer
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	router := rest.NewRouter(rest.NewHandler(deps, cfg.HTTP.HandlerTimeout), otelServiceName)
	app.HTTPServer = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return app, cl.run, nil
}

// openJournal — пул Postgres и миграции схемы журнала.
func openJournal(ctx context.Context, cfg config.Postgres, log ports.Logger) (*pgxpool.Pool, error) {
	applied, err := postgres.Migrate(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if applied > 0 {
		log.Infof(ctx, "postgres migrations applied count=%d", applied)
	}

	return postgres.NewPool(ctx, cfg.DSN, cfg.MaxConns)
}

// Run — запускает HTTP-сервер, консьюмер и поллер; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	// Запуск консьюмера.
	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	// Запуск опроса заказов. Без токена поллер ждёт ручного POST /orders/my/refresh.
	if a.Poller != nil {
		if a.PollToken != "" {
			a.Poller.StartPolling(ctx, a.PollToken, a.PollInterval)
		} else {
			a.Logger.Warnf(ctx, "order polling enabled without token, waiting for manual refresh")
		}
	}

	// Контекст запросов отменяется при Shutdown, иначе SSE-потоки держат его до таймаута.
	baseCtx, stopRequests := context.WithCancel(context.WithoutCancel(ctx))
	defer stopRequests()
	a.HTTPServer.BaseContext = func(net.Listener) context.Context { return baseCtx }
	a.HTTPServer.RegisterOnShutdown(stopRequests)

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	if a.Poller != nil {
		a.Poller.StopPolling()
	}

	// Остановка Kafka-консьюмера
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
