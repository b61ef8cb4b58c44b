//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"

	pgrepo "github.com/Gunvolt24/storefront-prefetch/internal/repo/postgres"
)

var tcLogger = log.New(os.Stdout, "[tc] ", log.LstdFlags)

// образы можно подменить через окружение (зеркало registry в CI)
func image(env, def string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// lifecycle — одна строка лога на каждый этап жизни контейнера.
func lifecycle(kind string) tc.CustomizeRequestOption {
	hook := func(stage string) tc.ContainerHook {
		return func(_ context.Context, c tc.Container) error {
			id := c.GetContainerID()
			if len(id) > 12 {
				id = id[:12]
			}
			tcLogger.Printf("%s %s id=%s", kind, stage, id)
			return nil
		}
	}
	return tc.WithLifecycleHooks(tc.ContainerLifecycleHooks{
		PostStarts:     []tc.ContainerHook{hook("started")},
		PostReadies:    []tc.ContainerHook{hook("ready")},
		PostTerminates: []tc.ContainerHook{hook("terminated")},
	})
}

// PGContainer — Postgres в контейнере и пул к нему.
type PGContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// StartPostgresTC — Postgres с базой storefront; stop закрывает пул и удаляет контейнер.
func StartPostgresTC(ctx context.Context) (*PGContainer, func(context.Context) error, error) {
	pg, err := postgres.Run(ctx,
		image("TEST_POSTGRES_IMAGE", "postgres:16-alpine"),
		lifecycle("postgres"),
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("app"),
		postgres.WithPassword("app"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = tc.TerminateContainer(pg)
		return nil, nil, fmt.Errorf("conn string: %w", err)
	}

	pool, err := pgrepo.NewPool(ctx, dsn, 5)
	if err != nil {
		_ = tc.TerminateContainer(pg)
		return nil, nil, err
	}

	stop := func(context.Context) error {
		pool.Close()
		return tc.TerminateContainer(pg)
	}
	return &PGContainer{Container: pg, DSN: dsn, Pool: pool}, stop, nil
}

// KafkaEnv — Kafka-совместимый брокер (redpanda) для интеграционных тестов.
type KafkaEnv struct {
	Container *redpanda.Container
	Brokers   []string
	BaseTopic string
}

// StartKafkaTC — redpanda с автосозданием топиков; BaseTopic — префикс топиков тестов пакета.
func StartKafkaTC(ctx context.Context, baseTopic string) (*KafkaEnv, func(context.Context) error, error) {
	rp, err := redpanda.Run(ctx,
		image("TEST_REDPANDA_IMAGE", "docker.redpanda.com/redpandadata/redpanda:v23.3.8"),
		lifecycle("redpanda"),
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}

	seed, err := rp.KafkaSeedBroker(ctx)
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("seed broker: %w", err)
	}

	stop := func(context.Context) error { return tc.TerminateContainer(rp) }
	return &KafkaEnv{Container: rp, Brokers: []string{seed}, BaseTopic: baseTopic}, stop, nil
}
