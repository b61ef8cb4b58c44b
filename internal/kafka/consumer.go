package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
)

var _ ports.MessageConsumer = (*Consumer)(nil)

// пауза перед повторным чтением сообщения, которое не удалось применить
const maxRedeliveryPause = 500 * time.Millisecond

// reader — часть kafka.Reader, которая нужна консьюмеру (подменяется моком в тестах).
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// invalidationHandler — применяет событие инвалидации к кэшу.
type invalidationHandler interface {
	HandleInvalidation(ctx context.Context, raw []byte) error
}

// Consumer — читает события инвалидации кэша с доставкой at-least-once.
type Consumer struct {
	reader          reader
	handler         invalidationHandler
	log             ports.Logger
	processTimeout  time.Duration
	fetchRetry      *backoff
	redeliveryPause time.Duration
	closeOnce       sync.Once
}

func NewConsumer(cfg *ConsumerConfig, handler invalidationHandler, log ports.Logger) *Consumer {
	c := cfg.withDefaults()
	return &Consumer{
		reader:          kafka.NewReader(c.ReaderConfig()),
		handler:         handler,
		log:             log,
		processTimeout:  c.ProcessTimeout,
		fetchRetry:      newBackoff(c.RetryInitial, c.RetryMax, time.Now().UnixNano()),
		redeliveryPause: min(c.RetryInitial, maxRedeliveryPause),
	}
}

// Run — цикл чтения до отмены ctx:
//   - событие применено или некорректно → коммит оффсета;
//   - временная ошибка → без коммита, событие будет прочитано снова;
//   - ошибка чтения → экспоненциальный backoff.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "invalidation consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait := c.fetchRetry.Next()
			c.log.Warnf(ctx, "fetch failed: %v (retry in %s)", err, wait)
			if !sleepCtx(ctx, wait) {
				return ctx.Err()
			}
			continue
		}
		c.fetchRetry.Reset()
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if c.apply(ctx, rc.Topic, &msg) {
			c.commit(ctx, &msg)
			continue
		}
		if !sleepCtx(ctx, c.redeliveryPause) {
			return ctx.Err()
		}
	}
}

// Close — закрывает reader; повторный вызов ничего не делает.
func (c *Consumer) Close() (err error) {
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
