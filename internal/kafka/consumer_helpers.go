package kafka

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/storefront-prefetch/internal/usecase"
	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
)

// apply — применяет событие к кэшу. true — оффсет можно коммитить.
func (c *Consumer) apply(ctx context.Context, topic string, msg *kafka.Message) bool {
	pctx, cancel := context.WithTimeout(ctx, c.processTimeout)
	defer cancel()

	err := c.handler.HandleInvalidation(pctx, msg.Value)
	if err == nil {
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return true
	}
	metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
	if errors.Is(err, usecase.ErrInvalidMessage) {
		c.log.Warnf(ctx, "invalidation skipped offset=%d key=%s: %v", msg.Offset, msg.Key, err)
		return true
	}
	c.log.Warnf(ctx, "invalidation failed offset=%d: %v (redeliver)", msg.Offset, err)
	return false
}

// commit — ошибка коммита только логируется: событие придёт повторно, а инвалидация идемпотентна.
func (c *Consumer) commit(ctx context.Context, msg *kafka.Message) {
	if err := c.reader.CommitMessages(ctx, *msg); err != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, err)
	}
}
