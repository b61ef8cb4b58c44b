package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
)

var _ ports.Notifier = (*AlertPublisher)(nil)

// writer — часть kafka.Writer, нужная издателю.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerConfig — параметры издателя уведомлений.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// AlertPublisher — публикует уведомления о новых заказах в топик (ключ сообщения — id заказа).
type AlertPublisher struct {
	w         writer
	topic     string
	closeOnce sync.Once
}

func NewAlertPublisher(cfg *ProducerConfig) *AlertPublisher {
	wt := cfg.WriteTimeout
	if wt <= 0 {
		wt = 5 * time.Second
	}
	return &AlertPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokerList(cfg.Brokers)...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           wt,
			AllowAutoTopicCreation: true,
		},
		topic: cfg.Topic,
	}
}

// Notify — публикация уведомления; ошибка брокера возвращается вызывающему.
func (p *AlertPublisher) Notify(ctx context.Context, alert domain.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(alert.OrderID),
		Value: payload,
		Time:  alert.DetectedAt,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "error").Inc()
		return fmt.Errorf("publish alert order_id=%s: %w", alert.OrderID, err)
	}
	metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "ok").Inc()
	return nil
}

func (p *AlertPublisher) Close() (err error) {
	p.closeOnce.Do(func() {
		err = p.w.Close()
	})
	return err
}
