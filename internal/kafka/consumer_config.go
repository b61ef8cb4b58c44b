package kafka

import (
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// invalidationMaxWait — сколько брокер держит fetch без новых сообщений.
// Инвалидация должна доезжать быстро, поэтому меньше дефолтных 10s.
const invalidationMaxWait = time.Second

// ConsumerConfig — параметры консьюмера событий инвалидации.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first | last (по умолчанию last)

	ProcessTimeout time.Duration // таймаут обработки одного сообщения
	RetryInitial   time.Duration // начальная пауза backoff
	RetryMax       time.Duration // верхняя граница backoff
}

// Validate — без брокеров, топика и группы консьюмер не сможет коммитить оффсеты.
func (c *ConsumerConfig) Validate() error {
	var errs []error
	if len(brokerList(c.Brokers)) == 0 {
		errs = append(errs, errors.New("kafka: at least one broker is required"))
	}
	if strings.TrimSpace(c.Topic) == "" {
		errs = append(errs, errors.New("kafka: topic is required"))
	}
	if strings.TrimSpace(c.GroupID) == "" {
		errs = append(errs, errors.New("kafka: group id is required"))
	}
	return errors.Join(errs...)
}

// ReaderConfig — конфигурация kafka.Reader с ручным коммитом оффсетов.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        brokerList(c.Brokers),
		GroupID:        strings.TrimSpace(c.GroupID),
		Topic:          strings.TrimSpace(c.Topic),
		MaxWait:        invalidationMaxWait,
		CommitInterval: 0,
		StartOffset:    kafka.LastOffset,
	}
	if strings.EqualFold(strings.TrimSpace(c.StartOffset), "first") {
		rc.StartOffset = kafka.FirstOffset
	}
	return rc
}

// brokerList — адреса без пробелов; "a:9092,b:9092" в одном элементе тоже разбирается.
func brokerList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, b := range strings.Split(item, ",") {
			if b = strings.TrimSpace(b); b != "" {
				out = append(out, b)
			}
		}
	}
	return out
}

// withDefaults — незаданные таймауты заменяются значениями по умолчанию.
func (c ConsumerConfig) withDefaults() ConsumerConfig {
	if c.ProcessTimeout <= 0 {
		c.ProcessTimeout = 5 * time.Second
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = time.Second
	}
	if c.RetryMax <= 0 {
		c.RetryMax = 30 * time.Second
	}
	if c.RetryMax < c.RetryInitial {
		c.RetryMax = c.RetryInitial
	}
	return c
}
