//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/storefront-prefetch/internal/cache/memory"
	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	ikafka "github.com/Gunvolt24/storefront-prefetch/internal/kafka"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
	"github.com/Gunvolt24/storefront-prefetch/internal/testutil"
	"github.com/Gunvolt24/storefront-prefetch/internal/usecase"
	"github.com/Gunvolt24/storefront-prefetch/pkg/logger"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

type stack struct {
	ctx   context.Context
	kf    *testutil.KafkaEnv
	log   ports.Logger
	store *memory.Store
	svc   *usecase.CacheService
}

func newStack(t *testing.T) *stack {
	t.Helper()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "invalidation-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	store := memory.NewStore(100)
	m := prefetch.NewManager(store, logg)
	t.Cleanup(m.Close)

	return &stack{ctx: ctx, kf: kf, log: logg, store: store, svc: usecase.NewCacheService(m, logg)}
}

func (s *stack) startConsumer(t *testing.T, h interface {
	HandleInvalidation(ctx context.Context, raw []byte) error
}, topic, group, offset string) context.CancelFunc {
	t.Helper()
	c := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        s.kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    offset,
		ProcessTimeout: 2 * time.Second,
		RetryInitial:   100 * time.Millisecond,
		RetryMax:       time.Second,
	}, h, s.log)

	runCtx, cancel := context.WithCancel(s.ctx)
	go func() { _ = c.Run(runCtx) }()
	t.Cleanup(func() { cancel(); _ = c.Close() })
	return cancel
}

func writeMsg(t *testing.T, ctx context.Context, brokers []string, topic string, payload []byte) {
	t.Helper()
	require.NoError(t, testutil.Publish(ctx, brokers, topic, payload))
}

func waitGone(t *testing.T, store *memory.Store, key string) {
	t.Helper()
	deadline := time.Now().Add(20 * time.Second)
	for {
		if _, ok := store.Get(key); !ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("key %s not invalidated in time", key)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Событие инвалидации удаляет ключ и ключи по префиксу.
func TestKafka_Invalidation_Applied_TC(t *testing.T) {
	s := newStack(t)
	topic, group := testutil.UniqueTopicAndGroup(s.kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(s.ctx, s.kf.Brokers[0], topic))

	for _, k := range []string{"api:anon:/a", "api:anon:/list?p=1", "api:anon:/list?p=2", "keep"} {
		s.store.Set(k, k, time.Hour, "")
	}
	s.startConsumer(t, s.svc, topic, group, "first")

	writeMsg(t, s.ctx, s.kf.Brokers, topic, testutil.InvalidationJSON([]string{"api:anon:/a"}, []string{"api:anon:/list"}, false))

	waitGone(t, s.store, "api:anon:/list?p=2")
	waitGone(t, s.store, "api:anon:/a")
	_, ok := s.store.Get("keep")
	require.True(t, ok)
}

// Мусорное сообщение коммитится и пропускается; следующее применяется.
func TestKafka_SkipMalformed_ThenApply_TC(t *testing.T) {
	s := newStack(t)
	topic, group := testutil.UniqueTopicAndGroup(s.kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(s.ctx, s.kf.Brokers[0], topic))

	s.store.Set("k", 1, time.Hour, "")
	s.startConsumer(t, s.svc, topic, group, "first")

	writeMsg(t, s.ctx, s.kf.Brokers, topic, []byte("not-a-json"))
	writeMsg(t, s.ctx, s.kf.Brokers, topic, []byte(`{"keys":["k"],"unexpected":true}`))
	writeMsg(t, s.ctx, s.kf.Brokers, topic, testutil.InvalidationJSON(nil, nil, true))

	waitGone(t, s.store, "k")
}

// failingHandler — всегда временная ошибка, оффсет не коммитится.
type failingHandler struct{}

func (failingHandler) HandleInvalidation(context.Context, []byte) error {
	return errors.New("temporary failure")
}

// At-least-once: без коммита сообщение доставляется снова после перезапуска с той же группой.
func TestKafka_Redelivery_AfterRestart_TC(t *testing.T) {
	s := newStack(t)
	topic, group := testutil.UniqueTopicAndGroup(s.kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(s.ctx, s.kf.Brokers[0], topic))

	s.store.Set("k", 1, time.Hour, "")
	writeMsg(t, s.ctx, s.kf.Brokers, topic, testutil.InvalidationJSON([]string{"k"}, nil, false))

	stopFailing := s.startConsumer(t, failingHandler{}, topic, group, "first")
	time.Sleep(2 * time.Second)
	stopFailing()

	_, ok := s.store.Get("k")
	require.True(t, ok, "failing handler must not touch the cache")

	s.startConsumer(t, s.svc, topic, group, "first")
	waitGone(t, s.store, "k")
}

// Уведомление публикуется в топик с ключом = id заказа.
func TestKafka_AlertPublisher_TC(t *testing.T) {
	s := newStack(t)
	topic, _ := testutil.UniqueTopicAndGroup(s.kf.BaseTopic + "-alerts-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(s.ctx, s.kf.Brokers[0], topic))

	pub := ikafka.NewAlertPublisher(&ikafka.ProducerConfig{Brokers: s.kf.Brokers, Topic: topic})
	t.Cleanup(func() { _ = pub.Close() })

	alert := testutil.MakeAlert()
	require.NoError(t, pub.Notify(s.ctx, alert))

	msg, err := testutil.ReadOne(s.ctx, s.kf.Brokers, topic)
	require.NoError(t, err)
	require.Equal(t, alert.OrderID, string(msg.Key))

	var got domain.Alert
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.Equal(t, alert.OrderID, got.OrderID)
	require.Equal(t, alert.Status, got.Status)
}
