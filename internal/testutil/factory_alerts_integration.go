//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

func UniqSuffix() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// AlertOption — модификатор тестового уведомления.
type AlertOption func(*domain.Alert)

func WithDetectedAt(at time.Time) AlertOption {
	return func(a *domain.Alert) { a.DetectedAt = at }
}

func WithChannels(chs ...domain.Channel) AlertOption {
	return func(a *domain.Alert) { a.Channels = chs }
}

// MakeAlert — уведомление с уникальным id заказа.
func MakeAlert(opts ...AlertOption) domain.Alert {
	id := "ord-" + UniqSuffix()
	a := domain.Alert{
		OrderID:    id,
		OrderCode:  "#" + id,
		Status:     domain.StatusReady,
		Service:    "Courier",
		Price:      199.5,
		DetectedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// InvalidationJSON — тело события инвалидации для Kafka.
func InvalidationJSON(keys, prefixes []string, all bool) []byte {
	b, _ := json.Marshal(map[string]any{"keys": keys, "prefixes": prefixes, "all": all})
	return b
}
