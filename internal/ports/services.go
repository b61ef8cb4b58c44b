package ports

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

// ResourceRequest — запрос ресурса API через кэш.
type ResourceRequest struct {
	Path  string
	Query url.Values
	Token string
	Fresh bool // принудительно обойти кэш
}

// ResourceState — состояние наблюдаемого ресурса (data/loading/error).
type ResourceState struct {
	Data      json.RawMessage `json:"data,omitempty"`
	Loading   bool            `json:"loading"`
	Error     string          `json:"error,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ResourceReader — чтение ресурсов API через менеджер предзагрузки.
type ResourceReader interface {
	Get(ctx context.Context, req ResourceRequest) (json.RawMessage, error)
	Batch(ctx context.Context, token string, paths []string) (map[string]json.RawMessage, error)
	Warm(ctx context.Context, token string, paths []string) int
	Hint(ctx context.Context, token, path string)
	Watch(ctx context.Context, req ResourceRequest, interval time.Duration, onChange func(ResourceState)) error
	Mutate(ctx context.Context, method string, req ResourceRequest, body []byte) (int, []byte, error)
}

// CacheAdmin — диагностика и ручная инвалидация кэша.
type CacheAdmin interface {
	Stats() []domain.EntryStats
	Invalidate(key string)
	InvalidatePrefix(prefix string) int
	Clear()
}

// OrderFeed — живой список «моих заказов» от поллера.
type OrderFeed interface {
	Snapshot() ([]domain.Order, time.Time)
	RefreshNow(ctx context.Context, token string) error
	Subscribe(fn func([]domain.Order)) (unsubscribe func())
}

// AlertReader — чтение журнала уведомлений.
type AlertReader interface {
	ListRecent(ctx context.Context, limit int) ([]domain.Alert, error)
}
