package ports

import (
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

// EntryStore — хранилище записей кэша с TTL.
// Требования к реализации: потокобезопасность; истёкшие записи не удаляются, а помечаются stale.
type EntryStore interface {
	// Set — вставить/заменить запись; сбрасывает timestamp и stale. ttl <= 0 → TTL по умолчанию.
	Set(key string, data any, ttl time.Duration, priority domain.Priority)

	// IsValid — true, если запись есть и её возраст не больше TTL; истёкшую помечает stale.
	IsValid(key string) bool

	// Get — запись как есть, без проверки свежести.
	Get(key string) (domain.Entry, bool)

	// Lookup — атомарно IsValid + Get.
	Lookup(key string) (entry domain.Entry, fresh, ok bool)

	Invalidate(key string)
	InvalidatePrefix(prefix string) int
	Clear()
	Stats() []domain.EntryStats
	Len() int
}
