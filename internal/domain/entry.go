package domain

import (
	"strings"
	"time"
)

// DefaultTTL — время жизни записи, если вызывающий его не указал.
const DefaultTTL = 5 * time.Minute

// Priority — подсказка о важности записи. Сохраняется вместе с записью,
// но на порядок загрузки и вытеснения не влияет.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority — разбор приоритета из строки; неизвестное значение → medium.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Entry — запись кэша.
// Stale=false гарантирует age <= TTL; Stale сбрасывается только заменой записи целиком.
type Entry struct {
	Key       string
	Data      any
	Timestamp time.Time
	TTL       time.Duration
	Priority  Priority
	Stale     bool
}

// Age — возраст записи относительно now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Expired — истёк ли TTL к моменту now.
func (e *Entry) Expired(now time.Time) bool {
	return e.Age(now) > e.TTL
}

// EntryStats — диагностический срез записи для /cache/stats.
type EntryStats struct {
	Key      string        `json:"key"`
	Age      time.Duration `json:"age"`
	TTL      time.Duration `json:"ttl"`
	Priority Priority      `json:"priority"`
	Stale    bool          `json:"stale"`
	Expired  bool          `json:"expired"`
}
