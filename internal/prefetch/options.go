package prefetch

import (
	"context"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

// Fetcher — функция загрузки данных по ключу. Должна быть идемпотентной.
type Fetcher func(ctx context.Context) (any, error)

type options struct {
	ttl             time.Duration
	priority        domain.Priority
	force           bool
	background      bool
	cancelOnAbandon bool
}

// Option — параметр отдельного запроса Fetch/Prefetch.
type Option func(*options)

// WithTTL — время жизни записи; 0 — TTL хранилища по умолчанию.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithPriority — подсказка о важности, сохраняется вместе с записью.
func WithPriority(p domain.Priority) Option {
	return func(o *options) { o.priority = p }
}

// WithForce — игнорировать свежую запись и загрузить заново.
func WithForce(force bool) Option {
	return func(o *options) { o.force = force }
}

// WithBackground — для устаревшей записи вернуть старые данные и обновить в фоне (по умолчанию true).
func WithBackground(background bool) Option {
	return func(o *options) { o.background = background }
}

// WithCancelOnAbandon — разрешает отменить общую загрузку, когда её перестали ждать все вызывающие.
// Загрузка отменяется, только если каждый ожидавший передал эту опцию.
func WithCancelOnAbandon() Option {
	return func(o *options) { o.cancelOnAbandon = true }
}

func buildOptions(opts []Option) options {
	o := options{
		priority:   domain.PriorityMedium,
		background: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
