package prefetch

import (
	"context"
	"fmt"
)

// Typed — типизированная обёртка над Manager для данных одного типа.
type Typed[T any] struct {
	m *Manager
}

// NewTyped — обёртка над общим менеджером; ключи разных Typed не должны пересекаться.
func NewTyped[T any](m *Manager) Typed[T] {
	return Typed[T]{m: m}
}

func (t Typed[T]) Fetch(ctx context.Context, key string, fetcher func(context.Context) (T, error), opts ...Option) (T, error) {
	v, err := t.m.Fetch(ctx, key, erase(fetcher), opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return assertType[T](v)
}

func (t Typed[T]) Prefetch(ctx context.Context, key string, fetcher func(context.Context) (T, error), opts ...Option) {
	t.m.Prefetch(ctx, key, erase(fetcher), opts...)
}

// Subscribe — значения другого типа подписчику не передаются.
func (t Typed[T]) Subscribe(key string, fn func(T)) (unsubscribe func()) {
	return t.m.Subscribe(key, func(v any) {
		if tv, ok := v.(T); ok {
			fn(tv)
		}
	})
}

func erase[T any](fetcher func(context.Context) (T, error)) Fetcher {
	return func(ctx context.Context) (any, error) {
		return fetcher(ctx)
	}
}

func assertType[T any](v any) (T, error) {
	tv, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: got %T, want %T", ErrTypeMismatch, v, zero)
	}
	return tv, nil
}
