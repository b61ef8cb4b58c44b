package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
)

var _ ports.CacheAdmin = (*CacheService)(nil)

// InvalidationEvent — сообщение об изменении данных на стороне upstream.
type InvalidationEvent struct {
	Keys     []string `json:"keys"`
	Prefixes []string `json:"prefixes"`
	All      bool     `json:"all"`
}

// CacheService — диагностика кэша и инвалидация (вручную и по событиям из Kafka).
type CacheService struct {
	m   *prefetch.Manager
	log ports.Logger
}

func NewCacheService(m *prefetch.Manager, log ports.Logger) *CacheService {
	return &CacheService{m: m, log: log}
}

func (s *CacheService) Stats() []domain.EntryStats { return s.m.Stats() }

func (s *CacheService) Invalidate(key string) { s.m.Invalidate(key) }

func (s *CacheService) InvalidatePrefix(prefix string) int { return s.m.InvalidatePrefix(prefix) }

func (s *CacheService) Clear() { s.m.Clear() }

// HandleInvalidation — применить событие инвалидации (raw JSON).
//  1. строгий парсинг (DisallowUnknownFields, без данных после объекта);
//  2. пустое событие тоже считается некорректным;
//  3. all=true очищает кэш целиком, иначе удаляются ключи и префиксы.
//
// Некорректное сообщение → ErrInvalidMessage.
func (s *CacheService) HandleInvalidation(ctx context.Context, raw []byte) error {
	var ev InvalidationEvent
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		s.log.Warnf(ctx, "invalid invalidation json err=%v", err)
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		s.log.Warnf(ctx, "invalid invalidation json: trailing data")
		return fmt.Errorf("%w: trailing data", ErrInvalidMessage)
	}
	if !ev.All && len(ev.Keys) == 0 && len(ev.Prefixes) == 0 {
		return fmt.Errorf("%w: empty event", ErrInvalidMessage)
	}

	if ev.All {
		s.m.Clear()
		s.log.Infof(ctx, "cache cleared by event")
		return nil
	}

	for _, k := range ev.Keys {
		s.m.Invalidate(k)
	}
	removed := 0
	for _, p := range ev.Prefixes {
		if p == "" {
			continue
		}
		removed += s.m.InvalidatePrefix(p)
	}
	s.log.Infof(ctx, "cache invalidated by event keys=%d prefixes=%d removed_by_prefix=%d",
		len(ev.Keys), len(ev.Prefixes), removed)
	return nil
}
