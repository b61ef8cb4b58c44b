package memory

import (
	"container/list"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/pkg/metrics"
)

// evictLRU — удаляет наименее используемую запись. Вызывается под мьютексом.
func (s *Store) evictLRU() {
	if back := s.ll.Back(); back != nil {
		s.removeElement(back)
		metrics.CacheOps.WithLabelValues("evicted").Inc()
	}
}

// removeElement — удаляет элемент из списка и индекса.
func (s *Store) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	if ent, ok := elem.Value.(*domain.Entry); ok {
		delete(s.index, ent.Key)
	}
	s.ll.Remove(elem)
}
