package binding

import (
	"context"
	"sync"
)

// State — то, что видит потребитель запроса: данные, признак загрузки, ошибка.
type State struct {
	Data    any
	Loading bool
	Err     error
}

// holder — состояние с защитой от обновлений после Close.
type holder[S any] struct {
	mu       sync.Mutex
	state    S
	closed   bool
	onChange func(S)
}

// update — применяет fn к состоянию и сообщает подписчику. После close ничего не делает.
func (h *holder[S]) update(fn func(*S)) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	fn(&h.state)
	snapshot := h.state
	onChange := h.onChange
	h.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
}

func (h *holder[S]) get() S {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// close — возвращает false, если уже закрыт.
func (h *holder[S]) close() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.closed = true
	return true
}

// lifetime — контекст, который отменяется при Close владельца.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return lifetime{ctx: ctx, cancel: cancel}
}

// bind — ctx вызова, дополнительно отменяемый при Close владельца.
func (l lifetime) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
