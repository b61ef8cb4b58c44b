package usecase

import "errors"

var (
	// ErrInvalidMessage — событие инвалидации не разобрано; консьюмер его коммитит и пропускает.
	ErrInvalidMessage = errors.New("invalid invalidation message")
	// ErrBadPayload — upstream ответил 2xx, но тело не JSON.
	ErrBadPayload = errors.New("upstream returned non-json payload")
)
