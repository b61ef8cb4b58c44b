package ports

import "context"

// MessageConsumer — фоновый читатель событий инвалидации кэша.
// Run блокируется до отмены ctx; Close освобождает соединение с брокером.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
