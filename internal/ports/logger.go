package ports

import "context"

// Logger — логгер сервиса предзагрузки. Сообщения пишутся в виде "event key=value ...",
// request_id и trace_id реализация берёт из ctx.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
