package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
)

// Проверка, что уведомители удовлетворяют интерфейсу Notifier.
var (
	_ ports.Notifier = (*Fanout)(nil)
	_ ports.Notifier = (*Bell)(nil)
	_ ports.Notifier = (*Log)(nil)
	_ ports.Notifier = (*Journal)(nil)
)

// Route — канал уведомления и его получатель.
type Route struct {
	Channel  domain.Channel
	Notifier ports.Notifier
}

// Fanout — рассылает уведомление по всем каналам. Ошибка одного канала не мешает остальным.
type Fanout struct {
	routes []Route
}

func NewFanout(routes ...Route) *Fanout {
	return &Fanout{routes: routes}
}

// Channels — каналы, по которым уходят уведомления.
func (f *Fanout) Channels() []domain.Channel {
	out := make([]domain.Channel, 0, len(f.routes))
	for _, r := range f.routes {
		out = append(out, r.Channel)
	}
	return out
}

func (f *Fanout) Notify(ctx context.Context, alert domain.Alert) error {
	alert.Channels = f.Channels()

	var errs []error
	for _, r := range f.routes {
		if err := r.Notifier.Notify(ctx, alert); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Channel, err))
		}
	}
	return errors.Join(errs...)
}
