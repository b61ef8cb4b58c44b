package notify

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

// Bell — звуковой сигнал (BEL) в терминал. Если вывод не терминал, ничего не пишет.
type Bell struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
}

// NewBell — сигнал в f, включён только для TTY.
func NewBell(f *os.File) *Bell {
	fd := f.Fd()
	return &Bell{out: f, enabled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

// NewBellWriter — сигнал в произвольный writer.
func NewBellWriter(w io.Writer, enabled bool) *Bell {
	return &Bell{out: w, enabled: enabled}
}

func (b *Bell) Enabled() bool { return b.enabled }

func (b *Bell) Notify(_ context.Context, _ domain.Alert) error {
	if !b.enabled {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.out.Write([]byte{'\a'})
	return err
}
