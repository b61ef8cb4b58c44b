package kafka

import (
	"context"
	"math/rand"
	"time"
)

// backoff — экспоненциальная пауза между попытками с equal jitter:
// половина задержки фиксирована, вторая половина случайна.
type backoff struct {
	initial time.Duration
	max     time.Duration
	cur     time.Duration
	rnd     *rand.Rand
}

func newBackoff(initial, maxDelay time.Duration, seed int64) *backoff {
	return &backoff{initial: initial, max: maxDelay, cur: initial, rnd: rand.New(rand.NewSource(seed))}
}

// Next — задержка для текущей попытки; следующая будет вдвое больше (не выше max).
func (b *backoff) Next() time.Duration {
	d := b.jitter(b.cur)
	b.cur *= 2
	if b.cur > b.max {
		b.cur = b.max
	}
	return d
}

// Reset — после успешной попытки счёт начинается заново.
func (b *backoff) Reset() { b.cur = b.initial }

func (b *backoff) jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(b.rnd.Int63n(int64(d-half)+1))
}

// sleepCtx — пауза d; false, если ctx отменён раньше.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
