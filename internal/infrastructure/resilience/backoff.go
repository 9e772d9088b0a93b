package resilience

import (
	"context"
	"math"
	"time"
)

// Backoff computes exponential retry delays.
type Backoff struct {
	Base       time.Duration
	Multiplier float64
	Max        time.Duration // zero means uncapped
}

// Delay returns the pause before retrying after the given failed attempt
// (zero-based): Base * Multiplier^attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	if b.Base <= 0 {
		return 0
	}
	if attempt < 0 {
		attempt = 0
	}

	mult := b.Multiplier
	if mult < 1 {
		mult = 1
	}

	d := float64(b.Base) * math.Pow(mult, float64(attempt))
	if d < 0 || d > float64(math.MaxInt64) {
		d = float64(math.MaxInt64)
	}

	delay := time.Duration(d)
	if b.Max > 0 && delay > b.Max {
		delay = b.Max
	}
	return delay
}

// Sleep pauses for d or until the context is cancelled, whichever is first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
