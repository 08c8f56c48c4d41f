package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Bandwidth caps a byte stream at a fixed rate.
// A nil *Bandwidth is valid and never waits.
type Bandwidth struct {
	limiter *rate.Limiter
	burst   int
}

// NewBandwidth returns a limiter allowing bytesPerSecond with a one second
// burst, or nil when bytesPerSecond is not positive.
func NewBandwidth(bytesPerSecond int64) *Bandwidth {
	if bytesPerSecond <= 0 {
		return nil
	}
	burst := int(bytesPerSecond)
	return &Bandwidth{
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), burst),
		burst:   burst,
	}
}

// WaitN blocks until n bytes may pass or ctx is done.
// n may exceed the burst; it is consumed in burst-sized pieces.
func (b *Bandwidth) WaitN(ctx context.Context, n int) error {
	if b == nil {
		return nil
	}
	for n > 0 {
		take := min(n, b.burst)
		if err := b.limiter.WaitN(ctx, take); err != nil {
			return err
		}
		n -= take
	}
	return nil
}

// Limit returns the configured rate in bytes per second, or 0 if unlimited
func (b *Bandwidth) Limit() int64 {
	if b == nil {
		return 0
	}
	return int64(b.limiter.Limit())
}
