package engine

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/vertextoedge/http-downloader/internal/domain"
)

// ProgressFunc receives session progress. It is called on the worker
// goroutine at configuration errors, at the Connecting, Connected and
// Downloading milestones, after every chunk and exactly once with the
// terminal status, which is always the last call. total is -1 while the
// size is unknown. Implementations may call Abort and Close but must not
// call Wait.
type ProgressFunc func(message string, status domain.Status, current, total int64, remaining time.Duration)

// EstimateRemaining projects the time left from the elapsed time and the
// byte counts: elapsed*(total/current) - elapsed. current is floored at 1.
// Early in a transfer the projection is large and unstable; that is expected.
// It returns 0 when total is unknown or already reached.
func EstimateRemaining(elapsed time.Duration, current, total int64) time.Duration {
	if total < 0 {
		return 0
	}
	cur := float64(current)
	if cur < 1 {
		cur = 1
	}
	projected := float64(elapsed) * (float64(total) / cur)
	if projected >= math.MaxInt64 {
		return time.Duration(math.MaxInt64) - elapsed
	}
	if remaining := time.Duration(projected) - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}

// reporter delivers progress events and lets at most one terminal event
// through.
type reporter struct {
	fn         ProgressFunc
	terminated atomic.Bool
	// inCallback is set while fn runs on the worker goroutine
	inCallback atomic.Bool
}

func (r *reporter) emit(message string, status domain.Status, current, total int64, remaining time.Duration) {
	if r.fn == nil || r.terminated.Load() {
		return
	}
	if status.IsTerminal() && !r.terminated.CompareAndSwap(false, true) {
		return
	}
	r.inCallback.Store(true)
	defer r.inCallback.Store(false)
	r.fn(message, status, current, total, remaining)
}
