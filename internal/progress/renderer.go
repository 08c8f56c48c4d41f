// Package progress renders download progress events as human-readable
// status lines.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vertextoedge/http-downloader/internal/domain"
	"github.com/vertextoedge/http-downloader/internal/util/ratelimiter"
)

// DefaultInterval is the minimum time between two chunk lines
const DefaultInterval = 200 * time.Millisecond

// Renderer writes one line per progress event. Chunk events are throttled
// to one per interval; milestones and the terminal event are always written.
type Renderer struct {
	mu      sync.Mutex
	w       io.Writer
	limiter *ratelimiter.Limiter
	// pending is set while a chunk line is on screen without a newline
	pending bool
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer, interval time.Duration) *Renderer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Renderer{
		w:       w,
		limiter: ratelimiter.New(interval),
	}
}

// Handle has the signature of engine.ProgressFunc
func (r *Renderer) Handle(message string, status domain.Status, current, total int64, remaining time.Duration) {
	chunk := status == domain.StatusDownloading && current > 0
	if chunk {
		if ok, _ := r.limiter.Allow(); !ok {
			return
		}
	}

	line := FormatLine(message, status, current, total, remaining)

	r.mu.Lock()
	defer r.mu.Unlock()

	if chunk {
		// overwrite the previous chunk line in place
		fmt.Fprintf(r.w, "\r%s", line)
		r.pending = true
		return
	}
	if r.pending {
		fmt.Fprint(r.w, "\r")
		r.pending = false
	}
	fmt.Fprintln(r.w, line)
	if status.IsTerminal() {
		r.limiter.Reset()
	}
}

// FormatLine renders a single progress event
func FormatLine(message string, status domain.Status, current, total int64, remaining time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", status)

	switch {
	case status == domain.StatusNone || status == domain.StatusConnecting || status == domain.StatusConnected:
		if message != "" && message != status.String() {
			fmt.Fprintf(&b, " %s", message)
		}
		return b.String()
	case total > 0:
		fmt.Fprintf(&b, " %.1f%% | %s / %s",
			float64(current)*100/float64(total), formatBytes(current), formatBytes(total))
	default:
		fmt.Fprintf(&b, " %s", formatBytes(current))
	}

	switch {
	case status == domain.StatusDownloading && total > 0 && current > 0:
		fmt.Fprintf(&b, " | ETA %s", formatDuration(remaining))
	case status.IsTerminal() && message != status.String():
		fmt.Fprintf(&b, " | %s", message)
	}
	return b.String()
}

func formatBytes(n int64) string {
	if n < 0 {
		return "?"
	}
	return humanize.IBytes(uint64(n))
}

// formatDuration rounds to whole seconds, or to milliseconds below one second
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
