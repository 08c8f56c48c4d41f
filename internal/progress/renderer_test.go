package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vertextoedge/http-downloader/internal/domain"
)

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		status    domain.Status
		current   int64
		total     int64
		remaining time.Duration
		expected  string
	}{
		{
			name:     "configuration error",
			message:  "configuration error: download url is not set",
			status:   domain.StatusNone,
			total:    -1,
			expected: "[None] configuration error: download url is not set",
		},
		{
			name:     "connecting",
			message:  "Connecting",
			status:   domain.StatusConnecting,
			total:    -1,
			expected: "[Connecting]",
		},
		{
			name:      "chunk with known size",
			message:   "Downloading",
			status:    domain.StatusDownloading,
			current:   512 * 1024,
			total:     1024 * 1024,
			remaining: 3 * time.Second,
			expected:  "[Downloading] 50.0% | 512 KiB / 1.0 MiB | ETA 3s",
		},
		{
			name:      "chunk with sub-second estimate",
			message:   "Downloading",
			status:    domain.StatusDownloading,
			current:   900,
			total:     1000,
			remaining: 1500 * time.Microsecond,
			expected:  "[Downloading] 90.0% | 900 B / 1000 B | ETA 2ms",
		},
		{
			name:     "chunk with unknown size",
			message:  "Downloading",
			status:   domain.StatusDownloading,
			current:  2048,
			total:    -1,
			expected: "[Downloading] 2.0 KiB",
		},
		{
			name:     "complete",
			message:  "Complete",
			status:   domain.StatusComplete,
			current:  1000,
			total:    1000,
			expected: "[Complete] 100.0% | 1000 B / 1000 B",
		},
		{
			name:     "timeout",
			message:  "Timeout: no data received within 5s",
			status:   domain.StatusTimeout,
			current:  100,
			total:    1000,
			expected: "[Timeout] 10.0% | 100 B / 1000 B | Timeout: no data received within 5s",
		},
		{
			name:     "failed before any byte",
			message:  "connection to http://x failed: HTTP 404",
			status:   domain.StatusFailed,
			total:    -1,
			expected: "[Failed] 0 B | connection to http://x failed: HTTP 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatLine(tt.message, tt.status, tt.current, tt.total, tt.remaining)
			if result != tt.expected {
				t.Errorf("FormatLine() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRendererThrottlesChunks(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, time.Hour)

	r.Handle("Connecting", domain.StatusConnecting, 0, -1, 0)
	r.Handle("Downloading", domain.StatusDownloading, 0, 300, 0)
	for i := int64(1); i <= 3; i++ {
		r.Handle("Downloading", domain.StatusDownloading, i*100, 300, time.Second)
	}
	r.Handle("Complete", domain.StatusComplete, 300, 300, 0)

	out := buf.String()
	if got := strings.Count(out, "[Downloading] 33.3%"); got != 1 {
		t.Errorf("first chunk printed %d times, want 1", got)
	}
	if strings.Contains(out, "66.7%") {
		t.Error("throttled chunk line was printed")
	}
	if !strings.HasSuffix(out, "[Complete] 100.0% | 300 B / 300 B\n") {
		t.Errorf("terminal line missing or not last: %q", out)
	}
	if !strings.HasPrefix(out, "[Connecting]\n") {
		t.Errorf("milestone line missing: %q", out)
	}
}

func TestRendererChunkLinesOverwrite(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, time.Nanosecond)

	r.Handle("Downloading", domain.StatusDownloading, 10, 20, 0)
	time.Sleep(time.Millisecond)
	r.Handle("Downloading", domain.StatusDownloading, 20, 20, 0)
	r.Handle("Aborted", domain.StatusAborted, 20, 20, 0)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected chunk lines to share one terminal line, got %d lines: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "\r[Downloading]") {
		t.Errorf("chunk line should start with carriage return: %q", lines[0])
	}
}

func TestNewRendererDefaultInterval(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, 0)
	if r.limiter.Interval() != DefaultInterval {
		t.Errorf("interval = %v, want %v", r.limiter.Interval(), DefaultInterval)
	}
}
