package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vertextoedge/http-downloader/internal/domain"
)

func TestEstimateRemaining(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		current int64
		total   int64
		want    time.Duration
	}{
		{"unknown total", time.Second, 100, -1, 0},
		{"halfway", time.Second, 50, 100, time.Second},
		{"quarter", time.Second, 25, 100, 3 * time.Second},
		{"done", 2 * time.Second, 100, 100, 0},
		{"nothing yet floors current at one", time.Second, 0, 10, 9 * time.Second},
		{"empty resource", time.Second, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, EstimateRemaining(tt.elapsed, tt.current, tt.total))
		})
	}
}

func TestEstimateRemainingOverflow(t *testing.T) {
	got := EstimateRemaining(time.Hour, 1, math.MaxInt64)
	require.Equal(t, time.Duration(math.MaxInt64)-time.Hour, got)
}

func TestEstimateRemainingDecreasesAtConstantRate(t *testing.T) {
	const total = 1000
	prev := time.Duration(math.MaxInt64)
	for step := int64(1); step <= 10; step++ {
		// 100 bytes every 50ms
		got := EstimateRemaining(time.Duration(step)*50*time.Millisecond, step*100, total)
		require.Less(t, got, prev)
		prev = got
	}
	require.Equal(t, time.Duration(0), prev)
}

func TestReporterSingleTerminalEvent(t *testing.T) {
	var got []domain.Status
	r := reporter{fn: func(_ string, status domain.Status, _, _ int64, _ time.Duration) {
		got = append(got, status)
	}}

	r.emit("", domain.StatusConnecting, 0, -1, 0)
	r.emit("", domain.StatusDownloading, 10, 100, 0)
	r.emit("", domain.StatusAborted, 10, 100, 0)
	r.emit("", domain.StatusTimeout, 10, 100, 0)
	r.emit("", domain.StatusDownloading, 20, 100, 0)

	require.Equal(t, []domain.Status{
		domain.StatusConnecting,
		domain.StatusDownloading,
		domain.StatusAborted,
	}, got)
}

func TestReporterWithoutCallback(t *testing.T) {
	var r reporter
	require.NotPanics(t, func() {
		r.emit("Complete", domain.StatusComplete, 1, 1, 0)
	})
}
