package domain

import (
	"errors"
	"testing"
	"time"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusNone, "None"},
		{StatusStarted, "Started"},
		{StatusConnecting, "Connecting"},
		{StatusConnected, "Connected"},
		{StatusDownloading, "Downloading"},
		{StatusComplete, "Complete"},
		{StatusAborted, "Aborted"},
		{StatusTimeout, "Timeout"},
		{StatusFailed, "Failed"},
		{Status(42), "Status(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_Classification(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
		isError  bool
		active   bool
	}{
		{StatusNone, false, false, false},
		{StatusStarted, false, false, true},
		{StatusConnecting, false, false, true},
		{StatusConnected, false, false, true},
		{StatusDownloading, false, false, true},
		{StatusComplete, true, false, false},
		{StatusAborted, true, true, false},
		{StatusTimeout, true, true, false},
		{StatusFailed, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.terminal)
			}
			if got := tt.status.IsError(); got != tt.isError {
				t.Errorf("IsError() = %v, want %v", got, tt.isError)
			}
			if got := tt.status.IsActive(); got != tt.active {
				t.Errorf("IsActive() = %v, want %v", got, tt.active)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for s := range statusNames {
		got, err := ParseStatus(s.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q) error = %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %v, want %v", s.String(), got, s)
		}
	}

	if _, err := ParseStatus("Paused"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseStatus(unknown) error = %v, want ErrInvalidInput", err)
	}
}

func TestSnapshot_Percent(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want float64
	}{
		{"half", Snapshot{BytesTransferred: 50, TotalBytes: 100}, 50},
		{"unknown total", Snapshot{BytesTransferred: 50, TotalBytes: -1}, -1},
		{"empty complete", Snapshot{Status: StatusComplete}, 100},
		{"empty in progress", Snapshot{Status: StatusDownloading}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.Percent(); got != tt.want {
				t.Errorf("Percent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshot_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := (Snapshot{}).Duration(); got != 0 {
		t.Errorf("Duration() of unstarted = %v, want 0", got)
	}

	snap := Snapshot{StartedAt: start, EndedAt: start.Add(3 * time.Second)}
	if got := snap.Duration(); got != 3*time.Second {
		t.Errorf("Duration() = %v, want 3s", got)
	}
}

func TestPriorityName(t *testing.T) {
	if got := PriorityDefault.String(); got != "below_normal" {
		t.Errorf("PriorityDefault = %v, want below_normal", got)
	}
	if got := PriorityName(Priority(99)); got != "unknown" {
		t.Errorf("PriorityName(99) = %v, want unknown", got)
	}
}
