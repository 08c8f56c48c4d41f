package event

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/http-downloader/internal/domain"
)

// LoggingHandler logs all events
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingHandler) Handle(event DomainEvent) error {
	switch e := event.(type) {
	case DownloadStarted:
		h.logger.Debug("download started",
			zap.String("session", e.SessionID),
			zap.String("url", e.URL),
			zap.String("target", e.Target),
			zap.Stringer("priority", e.Priority),
		)
	case DownloadTerminated:
		s := e.Snapshot
		fields := []zap.Field{
			zap.String("session", s.ID),
			zap.String("url", s.URL),
			zap.Stringer("status", s.Status),
			zap.Int64("bytes", s.BytesTransferred),
			zap.Int64("total", s.TotalBytes),
			zap.Duration("duration", s.Duration()),
		}
		if s.Digest != "" {
			fields = append(fields, zap.String("md5", s.Digest))
		}
		if s.Status.IsError() {
			h.logger.Warn("download terminated", append(fields, zap.String("message", s.Message))...)
		} else {
			h.logger.Info("download terminated", fields...)
		}
	default:
		h.logger.Debug("domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *LoggingHandler) HandledEvents() []string {
	return []string{NameAll}
}

// MetricsHandler collects metrics from events
type MetricsHandler struct {
	started         atomic.Int64
	completed       atomic.Int64
	aborted         atomic.Int64
	timedOut        atomic.Int64
	failed          atomic.Int64
	bytesDownloaded atomic.Int64
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// Handle updates metrics based on the event
func (h *MetricsHandler) Handle(event DomainEvent) error {
	switch e := event.(type) {
	case DownloadStarted:
		h.started.Add(1)
	case DownloadTerminated:
		h.bytesDownloaded.Add(e.Snapshot.BytesTransferred)
		switch e.Snapshot.Status {
		case domain.StatusComplete:
			h.completed.Add(1)
		case domain.StatusAborted:
			h.aborted.Add(1)
		case domain.StatusTimeout:
			h.timedOut.Add(1)
		case domain.StatusFailed:
			h.failed.Add(1)
		}
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *MetricsHandler) HandledEvents() []string {
	return []string{NameDownloadStarted, NameDownloadTerminated}
}

// GetMetrics returns current metrics
func (h *MetricsHandler) GetMetrics() map[string]int64 {
	return map[string]int64{
		"downloads_started":   h.started.Load(),
		"downloads_completed": h.completed.Load(),
		"downloads_aborted":   h.aborted.Load(),
		"downloads_timed_out": h.timedOut.Load(),
		"downloads_failed":    h.failed.Load(),
		"bytes_downloaded":    h.bytesDownloaded.Load(),
	}
}

// HistoryRecorder persists final session snapshots
type HistoryRecorder interface {
	Record(ctx context.Context, snap domain.Snapshot) error
}

// HistoryHandler writes every terminated session into the history ledger
type HistoryHandler struct {
	repo    HistoryRecorder
	timeout time.Duration
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(repo HistoryRecorder) *HistoryHandler {
	return &HistoryHandler{repo: repo, timeout: 5 * time.Second}
}

// Handle records the final snapshot of a terminated session
func (h *HistoryHandler) Handle(event DomainEvent) error {
	e, ok := event.(DownloadTerminated)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.repo.Record(ctx, e.Snapshot); err != nil {
		return fmt.Errorf("failed to record download history: %w", err)
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *HistoryHandler) HandledEvents() []string {
	return []string{NameDownloadTerminated}
}
