package event

import (
	"time"

	"github.com/vertextoedge/http-downloader/internal/domain"
)

// Event names
const (
	NameDownloadStarted    = "download.started"
	NameDownloadTerminated = "download.terminated"
	// NameAll subscribes a handler to every event
	NameAll = "*"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	// EventName returns the name of the event
	EventName() string
	// OccurredAt returns when the event occurred
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// DownloadStarted is raised when a session's worker has been launched
type DownloadStarted struct {
	BaseEvent
	SessionID string
	URL       string
	Target    string
	Priority  domain.Priority
}

// EventName returns the event name
func (e DownloadStarted) EventName() string {
	return NameDownloadStarted
}

// NewDownloadStarted creates a new DownloadStarted event
func NewDownloadStarted(sessionID, url, target string, priority domain.Priority) DownloadStarted {
	return DownloadStarted{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		SessionID: sessionID,
		URL:       url,
		Target:    target,
		Priority:  priority,
	}
}

// DownloadTerminated is raised once a session reached Complete, Aborted,
// Timeout or Failed. Snapshot holds the final session state.
type DownloadTerminated struct {
	BaseEvent
	Snapshot domain.Snapshot
}

// EventName returns the event name
func (e DownloadTerminated) EventName() string {
	return NameDownloadTerminated
}

// NewDownloadTerminated creates a new DownloadTerminated event
func NewDownloadTerminated(snap domain.Snapshot) DownloadTerminated {
	ts := snap.EndedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return DownloadTerminated{
		BaseEvent: BaseEvent{Timestamp: ts},
		Snapshot:  snap,
	}
}
