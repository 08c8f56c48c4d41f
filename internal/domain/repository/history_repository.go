package repository

import (
	"context"

	"github.com/vertextoedge/http-downloader/internal/domain"
)

// HistoryRepository persists the final state of download sessions
type HistoryRepository interface {
	// Record stores the snapshot of a terminated session.
	// Returns domain.ErrAlreadyExists if the session was already recorded.
	Record(ctx context.Context, snap domain.Snapshot) error

	// Get retrieves a recorded session by ID.
	// Returns domain.ErrNotFound if it was never recorded.
	Get(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// List returns the most recently ended sessions first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]domain.Snapshot, error)

	// CountByStatus returns the number of recorded sessions per terminal status
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
}
