package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vertextoedge/http-downloader/internal/domain"
)

const historyColumns = `session_id, url, target, priority, status, bytes_transferred,
	total_bytes, md5, message, started_at, ended_at`

// Record stores the snapshot of a terminated session
func (s *Store) Record(ctx context.Context, snap domain.Snapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("%w: session id is empty", domain.ErrInvalidInput)
	}

	query := `INSERT INTO download_history (` + historyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		snap.ID, snap.URL, snap.Target, int(snap.Priority), snap.Status.String(),
		snap.BytesTransferred, snap.TotalBytes, snap.Digest, snap.Message,
		toUnixNano(snap.StartedAt), toUnixNano(snap.EndedAt))
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Get retrieves a recorded session by ID
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	query := `SELECT ` + historyColumns + ` FROM download_history WHERE session_id = ?`

	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, query, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// List returns recorded sessions, most recently ended first
func (s *Store) List(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	query := `SELECT ` + historyColumns + ` FROM download_history ORDER BY ended_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []domain.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	return snaps, rows.Err()
}

// CountByStatus returns the number of recorded sessions per terminal status
func (s *Store) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM download_history GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Status]int64)
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		status, err := domain.ParseStatus(name)
		if err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var (
		snap              domain.Snapshot
		priority          int
		status            string
		started, finished int64
	)
	err := row.Scan(&snap.ID, &snap.URL, &snap.Target, &priority, &status,
		&snap.BytesTransferred, &snap.TotalBytes, &snap.Digest, &snap.Message,
		&started, &finished)
	if err != nil {
		return nil, err
	}

	snap.Priority = domain.Priority(priority)
	snap.Status, err = domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	snap.StartedAt = fromUnixNano(started)
	snap.EndedAt = fromUnixNano(finished)
	return &snap, nil
}

func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
