package domain

import "time"

// Snapshot is a point-in-time copy of a session's observable properties
type Snapshot struct {
	ID               string
	URL              string
	Target           string
	Priority         Priority
	Status           Status
	BytesTransferred int64
	// TotalBytes is -1 while the size is unknown
	TotalBytes int64
	StartedAt  time.Time
	EndedAt    time.Time
	Digest     string
	Message    string
}

// Duration returns the wall-clock time the session ran.
// For a session that has not ended it is the time elapsed so far.
func (s Snapshot) Duration() time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if s.EndedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Percent returns the completed fraction in percent, or -1 if the total is unknown
func (s Snapshot) Percent() float64 {
	if s.TotalBytes <= 0 {
		if s.TotalBytes == 0 && s.Status == StatusComplete {
			return 100
		}
		return -1
	}
	return float64(s.BytesTransferred) * 100 / float64(s.TotalBytes)
}
