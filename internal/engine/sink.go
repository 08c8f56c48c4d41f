package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vertextoedge/http-downloader/internal/domain"
)

// outputSink serializes writes, flushes and closes so that a forced close
// from a watchdog never interleaves with a write in progress.
type outputSink struct {
	mu     sync.Mutex
	w      io.Writer
	file   *os.File // set when the engine owns the destination
	closed bool
}

// openSink opens the destination described by t
func openSink(t Target) (*outputSink, error) {
	switch t.Mode() {
	case OutputFile:
		if dir := filepath.Dir(t.path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create output dir: %w", err)
			}
		}
		f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open output file: %w", err)
		}
		return &outputSink{w: f, file: f}, nil
	case OutputStream:
		return &outputSink{w: t.writer}, nil
	default:
		return nil, domain.ErrNoOutputTarget
	}
}

// Write writes all of p or returns an error
func (s *outputSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, os.ErrClosed
	}
	n, err := s.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}

// Flush makes written bytes durable: fsync for owned files, Flush for
// buffered caller writers.
func (s *outputSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return os.ErrClosed
	}
	if s.file != nil {
		return s.file.Sync()
	}
	if f, ok := s.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close closes an owned file. Caller writers are flushed if buffered and then
// detached, so bytes already accepted reach them on every terminal path.
// Calling Close more than once is a no-op.
func (s *outputSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.file != nil {
		return s.file.Close()
	}
	if f, ok := s.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
