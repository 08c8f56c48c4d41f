package engine

import (
	"net/http"
	"time"
)

const (
	// DefaultBufferSize is the chunk size used for each read/hash/write step
	DefaultBufferSize = 10 * 1024
	// DefaultTimeout is the per-read stall limit
	DefaultTimeout = 5 * time.Second
	// DefaultAbortGrace is how long Abort waits before forcing resources closed
	DefaultAbortGrace = 500 * time.Millisecond
)

// Option configures an Engine
type Option func(*Engine)

// WithHTTPClient sets the client used to issue the request
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) {
		if client != nil {
			e.client = client
		}
	}
}

// WithBufferSize sets the per-session chunk size
func WithBufferSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.bufferSize = n
		}
	}
}

// WithRateLimit caps the transfer at bytesPerSecond. Zero means unlimited.
func WithRateLimit(bytesPerSecond int64) Option {
	return func(e *Engine) {
		e.rateLimit = bytesPerSecond
	}
}

// WithProgress sets the progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.report.fn = fn
	}
}

// WithHeaders adds headers to the request
func WithHeaders(headers map[string]string) Option {
	return func(e *Engine) {
		for k, v := range headers {
			e.headers[k] = v
		}
	}
}

// WithAbortGrace sets how long Abort waits for the worker to stop on its own
func WithAbortGrace(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.abortGrace = d
		}
	}
}

// WithTimeout sets the initial per-read stall limit. Zero disables the watchdog.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.timeout = d
		}
	}
}

// WithHashEnabled sets whether the MD5 digest is computed. Default true.
func WithHashEnabled(enabled bool) Option {
	return func(e *Engine) {
		e.hashEnabled = enabled
	}
}
