package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// Configuration errors
	ErrNoURL          = errors.New("download url is not set")
	ErrNoOutputTarget = errors.New("no output file path or output stream is set")

	// Session lifecycle errors
	ErrAlreadyStarted = errors.New("session has already been started")
	ErrNotStarted     = errors.New("session has not been started")
	ErrClosed         = errors.New("session is closed")

	// Terminal causes
	ErrReadTimeout = errors.New("read timed out")
	ErrAborted     = errors.New("download aborted")

	// Output errors
	ErrInsufficientSpace = errors.New("insufficient disk space")

	// Digest errors
	ErrDigestDisabled = errors.New("digest is disabled, enable md5 before starting")
	ErrDigestNotReady = errors.New("digest is not available until the download completes")
)

// ConfigurationError is reported when Start is called on an incompletely
// configured session. No worker is launched.
type ConfigurationError struct {
	Err error
}

// Error returns the error message
func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return "configuration error: " + e.Err.Error()
	}
	return "configuration error"
}

// Unwrap returns the underlying error
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(err error) *ConfigurationError {
	return &ConfigurationError{Err: err}
}

// IsConfigurationError returns true if err is a configuration error
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ConnectionError wraps a DNS, connect or transport failure, or an
// unexpected HTTP status.
type ConnectionError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error returns the error message
func (e *ConnectionError) Error() string {
	msg := "connection failed"
	if e.URL != "" {
		msg = fmt.Sprintf("connection to %s failed", e.URL)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: HTTP %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a new connection error
func NewConnectionError(url string, statusCode int, err error) *ConnectionError {
	return &ConnectionError{URL: url, StatusCode: statusCode, Err: err}
}

// IsConnectionError returns true if err is a connection error
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// GetStatusCode returns the HTTP status code carried by a connection error
func GetStatusCode(err error) (int, bool) {
	var ce *ConnectionError
	if errors.As(err, &ce) && ce.StatusCode != 0 {
		return ce.StatusCode, true
	}
	return 0, false
}
