package domain

import "fmt"

// Status is the lifecycle state of a download session.
// Success path: None -> Started -> Connecting -> Connected -> Downloading -> Complete.
// Aborted, Timeout and Failed are terminal error states reachable from any
// in-progress state.
type Status int32

const (
	StatusNone        Status = 0
	StatusStarted     Status = 1
	StatusConnecting  Status = 2
	StatusConnected   Status = 3
	StatusDownloading Status = 4
	StatusComplete    Status = 5

	StatusAborted Status = 0x10
	StatusTimeout Status = 0x11
	StatusFailed  Status = 0x12
)

var statusNames = map[Status]string{
	StatusNone:        "None",
	StatusStarted:     "Started",
	StatusConnecting:  "Connecting",
	StatusConnected:   "Connected",
	StatusDownloading: "Downloading",
	StatusComplete:    "Complete",
	StatusAborted:     "Aborted",
	StatusTimeout:     "Timeout",
	StatusFailed:      "Failed",
}

// String returns the status name
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// IsTerminal reports whether no further transition can follow s
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s.IsError()
}

// IsError reports whether s is one of the terminal error states
func (s Status) IsError() bool {
	return s == StatusAborted || s == StatusTimeout || s == StatusFailed
}

// IsActive reports whether a worker is running for a session in state s
func (s Status) IsActive() bool {
	return s >= StatusStarted && s <= StatusDownloading
}

// ParseStatus converts a status name back to a Status
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return StatusNone, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, name)
}
