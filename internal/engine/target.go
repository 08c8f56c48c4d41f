package engine

import "io"

// OutputMode identifies how downloaded bytes leave the engine
type OutputMode int

const (
	OutputNone OutputMode = iota
	// OutputFile writes to a file the engine creates and closes
	OutputFile
	// OutputStream writes to a caller-owned io.Writer that is flushed but never closed
	OutputStream
)

// String returns the output mode name
func (m OutputMode) String() string {
	switch m {
	case OutputFile:
		return "file"
	case OutputStream:
		return "stream"
	default:
		return "none"
	}
}

// Target is the destination of a download: either a file path or a writer.
// The zero Target has no destination.
type Target struct {
	path   string
	writer io.Writer
}

// FileTarget returns a target that creates (or truncates) the file at path
func FileTarget(path string) Target {
	return Target{path: path}
}

// StreamTarget returns a target that writes into w. The caller keeps
// ownership of w.
func StreamTarget(w io.Writer) Target {
	return Target{writer: w}
}

// Mode returns the output mode of the target
func (t Target) Mode() OutputMode {
	switch {
	case t.path != "":
		return OutputFile
	case t.writer != nil:
		return OutputStream
	default:
		return OutputNone
	}
}

// IsZero reports whether the target has no destination
func (t Target) IsZero() bool {
	return t.Mode() == OutputNone
}

// Path returns the file path of a file target
func (t Target) Path() string {
	return t.path
}

// String describes the target for logs and history records
func (t Target) String() string {
	switch t.Mode() {
	case OutputFile:
		return t.path
	case OutputStream:
		return "<stream>"
	default:
		return ""
	}
}
