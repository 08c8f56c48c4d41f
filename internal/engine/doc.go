// Package engine implements a background HTTP download session.
//
// An Engine is configured while its status is None, started once, and then
// driven by a single worker goroutine through Connecting, Connected and
// Downloading to exactly one terminal status: Complete, Aborted, Timeout or
// Failed. Progress is delivered through a ProgressFunc called on the worker
// goroutine.
//
// Cancellation is cooperative. Abort sets a flag the worker checks between
// chunks; if the worker is still blocked after a grace period the engine
// closes the connection and the output sink, which makes the blocking call
// return. Goroutines are never killed.
package engine
