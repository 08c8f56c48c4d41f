package engine

import (
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertextoedge/http-downloader/internal/domain"
	"github.com/vertextoedge/http-downloader/internal/util/ratelimiter"
)

// Engine downloads one URL into one target. It is configured while its
// status is None, started once, and closed when no longer needed.
type Engine struct {
	id         string
	logger     *zap.Logger
	client     *http.Client
	headers    map[string]string
	abortGrace time.Duration
	report     reporter

	// Configuration is frozen once the status leaves None
	mu          sync.Mutex
	url         string
	target      Target
	timeout     time.Duration
	hashEnabled bool
	bufferSize  int
	rateLimit   int64
	priority    domain.Priority
	closed      bool
	grace       *time.Timer

	// Written only by the worker (and Start), read from any goroutine
	status   atomic.Int32
	bytes    atomic.Int64
	total    atomic.Int64
	started  atomic.Int64 // unix nanos
	ended    atomic.Int64 // unix nanos
	digest   atomic.Pointer[string]
	message  atomic.Pointer[string]
	aborting atomic.Bool

	sess      atomic.Pointer[session]
	res       resources
	done      chan struct{}
	closeOnce sync.Once
}

// session holds the settings frozen by Start plus the per-run machinery
type session struct {
	url        string
	target     Target
	timeout    time.Duration
	bufferSize int
	startedAt  time.Time
	hash       *hashAccumulator
	bandwidth  *ratelimiter.Bandwidth
	watchdog   *watchdog
	ctx        context.Context
	cancel     context.CancelCauseFunc
}

// New creates an idle engine
func New(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		id:          uuid.NewString(),
		client:      &http.Client{},
		headers:     make(map[string]string),
		abortGrace:  DefaultAbortGrace,
		timeout:     DefaultTimeout,
		hashEnabled: true,
		bufferSize:  DefaultBufferSize,
		priority:    domain.PriorityDefault,
		done:        make(chan struct{}),
	}
	e.total.Store(-1)
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logger.With(zap.String("session", e.id))
	return e
}

// configure applies fn only while the session has not been started
func (e *Engine) configure(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.Status() != domain.StatusNone {
		e.logger.Debug("configuration ignored, session already started")
		return
	}
	fn()
}

// Configure sets the URL, the output target, the per-read timeout and
// whether the MD5 digest is computed. It is ignored once the session started.
func (e *Engine) Configure(url string, target Target, timeout time.Duration, hashEnabled bool) {
	e.configure(func() {
		e.url = url
		e.target = target
		e.timeout = timeout
		e.hashEnabled = hashEnabled
	})
}

// SetURL sets the download URL
func (e *Engine) SetURL(url string) {
	e.configure(func() { e.url = url })
}

// SetSaveFilePath makes the engine write into a file it owns.
// It replaces any output stream.
func (e *Engine) SetSaveFilePath(path string) {
	e.configure(func() { e.target = FileTarget(path) })
}

// SetOutStream makes the engine write into w. It replaces any file path.
func (e *Engine) SetOutStream(w io.Writer) {
	e.configure(func() { e.target = StreamTarget(w) })
}

// SetTimeout sets the per-read stall limit. Zero disables the watchdog.
func (e *Engine) SetTimeout(d time.Duration) {
	e.configure(func() { e.timeout = d })
}

// SetHashEnabled sets whether the MD5 digest is computed
func (e *Engine) SetHashEnabled(enabled bool) {
	e.configure(func() { e.hashEnabled = enabled })
}

// SetBufferSize sets the chunk size
func (e *Engine) SetBufferSize(n int) {
	if n <= 0 {
		return
	}
	e.configure(func() { e.bufferSize = n })
}

// Start launches the worker. The session must be in status None with a URL
// and an output target configured; otherwise a progress event with status
// None reports the configuration error, which is also returned, and no
// worker is started. A session that was already started or closed only
// returns domain.ErrAlreadyStarted or domain.ErrClosed and emits no event,
// so a terminal event already delivered stays the last one.
func (e *Engine) Start(priority domain.Priority) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrClosed
	}
	if e.Status() != domain.StatusNone {
		e.mu.Unlock()
		return domain.ErrAlreadyStarted
	}

	var cfgErr *domain.ConfigurationError
	switch {
	case e.url == "":
		cfgErr = domain.NewConfigurationError(domain.ErrNoURL)
	case e.target.IsZero():
		cfgErr = domain.NewConfigurationError(domain.ErrNoOutputTarget)
	}
	if cfgErr != nil {
		e.mu.Unlock()
		e.logger.Warn("download not started", zap.Error(cfgErr))
		e.report.emit(cfgErr.Error(), domain.StatusNone, 0, -1, 0)
		return cfgErr
	}

	now := time.Now()
	ctx, cancel := context.WithCancelCause(context.Background())
	s := &session{
		url:        e.url,
		target:     e.target,
		timeout:    e.timeout,
		bufferSize: e.bufferSize,
		startedAt:  now,
		hash:       newHashAccumulator(e.hashEnabled),
		bandwidth:  ratelimiter.NewBandwidth(e.rateLimit),
		ctx:        ctx,
		cancel:     cancel,
	}
	s.watchdog = newWatchdog(s.timeout, func() {
		e.logger.Warn("read timed out", zap.Duration("timeout", s.timeout))
		s.cancel(domain.ErrReadTimeout)
		e.res.closeBody()
	})

	e.priority = priority
	e.aborting.Store(false)
	e.sess.Store(s)
	e.started.Store(now.UnixNano())
	e.status.Store(int32(domain.StatusStarted))
	e.mu.Unlock()

	e.logger.Info("download started",
		zap.String("url", s.url),
		zap.String("target", s.target.String()),
		zap.Stringer("priority", priority),
		zap.Duration("timeout", s.timeout),
		zap.Int("buffer_size", s.bufferSize),
		zap.Int64("rate_limit", s.bandwidth.Limit()),
		zap.Bool("md5", s.hash.Enabled()))

	go e.run(s)
	return nil
}

// Abort asks the worker to stop after the current chunk. If it has not
// reached a terminal status within the grace period, the connection and the
// output sink are closed to unblock it. Abort is a no-op when the session is
// not running or already aborting.
func (e *Engine) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.Status().IsActive() {
		return
	}
	if !e.aborting.CompareAndSwap(false, true) {
		return
	}
	e.logger.Info("abort requested", zap.Duration("grace", e.abortGrace))
	e.grace = time.AfterFunc(e.abortGrace, func() {
		e.forceStop("abort grace period elapsed")
	})
}

// forceStop cancels the request and closes the connection and the sink so
// that a blocked read or write returns.
func (e *Engine) forceStop(reason string) {
	s := e.sess.Load()
	if s == nil || e.Status().IsTerminal() {
		return
	}
	e.logger.Warn("forcing session resources closed", zap.String("reason", reason))
	s.cancel(domain.ErrAborted)
	if err := e.res.closeBody(); err != nil {
		e.logger.Debug("closing response body", zap.Error(err))
	}
	if err := e.res.closeSink(); err != nil {
		e.logger.Debug("closing output", zap.Error(err))
	}
}

func (e *Engine) stopGrace() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.grace != nil {
		e.grace.Stop()
		e.grace = nil
	}
}

// Close releases the output sink, the connection and any pending watchdog.
// A running worker is cancelled and waited for, unless Close is called from
// the progress callback: the worker is then only cancelled and finishes on
// its own once the callback returns. Close is idempotent and swallows
// failures of already broken resources.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()

		st := e.Status()
		if st.IsActive() {
			e.aborting.Store(true)
			e.forceStop("session closed")
		}
		// finish releases body and sink before storing a terminal status
		if st != domain.StatusNone && !st.IsTerminal() && !e.report.inCallback.Load() {
			<-e.done
		}
		e.stopGrace()
		if err := e.res.closeBody(); err != nil {
			e.logger.Debug("closing response body", zap.Error(err))
		}
		if err := e.res.closeSink(); err != nil {
			e.logger.Debug("closing output", zap.Error(err))
		}
	})
	return nil
}

// Done is closed once the worker has emitted the terminal event.
// It never closes for a session that was not started.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the session reaches a terminal status or ctx is done
func (e *Engine) Wait(ctx context.Context) (domain.Status, error) {
	if e.Status() == domain.StatusNone {
		return domain.StatusNone, domain.ErrNotStarted
	}
	select {
	case <-e.done:
		return e.Status(), nil
	case <-ctx.Done():
		return e.Status(), ctx.Err()
	}
}

// ID returns the session identifier used in logs and history records
func (e *Engine) ID() string {
	return e.id
}

// Status returns the current lifecycle status
func (e *Engine) Status() domain.Status {
	return domain.Status(e.status.Load())
}

// BytesTransferred returns the number of bytes written to the sink
func (e *Engine) BytesTransferred() int64 {
	return e.bytes.Load()
}

// TotalBytes returns the resource size, or -1 while it is unknown
func (e *Engine) TotalBytes() int64 {
	return e.total.Load()
}

// StartTime returns when Start succeeded, or the zero time
func (e *Engine) StartTime() time.Time {
	return unixNanoTime(e.started.Load())
}

// EndTime returns when the terminal status was reached, or the zero time
func (e *Engine) EndTime() time.Time {
	return unixNanoTime(e.ended.Load())
}

// Digest returns the upper-case hex MD5 of the downloaded bytes.
// It returns domain.ErrDigestDisabled when hashing is off and
// domain.ErrDigestNotReady until the download is Complete.
func (e *Engine) Digest() (string, error) {
	if !e.HashEnabled() {
		return "", domain.ErrDigestDisabled
	}
	if e.Status() != domain.StatusComplete {
		return "", domain.ErrDigestNotReady
	}
	if d := e.digest.Load(); d != nil {
		return *d, nil
	}
	return "", domain.ErrDigestNotReady
}

// URL returns the configured download URL
func (e *Engine) URL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.url
}

// Target returns the configured output target
func (e *Engine) Target() Target {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}

// OutputMode returns how the engine delivers bytes
func (e *Engine) OutputMode() OutputMode {
	return e.Target().Mode()
}

// Timeout returns the per-read stall limit
func (e *Engine) Timeout() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timeout
}

// HashEnabled reports whether the MD5 digest is computed
func (e *Engine) HashEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hashEnabled
}

// BufferSize returns the chunk size
func (e *Engine) BufferSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bufferSize
}

// Snapshot returns a copy of every observable property
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	snap := domain.Snapshot{
		ID:       e.id,
		URL:      e.url,
		Target:   e.target.String(),
		Priority: e.priority,
	}
	e.mu.Unlock()

	// status first: a terminal status guarantees the fields below are final
	snap.Status = e.Status()
	snap.BytesTransferred = e.BytesTransferred()
	snap.TotalBytes = e.TotalBytes()
	snap.StartedAt = e.StartTime()
	snap.EndedAt = e.EndTime()
	if d := e.digest.Load(); d != nil {
		snap.Digest = *d
	}
	if m := e.message.Load(); m != nil {
		snap.Message = *m
	}
	return snap
}

func unixNanoTime(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// resources holds the handles that watchdogs may close from other goroutines
type resources struct {
	mu   sync.Mutex
	body io.Closer
	sink *outputSink
}

func (r *resources) setBody(body io.Closer) {
	r.mu.Lock()
	r.body = body
	r.mu.Unlock()
}

func (r *resources) setSink(sink *outputSink) {
	r.mu.Lock()
	r.sink = sink
	r.mu.Unlock()
}

func (r *resources) closeBody() error {
	r.mu.Lock()
	body := r.body
	r.body = nil
	r.mu.Unlock()

	if body == nil {
		return nil
	}
	return body.Close()
}

func (r *resources) closeSink() error {
	r.mu.Lock()
	sink := r.sink
	r.mu.Unlock()

	if sink == nil {
		return nil
	}
	return sink.Close()
}
