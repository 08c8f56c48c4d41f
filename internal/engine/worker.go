package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/vertextoedge/http-downloader/internal/domain"
	"github.com/vertextoedge/http-downloader/internal/fs"
)

// run is the worker goroutine of a session
func (e *Engine) run(s *session) {
	defer close(e.done)

	err := e.download(s)
	e.finish(s, err)
}

func (e *Engine) setStatus(status domain.Status, current, total int64) {
	e.status.Store(int32(status))
	e.logger.Debug("status changed", zap.Stringer("status", status))
	e.report.emit(status.String(), status, current, total, 0)
}

// download drives the connect/read/hash/write loop. A nil return means the
// whole body was written and the sink flushed and closed.
func (e *Engine) download(s *session) error {
	if e.aborting.Load() {
		return domain.ErrAborted
	}

	sink, err := openSink(s.target)
	if err != nil {
		return err
	}
	e.res.setSink(sink)

	e.setStatus(domain.StatusConnecting, 0, -1)

	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return domain.NewConnectionError(s.url, 0, err)
	}
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}

	s.watchdog.Arm()
	resp, err := e.client.Do(req)
	fired := !s.watchdog.Disarm()
	if resp != nil {
		e.res.setBody(resp.Body)
	}
	if fired {
		return domain.ErrReadTimeout
	}
	if err != nil {
		return domain.NewConnectionError(s.url, 0, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewConnectionError(s.url, resp.StatusCode,
			fmt.Errorf("unexpected HTTP status: %s", resp.Status))
	}

	e.setStatus(domain.StatusConnected, 0, -1)
	if e.aborting.Load() {
		return domain.ErrAborted
	}

	// ContentLength is -1 when the server does not report it
	total := resp.ContentLength
	e.total.Store(total)
	if err := e.checkSpace(s.target, total); err != nil {
		return err
	}
	e.setStatus(domain.StatusDownloading, 0, total)

	buf := make([]byte, s.bufferSize)
	for {
		if e.aborting.Load() {
			return domain.ErrAborted
		}

		s.watchdog.Arm()
		n, rerr := resp.Body.Read(buf)
		if !s.watchdog.Disarm() {
			return domain.ErrReadTimeout
		}

		if n > 0 {
			if err := s.bandwidth.WaitN(s.ctx, n); err != nil {
				return fmt.Errorf("rate limit: %w", err)
			}
			s.hash.Update(buf[:n])
			if _, err := sink.Write(buf[:n]); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			current := e.bytes.Add(int64(n))
			e.report.emit(domain.StatusDownloading.String(), domain.StatusDownloading, current, total,
				EstimateRemaining(time.Since(s.startedAt), current, total))
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("read response: %w", rerr)
		}
	}

	if e.aborting.Load() {
		return domain.ErrAborted
	}
	if err := sink.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// checkSpace fails a file download whose announced size does not fit on
// the destination filesystem. An unreadable filesystem is not an error.
func (e *Engine) checkSpace(t Target, need int64) error {
	if t.Mode() != OutputFile || need <= 0 {
		return nil
	}
	ok, usage, err := fs.HasSpace(t.Path(), need)
	if err != nil {
		e.logger.Debug("free space check skipped", zap.Error(err))
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: need %s, %s free", domain.ErrInsufficientSpace,
			humanize.IBytes(uint64(need)), humanize.IBytes(usage.Free))
	}
	return nil
}

// outcome maps the worker result to the terminal status. A caller's abort
// wins over everything else, then a watchdog timeout, then any error.
func (e *Engine) outcome(s *session, err error) (domain.Status, string) {
	switch {
	case e.aborting.Load():
		return domain.StatusAborted, domain.StatusAborted.String()
	case errors.Is(err, domain.ErrReadTimeout), errors.Is(context.Cause(s.ctx), domain.ErrReadTimeout):
		return domain.StatusTimeout, fmt.Sprintf("%s: no data received within %s", domain.StatusTimeout, s.timeout)
	case err != nil:
		return domain.StatusFailed, err.Error()
	default:
		return domain.StatusComplete, domain.StatusComplete.String()
	}
}

// finish releases the session resources and performs the single terminal
// transition.
func (e *Engine) finish(s *session, err error) {
	s.watchdog.Disarm()
	e.stopGrace()
	if cerr := e.res.closeBody(); cerr != nil {
		e.logger.Debug("closing response body", zap.Error(cerr))
	}

	status, message := e.outcome(s, err)
	s.cancel(nil)
	if status != domain.StatusComplete {
		if cerr := e.res.closeSink(); cerr != nil {
			e.logger.Debug("closing output", zap.Error(cerr))
		}
	}

	current := e.bytes.Load()
	total := e.total.Load()
	if status == domain.StatusComplete {
		if s.hash.Enabled() {
			digest := s.hash.Finalize()
			e.digest.Store(&digest)
		}
		if total < 0 {
			total = current
			e.total.Store(total)
		}
	}

	end := time.Now()
	e.ended.Store(end.UnixNano())
	e.message.Store(&message)
	e.status.Store(int32(status))

	fields := []zap.Field{
		zap.Stringer("status", status),
		zap.Int64("bytes", current),
		zap.Int64("total", total),
		zap.Duration("duration", end.Sub(s.startedAt)),
	}
	switch status {
	case domain.StatusComplete, domain.StatusAborted:
		e.logger.Info("download finished", fields...)
	default:
		e.logger.Warn("download finished", append(fields, zap.String("message", message))...)
	}

	e.report.emit(message, status, current, total, 0)
}
