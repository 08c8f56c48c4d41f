package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vertextoedge/http-downloader/internal/adapter/sqlite"
	"github.com/vertextoedge/http-downloader/internal/domain"
)

func TestRunDownloadsFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	historyPath := filepath.Join(dir, "history.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
history:
  enabled: true
  path: `+historyPath+`
logging:
  level: error
`), 0644))

	code := run([]string{"-config", cfgPath, "-url", srv.URL, "-out", out, "-timeout", "2s"})
	require.Equal(t, exitOK, code)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))

	store, err := sqlite.Open(historyPath)
	require.NoError(t, err)
	defer store.Close()
	counts, err := store.CountByStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), counts[domain.StatusComplete])
}

func TestRunReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	code := run([]string{"-url", srv.URL, "-out", filepath.Join(t.TempDir(), "out"), "-no-md5"})
	require.Equal(t, exitFailed, code)
}

func TestRunRejectsIncompleteConfiguration(t *testing.T) {
	require.Equal(t, exitUsage, run([]string{"-out", "x"}))
	require.Equal(t, exitUsage, run([]string{"-bogus-flag"}))
}

func seedHistory(t *testing.T, dir string) string {
	t.Helper()
	historyPath := filepath.Join(dir, "history.db")
	store, err := sqlite.Open(historyPath)
	require.NoError(t, err)
	defer store.Close()

	ended := time.Now().Add(-time.Hour)
	require.NoError(t, store.Record(context.Background(), domain.Snapshot{
		ID: "older", URL: "http://example.com/a", Target: "/tmp/a",
		Status: domain.StatusFailed, BytesTransferred: 10, TotalBytes: -1,
		StartedAt: ended.Add(-time.Second), EndedAt: ended, Message: "HTTP 404 Not Found",
	}))
	require.NoError(t, store.Record(context.Background(), domain.Snapshot{
		ID: "newer", URL: "http://example.com/b", Target: "/tmp/b",
		Status: domain.StatusComplete, BytesTransferred: 2048, TotalBytes: 2048,
		StartedAt: ended, EndedAt: ended.Add(time.Minute), Digest: "0123456789ABCDEF0123456789ABCDEF",
	}))

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("history:\n  path: "+historyPath+"\n"), 0644))
	return cfgPath
}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestRunListsHistory(t *testing.T) {
	cfgPath := seedHistory(t, t.TempDir())
	out := captureStdout(t)

	require.Equal(t, exitOK, run([]string{"-config", cfgPath, "-history", "1"}))
	require.Contains(t, out.String(), "newer")
	require.NotContains(t, out.String(), "older")
	require.Contains(t, out.String(), "2.0 KiB / 2.0 KiB")
	require.Contains(t, out.String(), "2 sessions recorded, 1 Complete, 1 Failed")

	out.Reset()
	require.Equal(t, exitOK, run([]string{"-config", cfgPath, "-history", "0"}))
	require.Contains(t, out.String(), "older")
	require.Contains(t, out.String(), "newer")
}

func TestRunShowsSession(t *testing.T) {
	cfgPath := seedHistory(t, t.TempDir())
	out := captureStdout(t)

	require.Equal(t, exitOK, run([]string{"-config", cfgPath, "-session", "older"}))
	require.Contains(t, out.String(), "http://example.com/a")
	require.Contains(t, out.String(), "Failed")
	require.Contains(t, out.String(), "HTTP 404 Not Found")
	require.NotContains(t, out.String(), "MD5")

	out.Reset()
	require.Equal(t, exitOK, run([]string{"-config", cfgPath, "-session", "newer"}))
	require.Contains(t, out.String(), "0123456789ABCDEF0123456789ABCDEF")

	require.Equal(t, exitFailed, run([]string{"-config", cfgPath, "-session", "missing"}))
}
