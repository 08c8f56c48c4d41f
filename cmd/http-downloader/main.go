package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/http-downloader/internal/adapter/sqlite"
	"github.com/vertextoedge/http-downloader/internal/config"
	"github.com/vertextoedge/http-downloader/internal/domain"
	"github.com/vertextoedge/http-downloader/internal/domain/event"
	"github.com/vertextoedge/http-downloader/internal/engine"
	"github.com/vertextoedge/http-downloader/internal/logger"
	"github.com/vertextoedge/http-downloader/internal/progress"
)

const version = "0.1.0"

// stdout receives history listings
var stdout io.Writer = os.Stdout

// Exit codes
const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	exitAborted = 130
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("http-downloader", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	url := fs.String("url", "", "URL to download")
	out := fs.String("out", "", "Output file path, or - for stdout")
	timeout := fs.Duration("timeout", 0, "Abort when no data arrives for this long (0 disables)")
	noMD5 := fs.Bool("no-md5", false, "Do not compute the MD5 digest")
	bufferSize := fs.Int("buffer-size", 0, "Read chunk size in bytes")
	historyLimit := fs.Int("history", 0, "Print the last N recorded sessions and exit (0 lists all)")
	sessionID := fs.String("session", "", "Print one recorded session and exit")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return exitUsage
	}

	// Flags given on the command line override the file
	listHistory := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "history":
			listHistory = true
		case "url":
			cfg.Download.URL = *url
		case "out":
			cfg.Download.SaveFilePath = *out
		case "timeout":
			cfg.Download.TimeOut = timeout.String()
		case "no-md5":
			cfg.Download.MD5Enable = !*noMD5
		case "buffer-size":
			cfg.Download.BufferSize = *bufferSize
		}
	})
	if listHistory || *sessionID != "" {
		return runHistory(cfg.History.Path, *historyLimit, *sessionID)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return exitUsage
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return exitUsage
	}
	defer logger.Sync()

	zapLogger := logger.GetZapLogger()
	zapLogger.Debug("starting http-downloader",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	// Domain event handlers
	dispatcher := event.NewInMemoryDispatcher(false, zapLogger)
	dispatcher.Subscribe(event.NewLoggingHandler(zapLogger))
	metrics := event.NewMetricsHandler()
	dispatcher.Subscribe(metrics)

	if cfg.History.Enabled {
		store, err := sqlite.Open(cfg.History.Path)
		if err != nil {
			zapLogger.Error("failed to open history database", zap.Error(err), zap.String("path", cfg.History.Path))
			return exitFailed
		}
		defer store.Close()
		dispatcher.Subscribe(event.NewHistoryHandler(store))
	}

	renderer := progress.NewRenderer(os.Stderr, cfg.Progress.GetInterval())

	eng := engine.New(zapLogger,
		engine.WithProgress(renderer.Handle),
		engine.WithBufferSize(cfg.Download.BufferSize),
		engine.WithRateLimit(cfg.Download.RateLimit),
		engine.WithHeaders(cfg.Download.Headers),
		engine.WithAbortGrace(cfg.Download.GetAbortGrace()),
	)
	defer eng.Close()

	target := engine.FileTarget(cfg.Download.SaveFilePath)
	if cfg.Download.Streaming() {
		target = engine.StreamTarget(bufio.NewWriter(os.Stdout))
	}
	eng.Configure(cfg.Download.URL, target, cfg.Download.GetTimeOut(), cfg.Download.MD5Enable)

	if err := eng.Start(domain.PriorityDefault); err != nil {
		zapLogger.Error("failed to start download", zap.Error(err))
		return exitFailed
	}
	dispatcher.Dispatch(event.NewDownloadStarted(eng.ID(), cfg.Download.URL, target.String(), domain.PriorityDefault))

	// Abort on the first signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			zapLogger.Info("signal received, aborting download", zap.Stringer("signal", sig))
			eng.Abort()
		case <-eng.Done():
		}
	}()

	status, err := eng.Wait(context.Background())
	if err != nil {
		zapLogger.Error("waiting for download", zap.Error(err))
		return exitFailed
	}

	snap := eng.Snapshot()
	dispatcher.Dispatch(event.NewDownloadTerminated(snap))
	if err := eng.Close(); err != nil {
		zapLogger.Warn("failed to close session", zap.Error(err))
	}

	zapLogger.Debug("session metrics", zap.Any("metrics", metrics.GetMetrics()))

	switch status {
	case domain.StatusComplete:
		if digest, err := eng.Digest(); err == nil {
			fmt.Fprintf(os.Stderr, "MD5 %s\n", digest)
		}
		fmt.Fprintf(os.Stderr, "Downloaded %d bytes in %s\n", snap.BytesTransferred, snap.Duration().Round(time.Millisecond))
		return exitOK
	case domain.StatusAborted:
		return exitAborted
	default:
		fmt.Fprintf(os.Stderr, "Download %s: %s\n", status, snap.Message)
		return exitFailed
	}
}

// runHistory prints recorded sessions from the history database
func runHistory(path string, limit int, sessionID string) int {
	store, err := sqlite.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history database: %v\n", err)
		return exitFailed
	}
	defer store.Close()

	ctx := context.Background()
	if sessionID != "" {
		err = showSession(ctx, stdout, store, sessionID)
	} else {
		err = showHistory(ctx, stdout, store, limit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitFailed
	}
	return exitOK
}
