package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vertextoedge/http-downloader/internal/domain"
	"github.com/vertextoedge/http-downloader/internal/port"
)

// terminalStatuses is the order in which totals are printed
var terminalStatuses = []domain.Status{
	domain.StatusComplete,
	domain.StatusAborted,
	domain.StatusTimeout,
	domain.StatusFailed,
}

// showSession prints everything recorded about one session
func showSession(ctx context.Context, w io.Writer, repo port.HistoryRepository, sessionID string) error {
	snap, err := repo.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Session\t%s\n", snap.ID)
	fmt.Fprintf(tw, "URL\t%s\n", snap.URL)
	fmt.Fprintf(tw, "Target\t%s\n", snap.Target)
	fmt.Fprintf(tw, "Priority\t%s\n", snap.Priority)
	fmt.Fprintf(tw, "Status\t%s\n", snap.Status)
	fmt.Fprintf(tw, "Bytes\t%s\n", formatBytes(*snap))
	fmt.Fprintf(tw, "Started\t%s\n", snap.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Duration\t%s\n", snap.Duration().Round(time.Millisecond))
	if snap.Digest != "" {
		fmt.Fprintf(tw, "MD5\t%s\n", snap.Digest)
	}
	if snap.Message != "" {
		fmt.Fprintf(tw, "Message\t%s\n", snap.Message)
	}
	return tw.Flush()
}

// showHistory prints the most recent sessions followed by totals per status.
// limit <= 0 lists every recorded session.
func showHistory(ctx context.Context, w io.Writer, repo port.HistoryRepository, limit int) error {
	snaps, err := repo.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count history: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSTATUS\tBYTES\tENDED\tURL")
	for _, snap := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			snap.ID, snap.Status, formatBytes(snap), humanize.Time(snap.EndedAt), snap.URL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var total int64
	for _, st := range terminalStatuses {
		total += counts[st]
	}
	fmt.Fprintf(w, "\n%d sessions recorded", total)
	for _, st := range terminalStatuses {
		if n := counts[st]; n > 0 {
			fmt.Fprintf(w, ", %d %s", n, st)
		}
	}
	fmt.Fprintln(w)
	return nil
}

func formatBytes(snap domain.Snapshot) string {
	done := humanize.IBytes(uint64(snap.BytesTransferred))
	if snap.TotalBytes < 0 {
		return done
	}
	return done + " / " + humanize.IBytes(uint64(snap.TotalBytes))
}
