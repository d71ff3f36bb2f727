// CLAUDE:SUMMARY Retention sweeper: periodically deletes stored PNGs past max age and prunes their ledger rows.
// Package sweep removes captures once they outlive the retention window.
package sweep

import (
	"context"
	"log/slog"
	"time"
)

// FileStore is the slice of the image store the sweeper needs.
type FileStore interface {
	ListOlderThan(cutoff time.Time) ([]string, error)
	Remove(name string) error
}

// LedgerPruner prunes capture metadata for removed files. May be nil.
type LedgerPruner interface {
	DeleteByFilename(ctx context.Context, filenames []string) error
}

// Sweeper deletes captures older than MaxAge. Files go first, ledger rows
// second: a crash in between leaves at worst a dangling row whose
// retrieval already 404s.
type Sweeper struct {
	files    FileStore
	ledger   LedgerPruner
	logger   *slog.Logger
	maxAge   time.Duration
	interval time.Duration
}

// NewSweeper creates a Sweeper. ledger may be nil when no ledger is
// configured.
func NewSweeper(files FileStore, ledger LedgerPruner, logger *slog.Logger, maxAge, interval time.Duration) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if maxAge <= 0 {
		maxAge = 30 * time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		files:    files,
		ledger:   ledger,
		logger:   logger,
		maxAge:   maxAge,
		interval: interval,
	}
}

// Run launches the periodic sweep. Blocks until ctx.Done().
func (sw *Sweeper) Run(ctx context.Context) {
	sw.logger.Info("sweeper: started", "max_age", sw.maxAge, "interval", sw.interval)
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sw.logger.Info("sweeper: stopped")
			return
		case <-ticker.C:
			if removed := sw.SweepOnce(ctx); removed > 0 {
				sw.logger.Info("sweeper: cycle done", "removed", removed)
			}
		}
	}
}

// SweepOnce removes everything past the retention window and returns the
// number of files deleted.
func (sw *Sweeper) SweepOnce(ctx context.Context) int {
	cutoff := time.Now().Add(-sw.maxAge)

	names, err := sw.files.ListOlderThan(cutoff)
	if err != nil {
		sw.logger.Warn("sweeper: list files", "error", err)
		return 0
	}

	removed := make([]string, 0, len(names))
	for _, name := range names {
		if err := sw.files.Remove(name); err != nil {
			sw.logger.Warn("sweeper: remove file", "filename", name, "error", err)
			continue
		}
		removed = append(removed, name)
	}

	if sw.ledger != nil && len(removed) > 0 {
		if err := sw.ledger.DeleteByFilename(ctx, removed); err != nil {
			sw.logger.Warn("sweeper: prune ledger", "error", err)
		}
	}
	return len(removed)
}
