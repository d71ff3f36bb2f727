// CLAUDE:SUMMARY SQLite capture ledger: one row per stored screenshot, listed newest-first, pruned by the sweeper.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Capture is one ledger row. Timestamps are unix milliseconds.
type Capture struct {
	ID          string
	URL         string
	Width       int
	Height      int
	Filename    string
	SizeBytes   int64
	ContentType string
	CreatedAt   int64
	ExpiresAt   int64
}

// Ledger records capture metadata in SQLite. The filesystem stays
// authoritative for retrieval; the ledger serves listing and expiry
// bookkeeping.
type Ledger struct {
	db *sql.DB
}

// NewLedger wraps db. Call Init on the db (or store.Init) before use.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Insert records a capture.
func (l *Ledger) Insert(ctx context.Context, c *Capture) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO captures (id, url, width, height, filename, size_bytes, content_type, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.URL, c.Width, c.Height, c.Filename, c.SizeBytes, c.ContentType, c.CreatedAt, c.ExpiresAt)
	if err != nil {
		return fmt.Errorf("store: insert capture: %w", err)
	}
	return nil
}

// List returns up to limit captures, newest first.
func (l *Ledger) List(ctx context.Context, limit int) ([]*Capture, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, url, width, height, filename, size_bytes, content_type, created_at, expires_at
		FROM captures ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list captures: %w", err)
	}
	defer rows.Close()

	var out []*Capture
	for rows.Next() {
		var c Capture
		if err := rows.Scan(&c.ID, &c.URL, &c.Width, &c.Height, &c.Filename,
			&c.SizeBytes, &c.ContentType, &c.CreatedAt, &c.ExpiresAt); err != nil {
			return nil, fmt.Errorf("store: scan capture: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// GetByFilename returns the ledger row for a filename, or sql.ErrNoRows.
func (l *Ledger) GetByFilename(ctx context.Context, filename string) (*Capture, error) {
	var c Capture
	err := l.db.QueryRowContext(ctx, `
		SELECT id, url, width, height, filename, size_bytes, content_type, created_at, expires_at
		FROM captures WHERE filename = ?`, filename).
		Scan(&c.ID, &c.URL, &c.Width, &c.Height, &c.Filename,
			&c.SizeBytes, &c.ContentType, &c.CreatedAt, &c.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteByFilename prunes ledger rows for the given filenames.
func (l *Ledger) DeleteByFilename(ctx context.Context, filenames []string) error {
	if len(filenames) == 0 {
		return nil
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin prune: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM captures WHERE filename = ?`)
	if err != nil {
		return fmt.Errorf("store: prepare prune: %w", err)
	}
	defer stmt.Close()

	for _, name := range filenames {
		if _, err := stmt.ExecContext(ctx, name); err != nil {
			return fmt.Errorf("store: prune %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of ledger rows.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM captures`).Scan(&n)
	return n, err
}
