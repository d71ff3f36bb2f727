package store

import "database/sql"

// Schema is the DDL for the capture ledger.
const Schema = `
CREATE TABLE IF NOT EXISTS captures (
    id           TEXT PRIMARY KEY,
    url          TEXT NOT NULL,
    width        INTEGER NOT NULL,
    height       INTEGER NOT NULL,
    filename     TEXT NOT NULL UNIQUE,
    size_bytes   INTEGER NOT NULL,
    content_type TEXT NOT NULL DEFAULT 'image/png',
    created_at   INTEGER NOT NULL,
    expires_at   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_captures_created ON captures(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_captures_expires ON captures(expires_at);
`

// Init applies the ledger schema to the given database.
func Init(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
