package dbopen

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestOpen_AppliesPragmas(t *testing.T) {
	// WHAT: Open sets foreign_keys and busy_timeout.
	// WHY: The pragmas are the package's reason to exist.
	db := OpenMemory(t)

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys: got %d, want 1", fk)
	}

	var timeout int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatal(err)
	}
	if timeout != 10_000 {
		t.Errorf("busy_timeout: got %d, want 10000", timeout)
	}
}

func TestOpen_WithoutForeignKeys(t *testing.T) {
	// WHAT: WithoutForeignKeys turns the pragma off.
	db := OpenMemory(t, WithoutForeignKeys())

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 0 {
		t.Errorf("foreign_keys: got %d, want 0", fk)
	}
}

func TestOpen_WithSchema(t *testing.T) {
	// WHAT: Queued schema SQL runs before Open returns.
	db := OpenMemory(t, WithSchema(`CREATE TABLE things (id TEXT PRIMARY KEY)`))

	if _, err := db.Exec(`INSERT INTO things (id) VALUES ('a')`); err != nil {
		t.Fatalf("schema table missing: %v", err)
	}
}

func TestOpen_WithMkdirAll(t *testing.T) {
	// WHAT: WithMkdirAll creates missing parent directories.
	// WHY: First boot on a clean host has no data directory yet.
	path := filepath.Join(t.TempDir(), "deep", "nested", "app.db")
	db, err := Open(path, WithMkdirAll())
	if err != nil {
		t.Fatalf("open with mkdir: %v", err)
	}
	db.Close()
}

func TestOpen_MissingParentFails(t *testing.T) {
	// WHAT: Without WithMkdirAll, a missing parent directory fails.
	path := filepath.Join(t.TempDir(), "missing", "app.db")
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestIsBusy(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("SQLITE_BUSY: database is locked"), true},
		{errors.New("database is locked"), true},
		{errors.New("database table is locked"), true},
		{errors.New("syntax error"), false},
	}
	for _, tc := range cases {
		if got := IsBusy(tc.err); got != tc.want {
			t.Errorf("IsBusy(%v): got %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestRunTx_CommitAndRollback(t *testing.T) {
	// WHAT: RunTx commits on success and rolls back on error.
	db := OpenMemory(t, WithSchema(`CREATE TABLE n (v INTEGER)`))
	ctx := context.Background()

	err := RunTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO n (v) VALUES (1)`)
		return err
	})
	if err != nil {
		t.Fatalf("commit tx: %v", err)
	}

	failErr := errors.New("boom")
	err = RunTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO n (v) VALUES (2)`); err != nil {
			return err
		}
		return failErr
	})
	if !errors.Is(err, failErr) {
		t.Fatalf("rollback tx: got %v, want %v", err, failErr)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM n`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("rows after rollback: got %d, want 1", count)
	}
}
