// CLAUDE:SUMMARY Filesystem store for captured PNGs: write, open, list-by-age, remove. Resolution is pinned to the root dir.
// Package store persists captures: PNG files on disk plus a SQLite ledger
// of capture metadata.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrBadName is returned for filenames that would escape the storage root.
var ErrBadName = errors.New("store: invalid filename")

// Files persists capture images under a single root directory.
// Writes are append-only under distinct random filenames, so concurrent
// requests never contend on a path.
type Files struct {
	root string
}

// NewFiles creates the root directory if needed and returns a Files store.
func NewFiles(root string) (*Files, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir %s: %w", root, err)
	}
	return &Files{root: root}, nil
}

// Root returns the storage directory path.
func (f *Files) Root() string { return f.root }

// Resolve maps a filename to its absolute path inside the root.
// Path separators, traversal segments and hidden names are rejected so a
// crafted filename can never address a file outside the storage directory.
func (f *Files) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", ErrBadName
	}
	if strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return "", ErrBadName
	}
	return filepath.Join(f.root, name), nil
}

// Write stores data under name and returns the byte count written.
func (f *Files) Write(name string, data []byte) (int64, error) {
	path, err := f.Resolve(name)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("store: write %s: %w", name, err)
	}
	return int64(len(data)), nil
}

// Open opens a stored file for reading. The caller closes it.
// Returns os.ErrNotExist (wrapped) when the file is absent.
func (f *Files) Open(name string) (*os.File, os.FileInfo, error) {
	path, err := f.Resolve(name)
	if err != nil {
		return nil, nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("store: open %s: %w", name, err)
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, nil, fmt.Errorf("store: stat %s: %w", name, err)
	}
	return fh, info, nil
}

// Remove deletes a stored file. Removing an absent file is not an error:
// the sweeper and a concurrent host cleanup may race.
func (f *Files) Remove(name string) error {
	path, err := f.Resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: remove %s: %w", name, err)
	}
	return nil
}

// ListOlderThan returns the names of regular files whose mtime is before
// cutoff. Subdirectories are skipped.
func (f *Files) ListOlderThan(cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("store: read dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // deleted between ReadDir and Info
		}
		if info.ModTime().Before(cutoff) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
