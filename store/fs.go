package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FS is a phase.Cache backed by a directory on disk: Load/Store each
// operate on one whole file named after the cache key plus Ext.
type FS struct {
	Dir string
	Ext string // file extension, including the leading dot; defaults to ".mpz"
}

// NewFS returns an FS rooted at dir, creating it if necessary.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create results dir: %w", err)
	}
	return &FS{Dir: dir, Ext: ".mpz"}, nil
}

func (f *FS) path(key string) string {
	ext := f.Ext
	if ext == "" {
		ext = ".mpz"
	}
	return filepath.Join(f.Dir, sanitize(key)+ext)
}

// sanitize replaces path separators a cache key could in principle embed
// (phase names and description strings are caller-controlled) so every
// key maps to exactly one file within Dir, never outside it.
func sanitize(key string) string {
	out := make([]rune, 0, len(key))
	for _, r := range key {
		switch r {
		case '/', '\\', '\x00':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// Load reads the file for key. ok is false (with a nil error) if the file
// does not exist — a cache miss, not a failure.
func (f *FS) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: read %q: %w", key, err)
	}
	return data, true, nil
}

// Store writes data for key, replacing any existing file. The write goes
// through a temp file and rename so a crash mid-write never leaves a
// corrupt cache entry a later Load would accept.
func (f *FS) Store(key string, data []byte) error {
	target := f.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %q: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("store: rename %q: %w", key, err)
	}
	return nil
}
