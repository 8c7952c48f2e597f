package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorrupt is returned when the cache file exists but cannot be decoded.
var ErrCorrupt = errors.New("cache file is corrupt")

// Store maps input text to its first analysis result. Entries are never
// overwritten; only Reset removes them.
type Store interface {
	Get(text string) (Result, bool, error)
	// PutIfAbsent stores r under text unless text is already present.
	// It reports whether r was stored.
	PutIfAbsent(text string, r Result) (bool, error)
	// All returns every entry in insertion order.
	All() ([]Entry, error)
	Reset() error
	Close() error
}

// Open returns the Store for backend ("json" or "sqlite") at path.
func Open(backend, path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	switch backend {
	case "", "json":
		return OpenJSON(path), nil
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (valid: json, sqlite)", backend)
	}
}

// ReadStats reports the entry count of s and the on-disk size of path.
// A missing file has size 0.
func ReadStats(s Store, path string) (Stats, error) {
	entries, err := s.All()
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Entries: len(entries)}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return Stats{}, fmt.Errorf("stat cache: %w", err)
	}
	st.Size = info.Size()
	return st, nil
}
