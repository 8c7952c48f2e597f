package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// jsonStore keeps the whole cache in one JSON object on disk. Every
// operation reads the file in full and every write rewrites it in full.
type jsonStore struct {
	path string
	mu   sync.Mutex
}

func OpenJSON(path string) Store {
	return &jsonStore{path: path}
}

func (s *jsonStore) Get(text string) (Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return Result{}, false, err
	}
	for _, e := range entries {
		if e.Text == text {
			return e.Result, true, nil
		}
	}
	return Result{}, false, nil
}

func (s *jsonStore) PutIfAbsent(text string, r Result) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Text == text {
			return false, nil
		}
	}
	entries = append(entries, Entry{Text: text, Result: r})
	if err := s.save(entries); err != nil {
		return false, err
	}
	return true, nil
}

func (s *jsonStore) All() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *jsonStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

func (s *jsonStore) Close() error { return nil }

func (s *jsonStore) load() ([]Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	entries, err := decodeEntries(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return entries, nil
}

func (s *jsonStore) save(entries []Entry) error {
	data, err := encodeEntries(entries)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".kanjo-cache-*")
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// decodeEntries streams a top-level JSON object so that key order survives.
// A repeated key keeps its first position and its last value.
func decodeEntries(r io.Reader) ([]Entry, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var entries []Entry
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", tok)
		}
		var res Result
		if err := dec.Decode(&res); err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		if i, dup := index[key]; dup {
			entries[i].Result = res
			continue
		}
		index[key] = len(entries)
		entries = append(entries, Entry{Text: key, Result: res})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level object at offset %d", dec.InputOffset())
	}
	return entries, nil
}

func encodeEntries(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteString(", ")
		}
		key, err := marshalVerbatim(e.Text)
		if err != nil {
			return nil, err
		}
		val, err := marshalVerbatim(e.Result)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalVerbatim encodes v without escaping <, > and &. Non-ASCII text is
// never escaped by encoding/json.
func marshalVerbatim(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
