// Package jsondb persists a single JSON document in a file with
// atomic-replace write semantics.
//
// It is meant for small indexes that are rewritten whole on every change.
// Writers are serialized through [Document.Update]; readers never block
// because the file is replaced with a rename and always holds a complete
// encoding.
package jsondb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Document handles storage of one JSON-encoded value of type T in a file.
type Document[T any] struct {
	path string

	// mu serializes read-modify-write cycles. Plain loads do not take it.
	mu sync.Mutex
}

// Open returns a Document backed by the given file path, creating the parent
// directory if needed. The file itself is created on first save.
func Open[T any](path string) (*Document[T], error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	return &Document[T]{path: path}, nil
}

// Path returns the backing file path.
func (d *Document[T]) Path() string {
	return d.path
}

// Load reads and decodes the document.
//
// A missing file yields the zero value. A file that cannot be read or parsed
// also yields the zero value after logging a warning; the next save replaces
// it. Losing a corrupt index beats refusing every operation until someone
// hand-edits the file.
func (d *Document[T]) Load() *T {
	v := new(T)
	data, err := os.ReadFile(d.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read document, treating as empty", "path", d.path, "err", err)
		}
		return v
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("Failed to parse document, treating as empty", "path", d.path, "err", err)
		return new(T)
	}
	return v
}

// Save encodes v and atomically replaces the document file.
//
// The encoding is written to a sibling file with a ".tmp" suffix first and
// renamed over the target, so a reader never observes a partial write. The
// temporary file is removed when the save fails.
func (d *Document[T]) Save(v *T) error {
	data, err := marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	tmpPath := d.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return errors.Join(fmt.Errorf("failed to write temp file: %w", err), removeIfPresent(tmpPath))
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		return errors.Join(fmt.Errorf("failed to replace %s: %w", d.path, err), removeIfPresent(tmpPath))
	}
	return nil
}

// Update runs fn on the current document under the writer lock and saves the
// result when fn reports a change.
//
// fn receives the freshly loaded value and may mutate it in place. Returning
// false skips the save. Returning an error aborts the cycle and nothing is
// written. The returned bool reports whether a save happened.
func (d *Document[T]) Update(fn func(*T) (bool, error)) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.Load()
	changed, err := fn(v)
	if err != nil || !changed {
		return false, err
	}
	if err := d.Save(v); err != nil {
		return false, err
	}
	return true, nil
}

// marshal encodes with two-space indentation and without HTML escaping so
// non-ASCII text stays readable in the file.
func marshal[T any](v *T) ([]byte, error) {
	buf := bytes.Buffer{}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp file: %w", err)
	}
	return nil
}
