// Package jsonsink persists and loads the ZIP lookup document.
package jsonsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/zipcoords-etl/internal/domain"
	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the output lock.
var ErrLocked = errors.New("output is locked by another run")

// Writer writes a ZipMap as one indented JSON document.
// It implements pipeline.MapWriter.
type Writer struct {
	path string
	perm os.FileMode
}

// NewWriter creates a Writer for the document at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path, perm: 0o644}
}

// Path returns the target document path.
func (w *Writer) Path() string { return w.path }

// LockPath returns the advisory lock file guarding the document.
func (w *Writer) LockPath() string { return w.path + ".lock" }

// WriteMap encodes m and replaces the target document atomically: the data
// goes to a temp file in the same directory which is then renamed over the
// target. A failed write leaves any previous document untouched.
func (w *Writer) WriteMap(ctx context.Context, m domain.ZipMap) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.IOError{Op: "create output directory", Path: dir, Err: err}
	}

	lock := flock.New(w.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return &domain.IOError{Op: "lock output", Path: w.path, Err: err}
	}
	if !locked {
		return &domain.IOError{Op: "lock output", Path: w.path, Err: ErrLocked}
	}
	defer w.release(lock)

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return &domain.IOError{Op: "create temp file", Path: dir, Err: err}
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, data, w.perm); err != nil {
		os.Remove(tmpPath)
		return &domain.IOError{Op: "write output", Path: tmpPath, Err: err}
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return &domain.IOError{Op: "rename output", Path: w.path, Err: err}
	}
	return nil
}

// release drops the lock and removes the lock file so a finished run leaves
// only the document behind.
func (w *Writer) release(lock *flock.Flock) {
	_ = lock.Unlock()
	_ = os.Remove(w.LockPath())
}

func writeAndClose(f *os.File, data []byte, perm os.FileMode) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode renders m with 2-space indentation and a trailing newline.
// Keys come out sorted.
func Encode(m domain.ZipMap) ([]byte, error) {
	if m == nil {
		m = domain.ZipMap{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode zip map: %w", err)
	}
	return append(data, '\n'), nil
}

// Load reads a document previously written by Writer.
func Load(path string) (domain.ZipMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.IOError{Op: "open map", Path: path, Err: err}
	}
	defer f.Close()

	var m domain.ZipMap
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if m == nil {
		m = domain.ZipMap{}
	}
	return m, nil
}
