// Package medium provides durable key-value medium implementations.
package medium

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/harunari/todoro/internal/domain"
)

// Ensure File implements domain.Medium.
var _ domain.Medium = (*File)(nil)

// File stores each key as one file inside a data directory.
type File struct {
	dir string
}

// NewFile creates a file medium rooted at dir. The directory does not
// need to exist; it is created on first write.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Get returns the value stored under key.
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read key file: %w", err)
	}
	return string(data), true, nil
}

// Set stores value under key. The write goes to a temp file first and is
// renamed into place so a crash never leaves a half-written value.
func (f *File) Set(_ context.Context, key, value string) error {
	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", wrapFull(err))
	}

	path := f.pathFor(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(value), 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", wrapFull(err))
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", wrapFull(err))
	}

	return nil
}

// Remove deletes the value stored under key. Absent keys are not an error.
func (f *File) Remove(_ context.Context, key string) error {
	if err := os.Remove(f.pathFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove key file: %w", err)
	}
	return nil
}

// pathFor maps a storage key to a file path. Path separators in keys are
// flattened so a key can never escape the data directory.
func (f *File) pathFor(key string) string {
	name := strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(key)
	return filepath.Join(f.dir, name)
}

// wrapFull tags disk-exhaustion errors with domain.ErrMediumFull so the
// persistence layer can distinguish quota failures from other write errors.
func wrapFull(err error) error {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return fmt.Errorf("%w: %w", domain.ErrMediumFull, err)
	}
	return err
}
