// Package storage is the file layer behind the clip archive. A FileStore
// holds named blobs under slash-separated paths, either in a local
// directory or in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrInvalidPath is returned for absolute paths, empty paths and paths that
// climb out of the store root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Object describes one stored file.
type Object struct {
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"modTime" yaml:"mod_time"`
}

// FileStore reads and writes files by path. Implementations must be safe
// for concurrent use.
type FileStore interface {
	// Read opens the named file. A missing file yields an error wrapping
	// os.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write truncates or creates the named file. Data is committed when
	// the returned writer is closed.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the files under prefix, sorted by path.
	List(ctx context.Context, prefix string) ([]Object, error)
}

// CleanPath normalizes p and rejects paths that are empty, absolute or
// escape the root.
func CleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	c := path.Clean(p)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return c, nil
}

// Put writes data to path in one call.
func Put(ctx context.Context, s FileStore, path string, data []byte) error {
	w, err := s.Write(ctx, path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
