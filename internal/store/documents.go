package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrNotFound is returned when a book, order or delivery id is absent.
	ErrNotFound = errors.New("not found")

	// ErrDocumentMissing is wrapped by an IOError when the backing document does not exist yet.
	ErrDocumentMissing = errors.New("document missing")
)

// Documents reads and writes whole JSON documents by name.
type Documents interface {
	ReadDocument(ctx context.Context, name string, v any) error
	WriteDocument(ctx context.Context, name string, v any) error
}

// IOError reports a persistence failure for one document.
type IOError struct {
	Op       string
	Document string
	Err      error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s document %q: %v", e.Op, e.Document, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FileDocuments keeps each document in <dir>/<name>.json
type FileDocuments struct {
	dir string
}

// NewFileDocuments creates the data directory if needed
func NewFileDocuments(dir string) (*FileDocuments, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileDocuments{dir: dir}, nil
}

func (f *FileDocuments) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

// ReadDocument decodes the named document into v
func (f *FileDocuments) ReadDocument(_ context.Context, name string, v any) error {
	data, err := os.ReadFile(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "read", Document: name, Err: ErrDocumentMissing}
	}
	if err != nil {
		return &IOError{Op: "read", Document: name, Err: err}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &IOError{Op: "decode", Document: name, Err: err}
	}
	return nil
}

// WriteDocument replaces the named document with v.
// The content goes to a temp file in the same directory first and is renamed over the old file.
func (f *FileDocuments) WriteDocument(_ context.Context, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return &IOError{Op: "encode", Document: name, Err: err}
	}

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", Document: name, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Document: name, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Document: name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Document: name, Err: err}
	}

	if err := os.Rename(tmpName, f.path(name)); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Document: name, Err: err}
	}
	return nil
}
