// Package storage defines the minimal file abstraction the changelog document
// and the fragment store are persisted through.
package storage

import "errors"

var (
	// ErrNotFound is returned when a file or directory does not exist.
	// Callers treat it as "empty", never as a failure.
	ErrNotFound = errors.New("not found")
	// ErrStorage wraps every other read, write, list or delete failure.
	ErrStorage = errors.New("storage failure")
)

// Entry is one child of a listed directory.
type Entry struct {
	Name  string
	IsDir bool
}

// Provider is the interface for file operations. All paths are relative to
// the provider's root and use forward slashes.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path, creating parent directories.
	Write(path string, content []byte) error
	// Delete removes the file, or the directory if it is empty.
	Delete(path string) error
	// List returns the direct children of dir. Order is not guaranteed.
	List(dir string) ([]Entry, error)
}
