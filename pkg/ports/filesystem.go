package ports

import "io"

// FileSystem abstracts file system operations.
type FileSystem interface {
	// Create opens a file for writing, truncating it if it exists.
	Create(path string) (io.WriteCloser, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error
}
