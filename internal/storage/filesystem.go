package storage

import (
	"os"

	"github.com/spf13/afero"
)

// FileSystem is the filesystem surface the pipeline needs: reading and
// rewriting element JSON files, and the destructive output-dir reset.
type FileSystem interface {
	// Stat returns a FileInfo describing the named file
	Stat(name string) (os.FileInfo, error)
	// ReadFile reads the file and returns its contents
	ReadFile(name string) ([]byte, error)
	// WriteFile writes data to a file
	WriteFile(name string, data []byte, perm os.FileMode) error
	// ReadDir reads a directory and returns its entries sorted by name
	ReadDir(name string) ([]os.FileInfo, error)
	// MkdirAll creates a directory and any necessary parents
	MkdirAll(path string, perm os.FileMode) error
	// RemoveAll removes a path and any children it contains
	RemoveAll(path string) error
}

// aferoFileSystem adapts an afero.Fs to the FileSystem interface.
type aferoFileSystem struct {
	fs afero.Fs
}

func (fs *aferoFileSystem) Stat(name string) (os.FileInfo, error) {
	return fs.fs.Stat(name)
}

func (fs *aferoFileSystem) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(fs.fs, name)
}

func (fs *aferoFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(fs.fs, name, data, perm)
}

func (fs *aferoFileSystem) ReadDir(name string) ([]os.FileInfo, error) {
	return afero.ReadDir(fs.fs, name)
}

func (fs *aferoFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return fs.fs.MkdirAll(path, perm)
}

func (fs *aferoFileSystem) RemoveAll(path string) error {
	return fs.fs.RemoveAll(path)
}

// NewOSFileSystem returns a FileSystem that uses the actual OS filesystem
func NewOSFileSystem() FileSystem {
	return &aferoFileSystem{fs: afero.NewOsFs()}
}

// NewMemMapFileSystem returns a FileSystem backed by afero's in-memory filesystem
func NewMemMapFileSystem() FileSystem {
	return &aferoFileSystem{fs: afero.NewMemMapFs()}
}

// NewAferoFileSystem wraps an afero.Fs in the FileSystem interface
func NewAferoFileSystem(fs afero.Fs) FileSystem {
	return &aferoFileSystem{fs: fs}
}
