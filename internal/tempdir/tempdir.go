// Package tempdir provides scoped temporary directories and files.
//
// A File is a named file living alone inside its own temporary Dir, which
// works the same on every platform (the file can be reopened by name by a
// child process while still open here).
package tempdir

import (
	"errors"
	"os"
	"path/filepath"
)

// DefaultFileName is the name File uses when none is given.
const DefaultFileName = "temp"

// Dir is a temporary directory removed by Close.
type Dir struct {
	path   string
	closed bool
}

// New creates a temporary directory whose name starts with pattern (see
// os.MkdirTemp).
func New(pattern string) (*Dir, error) {
	path, err := os.MkdirTemp("", pattern)
	if err != nil {
		return nil, err
	}
	return &Dir{path: path}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// Join returns elem joined onto the directory path.
func (d *Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

// Close removes the directory tree. Calling Close more than once is a no-op.
func (d *Dir) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return os.RemoveAll(d.path)
}

// File is a named file inside its own temporary directory. Both are removed
// by Close.
type File struct {
	*os.File
	dir *Dir
}

// NewFile creates a temporary directory and, inside it, an empty file called
// name (DefaultFileName when empty), opened for reading and writing.
func NewFile(name string) (*File, error) {
	if name == "" {
		name = DefaultFileName
	}
	dir, err := New("chakra-")
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(dir.Join(name), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		_ = dir.Close()
		return nil, err
	}
	return &File{File: f, dir: dir}, nil
}

// Dir returns the directory holding the file.
func (f *File) Dir() *Dir {
	return f.dir
}

// Close closes the file and removes its directory.
func (f *File) Close() error {
	err := f.File.Close()
	if errors.Is(err, os.ErrClosed) {
		err = nil
	}
	return errors.Join(err, f.dir.Close())
}
