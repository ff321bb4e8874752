package wavmeta

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrFormat indicates an input that is not a RIFF/WAVE container.
	ErrFormat = errors.New("not a valid RIFF/WAVE container")
	// ErrNotFound indicates a missing source file.
	ErrNotFound = errors.New("file not found")
	// ErrPermission indicates a file that can't be read or a destination that
	// can't be written.
	ErrPermission = errors.New("permission denied")
	// ErrIO covers every other read or write failure.
	ErrIO = errors.New("i/o failure")
)

// WriteError is returned by every failed metadata write. Kind is one of
// ErrFormat, ErrNotFound, ErrPermission or ErrIO; Err is the underlying
// cause. Both match with errors.Is.
type WriteError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *WriteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}

	if errors.Is(e.Err, e.Kind) {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}

	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *WriteError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// newIOError classifies a filesystem error.
func newIOError(op, path string, err error) *WriteError {
	kind := ErrIO

	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = ErrPermission
	}

	return &WriteError{Op: op, Path: path, Kind: kind, Err: err}
}
