// Package fserr defines the closed set of semantic error kinds produced by
// the dual-pane file manager core. Every fallible operation in this module
// reports one of these kinds instead of a bare errno, so callers can decide
// policy (retry, skip, surface to the user) without parsing platform error
// strings.
package fserr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Kind is a closed set of semantic error categories.
type Kind int

const (
	_ Kind = iota
	// NameTooLong indicates a path composition would exceed PATH_MAX or
	// NAME_MAX.
	NameTooLong
	// NotFound indicates a path does not exist.
	NotFound
	// AccessDenied indicates a permission error.
	AccessDenied
	// NotADirectory indicates a path component was expected to be a
	// directory but was not.
	NotADirectory
	// AlreadyExists indicates a target path already exists.
	AlreadyExists
	// OutOfMemory indicates an allocation failure during scan, list
	// growth, or task buffer management.
	OutOfMemory
	// InvalidName indicates a rename target contains '/' or is empty
	// where not allowed.
	InvalidName
	// Conflict indicates the rename planner could not produce a legal
	// schedule.
	Conflict
	// Cancelled indicates a user-initiated abort.
	Cancelled
	// SyscallError is the catch-all wrapping an unclassified platform
	// error.
	SyscallError
)

func (k Kind) String() string {
	switch k {
	case NameTooLong:
		return "NameTooLong"
	case NotFound:
		return "NotFound"
	case AccessDenied:
		return "AccessDenied"
	case NotADirectory:
		return "NotADirectory"
	case AlreadyExists:
		return "AlreadyExists"
	case OutOfMemory:
		return "OutOfMemory"
	case InvalidName:
		return "InvalidName"
	case Conflict:
		return "Conflict"
	case Cancelled:
		return "Cancelled"
	case SyscallError:
		return "SyscallError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by this module. It carries the
// semantic Kind, the path the error refers to (if any), and the wrapped
// underlying error.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		if e.Err != nil {
			return fmt.Sprintf("fserr: %s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("fserr: %s", e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("fserr: %s: %s (%v)", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("fserr: %s: %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Is implements kind-based matching: errors.Is(err, fserr.NameTooLong) is
// not valid since Kind isn't an error, but errors.Is(err, &Error{Kind: X})
// works, and so does the convenience IsKind below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != 0 && t.Kind != e.Kind {
		return false
	}
	return true
}

// New builds an Error of the given kind for path, wrapping err.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// IsKind reports whether err (or any error it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// From classifies a raw syscall/os error into the semantic Kind the rest of
// the module expects, wrapping it for the given path. If err is already an
// *Error, it is returned unchanged.
func From(path string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return New(NotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return New(AccessDenied, path, err)
	case errors.Is(err, fs.ErrExist):
		return New(AlreadyExists, path, err)
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOENT:
			return New(NotFound, path, err)
		case syscall.EACCES, syscall.EPERM:
			return New(AccessDenied, path, err)
		case syscall.ENOTDIR:
			return New(NotADirectory, path, err)
		case syscall.EEXIST:
			return New(AlreadyExists, path, err)
		case syscall.ENAMETOOLONG:
			return New(NameTooLong, path, err)
		case syscall.ENOMEM:
			return New(OutOfMemory, path, err)
		}
	}
	var pe *os.PathError
	if errors.As(err, &pe) && path == "" {
		path = pe.Path
	}
	return New(SyscallError, path, err)
}
