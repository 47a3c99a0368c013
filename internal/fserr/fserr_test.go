package fserr

import (
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromClassifiesErrno(t *testing.T) {
	cases := []struct {
		errno syscall.Errno
		want  Kind
	}{
		{syscall.ENOENT, NotFound},
		{syscall.EACCES, AccessDenied},
		{syscall.EPERM, AccessDenied},
		{syscall.ENOTDIR, NotADirectory},
		{syscall.EEXIST, AlreadyExists},
		{syscall.ENAMETOOLONG, NameTooLong},
		{syscall.ENOMEM, OutOfMemory},
	}
	for _, c := range cases {
		err := From("/p", &os.PathError{Op: "open", Path: "/p", Err: c.errno})
		assert.True(t, IsKind(err, c.want), "errno %v -> want %v, got %v", c.errno, c.want, err)
	}
}

func TestFromUnclassifiedErrnoIsSyscallError(t *testing.T) {
	err := From("/p", &os.PathError{Op: "open", Path: "/p", Err: syscall.EBUSY})
	assert.True(t, IsKind(err, SyscallError))
}

func TestFromPassesThroughExistingError(t *testing.T) {
	orig := New(Conflict, "/x", nil)
	assert.Same(t, orig, From("/x", orig))
}

func TestFromNilIsNil(t *testing.T) {
	assert.NoError(t, From("/x", nil))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := New(SyscallError, "/x", cause)
	assert.ErrorIs(t, e, cause)
}

func TestIsKindMismatch(t *testing.T) {
	e := New(NotFound, "/x", nil)
	assert.False(t, IsKind(e, AccessDenied))
}

func TestErrorStringIncludesPathAndKind(t *testing.T) {
	e := New(NameTooLong, "/a/b/c", nil)
	s := e.Error()
	assert.Contains(t, s, "NameTooLong")
	assert.Contains(t, s, "/a/b/c")
}
