//go:build linux

package task

import (
	"os"

	"golang.org/x/sys/unix"
)

// preallocate best-effort reserves size bytes for f so the copy doesn't
// fragment the destination file; unsupported filesystems are ignored.
func preallocate(f *os.File, size int64) {
	if size <= 0 {
		return
	}
	_ = unix.Fallocate(int(f.Fd()), 0, 0, size)
}
