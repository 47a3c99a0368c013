//go:build !linux

package task

import "os"

// preallocate is a no-op outside this module's target deployment (Linux
// terminals): fallocate(2) has no portable equivalent across POSIX systems.
func preallocate(f *os.File, size int64) {}
