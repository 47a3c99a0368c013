//go:build !linux

package scan

import (
	"os"

	"github.com/mxk/dpane/internal/record"
)

// modeToRaw falls back to the portable os.FileMode permission bits on
// non-Linux POSIX platforms, where syscall.Stat_t field layouts diverge
// enough (e.g. Atim vs Atimespec) that a single shared extraction isn't
// worth the platform-specific duplication for this module's target
// deployment (Linux terminals).
func modeToRaw(fi os.FileInfo) uint32 {
	return uint32(fi.Mode().Perm())
}

// fillPlatform is a no-op on non-Linux platforms; uid/gid/ino/atime/ctime
// stay zero-valued.
func fillPlatform(*record.Record, os.FileInfo) {}
