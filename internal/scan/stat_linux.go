//go:build linux

package scan

import (
	"os"
	"syscall"
	"time"

	"github.com/mxk/dpane/internal/record"
)

// modeToRaw returns the raw syscall-style mode (type bits + permission
// bits) for fi, pulled from the underlying Stat_t when available so that
// symlink type bits survive (fi.Mode() from os.Lstat already reports the
// link's own type, but we want the exact low 12 permission bits the
// "perm" comparator sorts on).
func modeToRaw(fi os.FileInfo) uint32 {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		return uint32(st.Mode)
	}
	return uint32(fi.Mode().Perm())
}

// fillPlatform fills the POSIX-specific metadata fields (uid, gid, inode,
// atime, ctime) from the Stat_t embedded in fi.
func fillPlatform(r *record.Record, fi os.FileInfo) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	r.Uid = st.Uid
	r.Gid = st.Gid
	r.Ino = st.Ino
	r.Atime = time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
	r.Ctime = time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
}
