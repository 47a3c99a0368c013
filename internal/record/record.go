// Package record implements the file record data model and the stable
// multi-key merge sort over it.
package record

import "time"

// Record is a single scanned directory entry: a name plus lstat metadata
// and a per-record selection flag. The "." and ".." entries are never
// materialized into a Record.
type Record struct {
	Name     string
	Mode     uint32 // low bits: permission + type, matches syscall mode
	Size     int64
	Uid      uint32
	Gid      uint32
	Mtime    time.Time
	Atime    time.Time
	Ctime    time.Time
	Ino      uint64
	Selected bool

	// StatErr records a non-fatal lstat failure for this entry; the rest
	// of the record is left as a zeroed metadata block in that case.
	StatErr error
}

// Hidden reports whether the record's name starts with '.'.
func (r *Record) Hidden() bool {
	return len(r.Name) > 0 && r.Name[0] == '.'
}

// IsDir reports whether the record is a directory, from its stat mode's
// type bits (S_IFDIR = 0040000).
func (r *Record) IsDir() bool {
	return r.Mode&0o170000 == 0o040000
}

// IsSymlink reports whether the record is a symbolic link (S_IFLNK =
// 0120000).
func (r *Record) IsSymlink() bool {
	return r.Mode&0o170000 == 0o120000
}

// IsRegular reports whether the record is a regular file (S_IFREG =
// 0100000).
func (r *Record) IsRegular() bool {
	return r.Mode&0o170000 == 0o100000
}

// Perm returns the low 12 bits of the mode (permission bits plus setuid/
// setgid/sticky).
func (r *Record) Perm() uint32 {
	return r.Mode & 0o7777
}

// IsExecutable reports whether the record is a regular file with any
// execute bit set.
func (r *Record) IsExecutable() bool {
	return r.IsRegular() && r.Mode&0o111 != 0
}
