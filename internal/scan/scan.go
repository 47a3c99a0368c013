// Package scan implements the directory scanner: it materializes a
// directory into a sorted array of file records with lstat metadata,
// pairing readdir with per-entry lstat as a single synchronous pass
// rather than a fanned-out worker pool, since the panel only needs one
// directory level at a time.
package scan

import (
	"os"
	"path/filepath"

	"github.com/mxk/dpane/internal/fserr"
	"github.com/mxk/dpane/internal/record"
)

// Result holds the outcome of a directory scan.
type Result struct {
	Files  []*record.Record
	Total  int
	Hidden int
}

// Scan opens wd, iterates its entries excluding "." and "..", lstats each,
// and returns a newly built, sorted slice of file records. A per-entry
// lstat failure is non-fatal: the record is emitted with zeroed metadata
// and scanning continues. Scan fails only if wd itself cannot
// be opened or read.
func Scan(wd string, order record.OrderVector, asc bool) (Result, error) {
	entries, err := os.ReadDir(wd)
	if err != nil {
		return Result{}, fserr.From(wd, err)
	}
	files := make([]*record.Record, 0, len(entries))
	hidden := 0
	for _, e := range entries {
		name := e.Name()
		if name == "." || name == ".." {
			continue
		}
		r := &record.Record{Name: name}
		fi, lerr := os.Lstat(filepath.Join(wd, name))
		if lerr != nil {
			r.StatErr = lerr
		} else {
			fillFromFileInfo(r, fi)
		}
		if r.Hidden() {
			hidden++
		}
		files = append(files, r)
	}
	record.Sort(files, order, asc)
	return Result{Files: files, Total: len(files), Hidden: hidden}, nil
}

// fillFromFileInfo populates the platform-independent fields of r from fi;
// platform-specific fields (uid, gid, inode, atime, ctime) are filled by
// fillPlatform in the build-tagged files below.
func fillFromFileInfo(r *record.Record, fi os.FileInfo) {
	r.Mode = modeToRaw(fi)
	r.Size = fi.Size()
	r.Mtime = fi.ModTime()
	fillPlatform(r, fi)
}
