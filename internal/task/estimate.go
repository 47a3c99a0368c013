package task

import (
	"os"

	"github.com/mxk/dpane/internal/fserr"
	"github.com/mxk/dpane/internal/walk"
)

// Estimate implements the Estimate phase action: it tallies totals without
// touching the filesystem, aside from a destination Lstat used to count
// conflicts ahead of time.
func Estimate(t *Task, maxBudget int64) (consumed int64, advance bool, err error) {
	w := t.Walker
	switch w.State() {
	case walk.Link:
		if t.Flags&(FlagRawLinks|FlagDerefLinks|FlagSkipLinks|FlagRecalculateLinks) == 0 {
			return 0, false, fserr.New(fserr.Conflict, w.Path(), nil)
		}
		t.Symlinks++
		t.FilesTotal++
	case walk.File:
		t.FilesTotal++
	case walk.Dir:
		t.DirsTotal++
	case walk.Special:
		t.Specials++
	case walk.DirEnd:
		return 1, true, nil
	}

	if (t.Kind == Copy || t.Kind == Move) &&
		(w.State() == walk.File || w.State() == walk.Link || w.State() == walk.Dir) {
		if dst, derr := t.buildDstPath(w.Path()); derr == nil {
			if _, statErr := os.Lstat(dst); statErr == nil {
				t.Conflicts++
			}
		}
	}

	// Accumulate size_total for every entry, not just regular files: a
	// directory or symlink's own lstat size still counts toward the total.
	if info := w.Info(); info != nil {
		t.BytesTotal += info.Size()
	}
	return 1, true, nil
}
