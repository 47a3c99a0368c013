package task

import (
	"os"

	"github.com/mxk/dpane/internal/walk"
)

// Chmod implements the chmod step action: it applies
// (mode | plus) &^ minus and an optional chown to the entry under the
// cursor. Without the recursive-chmod flag, it jumps the walker to Exit
// right after the first entry so only the top-level name is affected.
func Chmod(t *Task, maxBudget int64) (consumed int64, advance bool, err error) {
	w := t.Walker
	state := w.State()
	if state == walk.DirEnd {
		return 1, true, nil
	}
	if state != walk.Link {
		if cerr := t.applyChmod(w.Path(), w.Info()); cerr != nil {
			return 0, true, cerr
		}
	}
	if t.Flags&FlagRecursiveChmod == 0 {
		w.JumpToExit()
		return 1, false, nil
	}
	return 1, true, nil
}

// applyChmod changes permission bits and/or ownership of path per t's
// chmod parameters. ChmodUID/ChmodGID use -1 as "keep unchanged", matching
// os.Chown's own sentinel.
func (t *Task) applyChmod(path string, info os.FileInfo) error {
	if info == nil {
		return nil
	}
	if t.ChmodPlus != 0 || t.ChmodMinus != 0 {
		mode := uint32(info.Mode().Perm())
		mode = (mode | t.ChmodPlus) &^ t.ChmodMinus
		if cerr := os.Chmod(path, os.FileMode(mode&0o7777)); cerr != nil {
			return wrapErr(path, cerr)
		}
	}
	if t.ChmodUID != noOwner || t.ChmodGID != noOwner {
		if cerr := os.Chown(path, t.ChmodUID, t.ChmodGID); cerr != nil {
			return wrapErr(path, cerr)
		}
	}
	return nil
}
