package task

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/zeebo/blake3"

	"github.com/mxk/dpane/internal/fserr"
	"github.com/mxk/dpane/internal/walk"
)

const copyChunkSize = 32 * 1024

// CopyRemove implements the copy/remove step action: for Copy it creates
// entries at the destination; for Remove it deletes entries at the
// source; for Move it does both, after startSource has already attempted
// the same-device quick rename.
func CopyRemove(t *Task, maxBudget int64) (consumed int64, advance bool, err error) {
	rm := t.Kind == Move || t.Kind == Remove
	cp := t.Kind == Copy || t.Kind == Move
	w := t.Walker
	state := w.State()

	if state == walk.Link && t.Flags&FlagSkipLinks != 0 {
		return 1, true, nil
	}

	switch state {
	case walk.File, walk.Link:
		var dst string
		if cp {
			d, derr := t.buildDstPath(w.Path())
			if derr != nil {
				return 0, true, derr
			}
			dst = d
			// Only check for a conflict before the copy starts. Once t.in is
			// open, dst is the in-progress destination that copyFileChunk
			// itself created; re-running the check against a resumed,
			// budget-paused File event would treat our own partial output as
			// a pre-existing conflict.
			if t.in == nil {
				if _, statErr := os.Lstat(dst); statErr == nil {
					skip, cerr := t.resolveConflict(w.Path(), &dst)
					if cerr != nil {
						return 0, false, cerr
					}
					if skip {
						return 1, true, nil
					}
				}
			}
		}
		if state == walk.File {
			if cp {
				n, fin, cerr := t.copyFileChunk(w.Path(), dst, maxBudget)
				if cerr != nil {
					return n, true, cerr
				}
				if !fin {
					return n, false, nil
				}
				t.FilesDone++
			}
			if rm {
				if rerr := os.Remove(w.Path()); rerr != nil {
					return 0, true, wrapErr(w.Path(), rerr)
				}
				if !cp {
					t.FilesDone++
				}
			}
			return 1, true, nil
		}
		// Link
		if cp {
			if cerr := t.copyLink(w.Path(), dst); cerr != nil {
				return 0, true, cerr
			}
			t.FilesDone++
		}
		if rm {
			if rerr := os.Remove(w.Path()); rerr != nil {
				return 0, true, wrapErr(w.Path(), rerr)
			}
			if !cp {
				t.FilesDone++
			}
		}
		return 1, true, nil

	case walk.Special:
		return 1, true, nil

	case walk.Dir:
		if cp {
			dst, derr := t.buildDstPath(w.Path())
			if derr != nil {
				return 0, true, derr
			}
			if mkErr := t.mkdirLike(w.Path(), dst); mkErr != nil {
				return 0, true, mkErr
			}
		}
		return 1, true, nil

	case walk.DirEnd:
		if rm {
			if rerr := os.Remove(w.Path()); rerr != nil {
				return 0, true, wrapErr(w.Path(), rerr)
			}
		}
		t.DirsDone++
		return 1, true, nil
	}
	return 1, true, nil
}

// resolveConflict applies the conflict-policy flags to an existing
// destination at *dst: it may rewrite *dst (rename-conflicts),
// remove the existing entry (overwrite), report "skip" so the caller
// no-ops the event, or fail with AlreadyExists (ask-conflicts, or no
// policy flag set at all). The ask-conflicts and default paths also set
// t.ConflictSameContent so a caller presenting the prompt can tell the user
// the two files already match, without them having to diff it themselves.
func (t *Task) resolveConflict(src string, dst *string) (skip bool, err error) {
	switch {
	case t.Flags&FlagSkipConflicts != 0:
		return true, nil
	case t.Flags&(FlagOverwriteConflicts|FlagOverwriteOnce) != 0:
		t.Flags &^= FlagOverwriteOnce
		if rerr := os.Remove(*dst); rerr != nil && !os.IsNotExist(rerr) {
			return false, wrapErr(*dst, rerr)
		}
		return false, nil
	case t.Flags&FlagAskConflicts != 0:
		t.ConflictSameContent, _ = sameContent(src, *dst)
		return false, fserr.New(fserr.AlreadyExists, *dst, nil)
	case t.Flags&FlagRenameConflicts != 0:
		*dst = uniqueName(*dst)
		return false, nil
	default:
		t.ConflictSameContent, _ = sameContent(src, *dst)
		return false, fserr.New(fserr.AlreadyExists, *dst, nil)
	}
}

// sameContent reports whether the regular files at a and b hash identically
// under blake3, used to annotate ask-conflicts diagnostics. A
// non-nil error (missing file, directory, unreadable) means "unknown", not
// "different", and the caller should treat it as such.
func sameContent(a, b string) (bool, error) {
	ha, err := blake3File(a)
	if err != nil {
		return false, err
	}
	hb, err := blake3File(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

func blake3File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return string(h.Sum(nil)), nil
}

// copyFileChunk copies up to maxBudget bytes of src into dst, opening both
// descriptors on first call and keeping them open across calls until the
// copy finishes (fin == true), so a budget-exhausted copy resumes without
// re-reading what was already written.
func (t *Task) copyFileChunk(src, dst string, maxBudget int64) (consumed int64, fin bool, err error) {
	if t.in == nil {
		in, oerr := os.Open(src)
		if oerr != nil {
			return 0, true, wrapErr(src, oerr)
		}
		fi, serr := in.Stat()
		if serr != nil {
			in.Close()
			return 0, true, wrapErr(src, serr)
		}
		out, cerr := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
		if cerr != nil {
			in.Close()
			return 0, true, wrapErr(dst, cerr)
		}
		preallocate(out, fi.Size())
		t.in, t.out = in, out
	}

	limit := int64(copyChunkSize)
	if maxBudget > 0 && maxBudget < limit {
		limit = maxBudget
	}
	buf := make([]byte, limit)
	n, rerr := t.in.Read(buf)
	if n > 0 {
		if _, werr := t.out.Write(buf[:n]); werr != nil {
			t.closeCopy()
			return int64(n), true, wrapErr(dst, werr)
		}
		t.BytesDone += int64(n)
	}
	if rerr == io.EOF {
		t.closeCopy()
		return int64(n), true, nil
	}
	if rerr != nil {
		t.closeCopy()
		return int64(n), true, wrapErr(src, rerr)
	}
	return int64(n), false, nil
}

// copyLink copies a symlink: raw-links copies the literal
// target string; recalculate-links rewrites a relative target so it still
// resolves to the same entity from the new location.
func (t *Task) copyLink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return wrapErr(src, err)
	}
	if t.Flags&FlagRecalculateLinks != 0 && !filepath.IsAbs(target) {
		abs := filepath.Join(filepath.Dir(src), target)
		if rel, rerr := filepath.Rel(filepath.Dir(dst), abs); rerr == nil {
			target = rel
		}
	}
	if err := os.Symlink(target, dst); err != nil {
		return wrapErr(dst, err)
	}
	return nil
}

// mkdirLike creates dst with src's permission bits; an existing directory
// at dst is a merge, not a conflict.
func (t *Task) mkdirLike(src, dst string) error {
	fi, err := os.Lstat(src)
	if err != nil {
		return wrapErr(src, err)
	}
	if mkErr := os.Mkdir(dst, fi.Mode().Perm()); mkErr != nil && !os.IsExist(mkErr) {
		return wrapErr(dst, mkErr)
	}
	return nil
}

// uniqueName appends a numeric suffix to dst's base name until the result
// doesn't exist, implementing the FlagRenameConflicts policy.
func uniqueName(dst string) string {
	dir, base := filepath.Split(dst)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if _, err := os.Lstat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

// tryQuickMove attempts the same-device quick-move optimization for a
// Move task: a single rename(2) of the whole source entry, instead of a
// recursive walk. It returns done == true only if the rename actually
// happened. A different device, an existing destination without an
// overwrite flag, or EXDEV from rename returns done == false with no error,
// so the normal walk applies conflict policy and handles cross-device
// moves; any other failure is returned as an error.
func (t *Task) tryQuickMove(src string) (done bool, err error) {
	dst, derr := t.buildDstPath(src)
	if derr != nil {
		return false, derr
	}
	if !sameDevice(filepath.Dir(src), filepath.Dir(dst)) {
		return false, nil
	}
	if _, statErr := os.Lstat(dst); statErr == nil {
		if t.Flags&(FlagOverwriteConflicts|FlagOverwriteOnce) == 0 {
			return false, nil
		}
		t.Flags &^= FlagOverwriteOnce
		if rerr := os.RemoveAll(dst); rerr != nil {
			return false, wrapErr(dst, rerr)
		}
	}
	files, dirs, bytes, cerr := countSubtree(src)
	if cerr != nil {
		return false, cerr
	}
	if rerr := os.Rename(src, dst); rerr != nil {
		if isCrossDevice(rerr) {
			return false, nil
		}
		return false, wrapErr(src, rerr)
	}
	t.FilesDone += files
	t.DirsDone += dirs
	t.BytesDone += bytes
	return true, nil
}

// countSubtree tallies files, directories, and bytes under root, used to
// keep the done counters consistent after a quick-move rename that
// bypassed the walker entirely.
func countSubtree(root string) (files, dirs int, bytes int64, err error) {
	err = filepath.WalkDir(root, func(_ string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if d.IsDir() {
			dirs++
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil {
			return ierr
		}
		files++
		bytes += info.Size()
		return nil
	})
	return
}

func isCrossDevice(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.EXDEV
}
