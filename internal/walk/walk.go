// Package walk implements the iterative, resumable tree walker: an
// explicit-stack DFS over a subtree with enter/leave events, replacing
// call-stack recursion with a heap-allocated chain of directory handles so
// a single Step can suspend and resume.
package walk

import (
	"os"
	"sort"

	"github.com/mxk/dpane/internal/fserr"
	"github.com/mxk/dpane/internal/pathbuf"
)

// State is the tree-walk cursor's tagged state.
type State int

const (
	Nowhere State = iota
	File
	Link
	Dir
	DirEnd
	Special
	Exit
)

func (s State) String() string {
	switch s {
	case Nowhere:
		return "Nowhere"
	case File:
		return "File"
	case Link:
		return "Link"
	case Dir:
		return "Dir"
	case DirEnd:
		return "DirEnd"
	case Special:
		return "Special"
	case Exit:
		return "Exit"
	default:
		return "Invalid"
	}
}

// frame is one level of the explicit directory-handle stack.
type frame struct {
	entries []os.DirEntry
	idx     int
}

// Walker is a cursor over a subtree rooted at a given path, advanced one
// step at a time. The zero value is not usable; construct with New.
type Walker struct {
	path  *pathbuf.Path
	stack []*frame
	state State
	deref bool
	info  os.FileInfo
}

// New returns a Walker rooted at root. If deref is true, symlinks are
// dereferenced: the walker reports the target's type instead of Link,
// except for dangling links.
func New(root string, deref bool) *Walker {
	return &Walker{path: pathbuf.FromString(root), state: Nowhere, deref: deref}
}

// State returns the walker's current tagged state.
func (w *Walker) State() State { return w.state }

// Path returns the current path cursor as a string.
func (w *Walker) Path() string { return w.path.String() }

// Info returns the lstat (or, when dereferenced, stat) result for the
// entry currently under the cursor.
func (w *Walker) Info() os.FileInfo { return w.info }

// SetDeref changes the link-transparency flag for subsequent Step calls.
func (w *Walker) SetDeref(deref bool) { w.deref = deref }

// SkipDir behaves like DirEnd has already been reached for the directory
// currently under the cursor: it is used by a caller that decides not to
// descend into a Dir event. It only applies when State() == Dir.
func (w *Walker) SkipDir() {
	if w.state != Dir {
		return
	}
	w.state = File // treated as a leaf for the purposes of the next Step
}

// JumpToExit forces the walker into the terminal Exit state, used by the
// task engine's same-device quick-move optimization.
func (w *Walker) JumpToExit() {
	w.stack = nil
	w.state = Exit
}

// Step advances the cursor by one event. It fails with the underlying
// error on opendir/readdir/lstat failures; on failure the cursor's state
// is preserved so the caller can decide to skip or abort.
func (w *Walker) Step() error {
	switch w.state {
	case Nowhere:
		fi, err := os.Lstat(w.path.String())
		if err != nil {
			return fserr.From(w.path.String(), err)
		}
		w.info = fi
		w.state = w.classify(fi)
		return nil
	case File, Link, Special:
		w.path.Pop()
		return w.afterLeaf()
	case Dir:
		return w.enterDir()
	case DirEnd:
		return w.leaveDir()
	case Exit:
		return nil
	default:
		return nil
	}
}

// afterLeaf advances the enclosing directory handle after a leaf event, or
// emits DirEnd if it is exhausted.
func (w *Walker) afterLeaf() error {
	if len(w.stack) == 0 {
		w.state = Exit
		return nil
	}
	return w.advanceFrame(w.stack[len(w.stack)-1])
}

// enterDir opens the directory currently under the cursor, pushes a new
// frame, and reads its first non-dotdot entry.
func (w *Walker) enterDir() error {
	entries, err := os.ReadDir(w.path.String())
	if err != nil {
		return fserr.From(w.path.String(), err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	f := &frame{entries: entries}
	w.stack = append(w.stack, f)
	return w.advanceFrame(f)
}

// leaveDir closes the exhausted directory's frame, pops it and the path,
// then advances the parent frame (or transitions to Exit at the root).
func (w *Walker) leaveDir() error {
	w.stack = w.stack[:len(w.stack)-1]
	w.path.Pop()
	if len(w.stack) == 0 {
		w.state = Exit
		return nil
	}
	return w.advanceFrame(w.stack[len(w.stack)-1])
}

// advanceFrame reads the next entry from f, pushing its name onto the
// path and lstat-ing it; if f is exhausted, the walker transitions to
// DirEnd.
func (w *Walker) advanceFrame(f *frame) error {
	if f.idx >= len(f.entries) {
		w.state = DirEnd
		return nil
	}
	name := f.entries[f.idx].Name()
	f.idx++
	if err := w.path.Push(name); err != nil {
		return err
	}
	fi, err := os.Lstat(w.path.String())
	if err != nil {
		return fserr.From(w.path.String(), err)
	}
	w.info = fi
	w.state = w.classify(fi)
	return nil
}

// classify determines the event state for fi, applying link-transparency
// when enabled: a dereferenced symlink is reclassified as
// File or Dir per its target, except a dangling target (ENOENT/ELOOP),
// which is still reported as Link.
func (w *Walker) classify(fi os.FileInfo) State {
	mode := fi.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		if !w.deref {
			return Link
		}
		target, err := os.Stat(w.path.String())
		if err != nil {
			// Dangling or cyclic target (ENOENT/ELOOP): still reported
			// as Link rather than failing the step.
			return Link
		}
		w.info = target
		if target.IsDir() {
			return Dir
		}
		return File
	case mode.IsDir():
		return Dir
	case mode.IsRegular():
		return File
	default:
		return Special
	}
}
