// Package task implements the incremental filesystem operation engine: a
// pausable, resumable copy/move/remove/chmod task driven by an embedded
// tree walker, scheduled in byte/step budgets so long operations
// interleave with UI redraws.
package task

import (
	"os"

	"github.com/mxk/dpane/internal/fserr"
	"github.com/mxk/dpane/internal/strlist"
	"github.com/mxk/dpane/internal/walk"
)

// Kind is the task's closed set of operation kinds.
type Kind int

const (
	Remove Kind = iota
	Copy
	Move
	Chmod
)

// Phase is the task's closed set of lifecycle states.
type Phase int

const (
	Clean Phase = iota
	Estimate
	Confirm
	Running
	Paused
	Failed
	Finished
)

// Flags is the composable task-flag bitset controlling link handling and
// conflict resolution.
type Flags uint32

const (
	FlagRawLinks Flags = 1 << iota
	FlagRecalculateLinks
	FlagDerefLinks
	FlagSkipLinks
	FlagOverwriteConflicts
	FlagOverwriteOnce
	FlagAskConflicts
	FlagSkipConflicts
	FlagRecursiveChmod
	// FlagRenameConflicts supplements the original flag set (SPEC_FULL.md
	// §9): on conflict, append a numeric suffix to the destination name
	// instead of asking, skipping, or overwriting.
	FlagRenameConflicts
)

const noOwner = -1

// Task drives one long-running filesystem operation over a set of
// top-level source entries.
type Task struct {
	Kind  Kind
	Flags Flags
	Phase Phase

	SrcRoot string
	DstRoot string

	SrcNames     *strlist.List
	RenamedNames *strlist.List
	CurIndex     int

	BytesTotal, BytesDone int64
	FilesTotal, FilesDone int
	DirsTotal, DirsDone   int

	Conflicts int
	Symlinks  int
	Specials  int

	// ConflictSameContent is set when the most recent ask-conflicts (or
	// unpolicied) failure found the source and destination already hash
	// identically, so the UI can say so instead of making the user diff.
	ConflictSameContent bool

	LastErr error

	Walker *walk.Walker

	// ChmodPlus/ChmodMinus are applied as (mode | plus) &^ minus.
	ChmodPlus, ChmodMinus uint32
	// ChmodUID/ChmodGID are new owner/group, or noOwner to keep unchanged.
	ChmodUID, ChmodGID int

	in, out *os.File
}

// New constructs a task in phase Estimate, taking ownership of srcNames and
// renamedNames.
func New(kind Kind, flags Flags, srcRoot, dstRoot string, srcNames, renamedNames *strlist.List) *Task {
	return &Task{
		Kind:         kind,
		Flags:        flags,
		Phase:        Estimate,
		SrcRoot:      srcRoot,
		DstRoot:      dstRoot,
		SrcNames:     srcNames,
		RenamedNames: renamedNames,
		ChmodUID:     noOwner,
		ChmodGID:     noOwner,
	}
}

// Action is one phase's per-event handler. It returns how much budget it
// consumed, whether the current walker event is fully processed (so Do may
// step the walker forward), and any error, which transitions the task to
// Failed.
type Action func(t *Task, maxBudget int64) (consumed int64, advance bool, err error)

// Do advances the task by at most budget units, invoking action once per
// walker event until the budget is exhausted, the source list is
// exhausted, or an error occurs. On normal exhaustion of all sources,
// onEnd is called and the task transitions to Finished.
func (t *Task) Do(budget int64, action Action, onEnd func(*Task)) {
	if t.Phase == Paused || t.Phase == Failed || t.Phase == Finished {
		return
	}
	t.Phase = Running
	if t.Walker == nil {
		if err := t.startSource(); err != nil {
			t.fail(err)
			return
		}
	}
	for budget > 0 {
		if t.Walker.State() == walk.Nowhere {
			if err := t.Walker.Step(); err != nil {
				t.fail(err)
				return
			}
		}
		if t.Walker.State() == walk.Exit {
			t.CurIndex++
			if t.CurIndex >= t.SrcNames.Len() {
				t.Walker = nil
				t.Phase = Finished
				if onEnd != nil {
					onEnd(t)
				}
				return
			}
			if err := t.startSource(); err != nil {
				t.fail(err)
				return
			}
			continue
		}

		consumed, advance, err := action(t, budget)
		if err != nil {
			t.fail(err)
			return
		}
		if consumed < 1 {
			consumed = 1
		}
		budget -= consumed
		if advance {
			if err := t.Walker.Step(); err != nil {
				t.fail(err)
				return
			}
		}
	}
}

// startSource begins walking the current source-name index, performing the
// same-filesystem quick-move optimization for Move tasks first.
func (t *Task) startSource() error {
	src := t.currentSrcPath()
	if t.Kind == Move {
		done, err := t.tryQuickMove(src)
		if err != nil {
			return err
		}
		if done {
			t.Walker = walk.New(src, false)
			t.Walker.JumpToExit()
			return nil
		}
	}
	t.Walker = walk.New(src, t.Flags&FlagDerefLinks != 0)
	return nil
}

// currentSrcName/currentRenamedName/currentSrcPath resolve
// the per-source bookkeeping used by build_path and the quick-move check.
func (t *Task) currentSrcName() string {
	return t.SrcNames.At(t.CurIndex)
}

func (t *Task) currentRenamedName() string {
	name := t.currentSrcName()
	if t.CurIndex < t.RenamedNames.Len() {
		if r := t.RenamedNames.At(t.CurIndex); r != "" {
			return r
		}
	}
	return name
}

func (t *Task) currentSrcPath() string {
	return t.SrcRoot + "/" + t.currentSrcName()
}

// buildDstPath translates p (a path under the current source entry) to its
// destination-side counterpart via BuildPath, honoring a per-entry rename.
func (t *Task) buildDstPath(p string) (string, error) {
	return BuildPath(p, t.SrcRoot, t.DstRoot, t.currentSrcName(), t.currentRenamedName())
}

// fail records err, preserving the walker cursor for retry.
func (t *Task) fail(err error) {
	t.LastErr = err
	t.Phase = Failed
}

// Retry resumes a Failed task at the same walker state.
func (t *Task) Retry() {
	if t.Phase == Failed {
		t.Phase = Running
		t.LastErr = nil
	}
}

// Skip abandons the current source entry and advances to the next one,
// used by the UI to recover from a Failed task without retrying.
func (t *Task) Skip() {
	t.closeCopy()
	if t.Walker != nil {
		t.Walker.JumpToExit()
	}
	t.LastErr = nil
	t.Phase = Running
}

// Pause suspends the task; Do returns immediately without stepping until
// the phase is changed back.
func (t *Task) Pause() {
	if t.Phase != Failed && t.Phase != Finished {
		t.Phase = Paused
	}
}

// Resume un-pauses a previously paused task.
func (t *Task) Resume() {
	if t.Phase == Paused {
		t.Phase = Running
	}
}

// closeCopy releases any in-flight copy descriptors. It is called when a
// copy reaches EOF or fails, and by Skip to abandon an unfinished copy.
// Errors are not actionable here.
func (t *Task) closeCopy() {
	if t.in != nil {
		_ = t.in.Close()
		t.in = nil
	}
	if t.out != nil {
		_ = t.out.Close()
		t.out = nil
	}
}

// wrapErr converts a raw syscall error into the task's reported error,
// keeping the original path when known.
func wrapErr(path string, err error) error {
	if err == nil {
		return nil
	}
	return fserr.From(path, err)
}
