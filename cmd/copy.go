package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mxk/go-cli"

	"github.com/mxk/dpane/internal/fsctx"
	"github.com/mxk/dpane/internal/strlist"
	"github.com/mxk/dpane/internal/task"
)

var _ = cli.Main.Add(&cli.Cfg{
	Name:    "copy",
	Usage:   "<src> <dst-dir>",
	Summary: "Copy a file or directory tree headlessly",
	MinArgs: 2,
	MaxArgs: 2,
	New:     func() cli.Cmd { return &copyCmd{} },
})

type copyCmd struct {
	Overwrite bool `cli:"Overwrite conflicting destination entries"`
	Deref     bool `cli:"Follow symbolic links instead of copying them"`
}

func (cmd *copyCmd) Main(args []string) error {
	srcRoot, leaf := filepath.Split(filepath.Clean(args[0]))
	srcRoot = filepath.Clean(srcRoot)
	dstRoot := filepath.Clean(args[1])

	var flags task.Flags
	if cmd.Overwrite {
		flags |= task.FlagOverwriteConflicts
	} else {
		flags |= task.FlagAskConflicts
	}
	if cmd.Deref {
		flags |= task.FlagDerefLinks
	} else {
		flags |= task.FlagRawLinks
	}

	est := task.New(task.Copy, flags, srcRoot, dstRoot, strlist.FromSlice([]string{leaf}), strlist.FromSlice([]string{""}))
	if err := runTask(est, task.Estimate, nil); err != nil {
		return err
	}
	fmt.Printf("estimated %d files, %d dirs, %d bytes, %d conflicts\n",
		est.FilesTotal, est.DirsTotal, est.BytesTotal, est.Conflicts)

	run := task.New(task.Copy, flags, srcRoot, dstRoot, strlist.FromSlice([]string{leaf}), strlist.FromSlice([]string{""}))
	mon := fsctx.NewMonitor(2 * time.Second)
	err := runTask(run, task.CopyRemove, mon)
	if run.ConflictSameContent {
		fmt.Println("note: conflicting destination already has identical content")
	}
	return err
}

// runTask drives t to completion with action, logging progress through mon
// if non-nil (mon is optional so Estimate passes can run silently).
func runTask(t *task.Task, action task.Action, mon *fsctx.Monitor) error {
	for t.Phase != task.Finished {
		t.Do(4<<20, action, func(*task.Task) {})
		if mon != nil {
			mon.Report(fsctx.Snapshot(t))
		}
		if t.Phase == task.Failed {
			if mon != nil {
				mon.Err(t.LastErr)
			}
			return t.LastErr
		}
	}
	return nil
}
