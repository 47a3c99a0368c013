// Package fsctx provides the ambient logging and progress-reporting glue
// between internal/task's headless engine and the cmd/ CLI, the way the
// teacher's cmd/index/create.go wires index.Progress into log.Println.
package fsctx

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/mxk/dpane/internal/task"
)

// Progress is a point-in-time snapshot of a task's counters, suitable for
// periodic logging during a long copy/move/remove/chmod run.
type Progress struct {
	Phase                 task.Phase
	BytesDone, BytesTotal int64
	FilesDone, FilesTotal int
	DirsDone, DirsTotal   int
	Conflicts             int
}

// Snapshot captures t's current counters.
func Snapshot(t *task.Task) *Progress {
	return &Progress{
		Phase:      t.Phase,
		BytesDone:  t.BytesDone,
		BytesTotal: t.BytesTotal,
		FilesDone:  t.FilesDone,
		FilesTotal: t.FilesTotal,
		DirsDone:   t.DirsDone,
		DirsTotal:  t.DirsTotal,
		Conflicts:  t.Conflicts,
	}
}

// IsFinal reports whether the task had reached a terminal phase when this
// snapshot was taken.
func (p *Progress) IsFinal() bool {
	return p.Phase == task.Finished || p.Phase == task.Failed
}

// String renders a human-readable one-line progress report.
func (p *Progress) String() string {
	s := fmt.Sprintf("%s files, %s/%s bytes",
		humanize.Comma(int64(p.FilesDone)),
		humanize.Bytes(uint64(p.BytesDone)),
		humanize.Bytes(uint64(p.BytesTotal)))
	if p.DirsTotal > 0 {
		s += fmt.Sprintf(", %s/%s dirs", humanize.Comma(int64(p.DirsDone)), humanize.Comma(int64(p.DirsTotal)))
	}
	if p.Conflicts > 0 {
		s += fmt.Sprintf(", %s conflicts", humanize.Comma(int64(p.Conflicts)))
	}
	return s
}
