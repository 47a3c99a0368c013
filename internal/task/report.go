package task

import (
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/mxk/dpane/internal/strlist"
)

// report is the on-disk shape of a paused task's resumable state. It
// persists source-entry granularity, not the walker's own DFS stack: a
// reloaded task restarts the entry it was on when paused from its root,
// rather than resuming mid-subtree (SPEC_FULL.md §8).
type report struct {
	Kind  Kind  `json:"kind"`
	Flags Flags `json:"flags"`

	SrcRoot string `json:"src_root"`
	DstRoot string `json:"dst_root"`

	SrcNames     []string `json:"src_names"`
	RenamedNames []string `json:"renamed_names"`
	CurIndex     int      `json:"cur_index"`

	BytesTotal int64 `json:"bytes_total"`
	BytesDone  int64 `json:"bytes_done"`
	FilesTotal int   `json:"files_total"`
	FilesDone  int   `json:"files_done"`
	DirsTotal  int   `json:"dirs_total"`
	DirsDone   int   `json:"dirs_done"`

	Conflicts int `json:"conflicts"`
	Symlinks  int `json:"symlinks"`
	Specials  int `json:"specials"`

	ChmodPlus  uint32 `json:"chmod_plus"`
	ChmodMinus uint32 `json:"chmod_minus"`
	ChmodUID   int    `json:"chmod_uid"`
	ChmodGID   int    `json:"chmod_gid"`
}

// SaveReport writes a zstd-compressed summary of t's resumable state to w,
// for a task currently in phase Paused or Failed. It's a point-in-time
// snapshot of counters and the source-entry cursor, not a live handle: it
// does not capture in-flight copy file descriptors or the walker's DFS
// stack, so a resumed task restarts the entry it was paused on.
func SaveReport(w io.Writer, t *Task) error {
	rep := report{
		Kind: t.Kind, Flags: t.Flags,
		SrcRoot: t.SrcRoot, DstRoot: t.DstRoot,
		SrcNames: t.SrcNames.Slice(), RenamedNames: t.RenamedNames.Slice(),
		CurIndex:   t.CurIndex,
		BytesTotal: t.BytesTotal, BytesDone: t.BytesDone,
		FilesTotal: t.FilesTotal, FilesDone: t.FilesDone,
		DirsTotal: t.DirsTotal, DirsDone: t.DirsDone,
		Conflicts: t.Conflicts, Symlinks: t.Symlinks, Specials: t.Specials,
		ChmodPlus: t.ChmodPlus, ChmodMinus: t.ChmodMinus,
		ChmodUID: t.ChmodUID, ChmodGID: t.ChmodGID,
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(zw).Encode(&rep); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// LoadReport reads a report written by SaveReport and reconstructs a Task
// at phase Clean with Walker == nil; the caller's next Do call restarts the
// entry at CurIndex via startSource.
func LoadReport(r io.Reader) (*Task, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var rep report
	if err := json.NewDecoder(zr).Decode(&rep); err != nil {
		return nil, err
	}
	t := New(rep.Kind, rep.Flags, rep.SrcRoot, rep.DstRoot,
		strlist.FromSlice(rep.SrcNames), strlist.FromSlice(rep.RenamedNames))
	t.Phase = Clean
	t.CurIndex = rep.CurIndex
	t.BytesTotal, t.BytesDone = rep.BytesTotal, rep.BytesDone
	t.FilesTotal, t.FilesDone = rep.FilesTotal, rep.FilesDone
	t.DirsTotal, t.DirsDone = rep.DirsTotal, rep.DirsDone
	t.Conflicts, t.Symlinks, t.Specials = rep.Conflicts, rep.Symlinks, rep.Specials
	t.ChmodPlus, t.ChmodMinus = rep.ChmodPlus, rep.ChmodMinus
	t.ChmodUID, t.ChmodGID = rep.ChmodUID, rep.ChmodGID
	return t, nil
}
