package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxk/dpane/internal/strlist"
)

func names(ss ...string) *strlist.List { return strlist.FromSlice(ss) }

func runToFinish(t *testing.T, tk *Task, action Action) {
	t.Helper()
	finished := false
	for i := 0; i < 10000 && !finished; i++ {
		tk.Do(1<<20, action, func(*Task) { finished = true })
		require.NotEqual(t, Failed, tk.Phase, "task failed: %v", tk.LastErr)
		if tk.Phase == Finished {
			finished = true
		}
	}
	require.True(t, finished, "task did not finish")
}

func TestCopySingleFile(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("hello"), 0o644))

	tk := New(Copy, FlagDerefLinks, srcDir, dstDir, names("a.txt"), names(""))
	runToFinish(t, tk, CopyRemove)

	got, err := os.ReadFile(filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, 1, tk.FilesDone)
}

func TestCopyDirectoryTree(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "sub", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "sub", "f.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "sub", "nested", "g.txt"), []byte("yy"), 0o644))

	tk := New(Copy, FlagDerefLinks, srcDir, dstDir, names("sub"), names(""))
	runToFinish(t, tk, CopyRemove)

	got, err := os.ReadFile(filepath.Join(dstDir, "sub", "nested", "g.txt"))
	require.NoError(t, err)
	assert.Equal(t, "yy", string(got))
	assert.Equal(t, 2, tk.FilesDone)
	assert.Equal(t, 2, tk.DirsDone) // sub, sub/nested
}

func TestCopyResumesPartialFile(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	content := make([]byte, copyChunkSize*3+17)
	for i := range content {
		content[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "big.bin"), content, 0o644))

	tk := New(Copy, FlagDerefLinks, srcDir, dstDir, names("big.bin"), names(""))
	finished := false
	for i := 0; i < 10000 && !finished; i++ {
		// Small per-call budget forces the copy to resume across Do calls.
		tk.Do(copyChunkSize, CopyRemove, func(*Task) { finished = true })
		require.NotEqual(t, Failed, tk.Phase, "task failed: %v", tk.LastErr)
	}
	require.True(t, finished)
	got, err := os.ReadFile(filepath.Join(dstDir, "big.bin"))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestRemoveTree(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "sub", "f.txt"), nil, 0o644))

	tk := New(Remove, 0, srcDir, "", names("sub"), names(""))
	runToFinish(t, tk, CopyRemove)

	_, err := os.Stat(filepath.Join(srcDir, "sub"))
	assert.True(t, os.IsNotExist(err))
}

func TestMoveSameDeviceUsesQuickRename(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "src")
	dstDir := filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.MkdirAll(dstDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("z"), 0o644))

	tk := New(Move, FlagDerefLinks, srcDir, dstDir, names("a.txt"), names(""))
	runToFinish(t, tk, CopyRemove)

	_, err := os.Stat(filepath.Join(srcDir, "a.txt"))
	assert.True(t, os.IsNotExist(err))
	got, err := os.ReadFile(filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "z", string(got))
	assert.Equal(t, 1, tk.FilesDone)
}

func TestCopyConflictOverwrite(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dstDir, "a.txt"), []byte("old"), 0o644))

	tk := New(Copy, FlagDerefLinks|FlagOverwriteConflicts, srcDir, dstDir, names("a.txt"), names(""))
	runToFinish(t, tk, CopyRemove)

	got, err := os.ReadFile(filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestCopyConflictSkip(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dstDir, "a.txt"), []byte("old"), 0o644))

	tk := New(Copy, FlagDerefLinks|FlagSkipConflicts, srcDir, dstDir, names("a.txt"), names(""))
	runToFinish(t, tk, CopyRemove)

	got, err := os.ReadFile(filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}

func TestCopyConflictAskFailsAndFinishesAfterSkip(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dstDir, "a.txt"), []byte("old"), 0o644))

	tk := New(Copy, FlagDerefLinks|FlagAskConflicts, srcDir, dstDir, names("a.txt"), names(""))
	tk.Do(1<<20, CopyRemove, func(*Task) {})
	require.Equal(t, Failed, tk.Phase)
	require.True(t, tk.Walker != nil)

	tk.Skip()
	runToFinish(t, tk, CopyRemove)
	assert.Equal(t, Finished, tk.Phase)
}

func TestCopyConflictRename(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dstDir, "a.txt"), []byte("old"), 0o644))

	tk := New(Copy, FlagDerefLinks|FlagRenameConflicts, srcDir, dstDir, names("a.txt"), names(""))
	runToFinish(t, tk, CopyRemove)

	old, err := os.ReadFile(filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
	renamed, err := os.ReadFile(filepath.Join(dstDir, "a-1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(renamed))
}

func TestChmodNonRecursiveTouchesOnlyTopEntry(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "d"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "d", "f.txt"), nil, 0o644))

	tk := New(Chmod, 0, srcDir, "", names("d"), names(""))
	tk.ChmodPlus = 0o7
	runToFinish(t, tk, Chmod)

	fi, err := os.Stat(filepath.Join(srcDir, "d"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755|0o7), fi.Mode().Perm())

	inner, err := os.Stat(filepath.Join(srcDir, "d", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), inner.Mode().Perm())
}

func TestChmodRecursiveAppliesToWholeTree(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "d"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "d", "f.txt"), nil, 0o644))

	tk := New(Chmod, FlagRecursiveChmod, srcDir, "", names("d"), names(""))
	tk.ChmodPlus = 0o1
	runToFinish(t, tk, Chmod)

	inner, err := os.Stat(filepath.Join(srcDir, "d", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644|0o1), inner.Mode().Perm())
}

func TestEstimatePhaseTallies(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "d"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "d", "f.txt"), []byte("12345"), 0o644))

	dirInfo, err := os.Lstat(filepath.Join(srcDir, "d"))
	require.NoError(t, err)

	tk := New(Copy, FlagDerefLinks, srcDir, t.TempDir(), names("d"), names(""))
	runToFinish(t, tk, Estimate)
	assert.Equal(t, 1, tk.FilesTotal)
	assert.Equal(t, 1, tk.DirsTotal)
	// The directory's own lstat size counts toward the total, plus the
	// file's 5 bytes.
	assert.Equal(t, dirInfo.Size()+5, tk.BytesTotal)
}

func TestPauseReturnsImmediately(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("x"), 0o644))
	tk := New(Copy, FlagDerefLinks, srcDir, t.TempDir(), names("a.txt"), names(""))
	tk.Pause()
	tk.Do(1<<20, CopyRemove, func(*Task) {})
	assert.Equal(t, Paused, tk.Phase)
}
