package rename

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxk/dpane/internal/strlist"
)

func mkNames(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644))
	}
}

func TestPlanTrivialRename(t *testing.T) {
	dir := t.TempDir()
	mkNames(t, dir, "a")
	s := strlist.FromSlice([]string{"a"})
	r := strlist.FromSlice([]string{"b"})

	plan, err := Build(dir, s, r)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"a", "b"}}, plan.Trivial)
	assert.Empty(t, plan.Cycles)

	require.NoError(t, Apply(dir, plan))
	_, err = os.Stat(filepath.Join(dir, "b"))
	assert.NoError(t, err)
}

func TestPlanRejectsSlashInTarget(t *testing.T) {
	dir := t.TempDir()
	mkNames(t, dir, "a")
	s := strlist.FromSlice([]string{"a"})
	r := strlist.FromSlice([]string{"x/y"})

	_, err := Build(dir, s, r)
	assert.Error(t, err)
}

func TestPlanNoOpEliminated(t *testing.T) {
	dir := t.TempDir()
	mkNames(t, dir, "a")
	s := strlist.FromSlice([]string{"a"})
	r := strlist.FromSlice([]string{"a"})

	plan, err := Build(dir, s, r)
	require.NoError(t, err)
	assert.Empty(t, plan.Trivial)
	assert.Empty(t, plan.Cycles)
	assert.True(t, s.IsBlank(0))
	assert.True(t, r.IsBlank(0))
}

func TestPlanUnresolvableCollisionFails(t *testing.T) {
	dir := t.TempDir()
	mkNames(t, dir, "a", "b")
	s := strlist.FromSlice([]string{"a"})
	r := strlist.FromSlice([]string{"b"}) // b exists and isn't being renamed away

	_, err := Build(dir, s, r)
	assert.Error(t, err)
}

func TestPlanDuplicateTargetFails(t *testing.T) {
	dir := t.TempDir()
	mkNames(t, dir, "a", "b")
	s := strlist.FromSlice([]string{"a", "b"})
	r := strlist.FromSlice([]string{"c", "c"})

	_, err := Build(dir, s, r)
	assert.Error(t, err)
}

func TestPlanCycleSwap(t *testing.T) {
	dir := t.TempDir()
	mkNames(t, dir, "a", "b")
	s := strlist.FromSlice([]string{"a", "b"})
	r := strlist.FromSlice([]string{"b", "a"})

	plan, err := Build(dir, s, r)
	require.NoError(t, err)
	assert.Empty(t, plan.Trivial)
	require.Len(t, plan.Cycles, 1)
	assert.Len(t, plan.Cycles[0], 2)

	require.NoError(t, Apply(dir, plan))

	aContent, err := os.ReadFile(filepath.Join(dir, "a"))
	require.NoError(t, err)
	bContent, err := os.ReadFile(filepath.Join(dir, "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(aContent))
	assert.Equal(t, "a", string(bContent))
}

func TestPlanThreeWayCycle(t *testing.T) {
	dir := t.TempDir()
	mkNames(t, dir, "a", "b", "c")
	s := strlist.FromSlice([]string{"a", "b", "c"})
	r := strlist.FromSlice([]string{"b", "c", "a"})

	plan, err := Build(dir, s, r)
	require.NoError(t, err)
	require.Len(t, plan.Cycles, 1)

	require.NoError(t, Apply(dir, plan))
	aContent, _ := os.ReadFile(filepath.Join(dir, "a"))
	bContent, _ := os.ReadFile(filepath.Join(dir, "b"))
	cContent, _ := os.ReadFile(filepath.Join(dir, "c"))
	assert.Equal(t, "c", string(aContent))
	assert.Equal(t, "a", string(bContent))
	assert.Equal(t, "b", string(cContent))
}

func TestPlanFailureLeavesInputsUnchanged(t *testing.T) {
	dir := t.TempDir()
	mkNames(t, dir, "a", "b")
	s := strlist.FromSlice([]string{"a"})
	r := strlist.FromSlice([]string{"b"})

	_, err := Build(dir, s, r)
	require.Error(t, err)
	assert.Equal(t, "a", s.At(0))
	assert.Equal(t, "b", r.At(0))
}
