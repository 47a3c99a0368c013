package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxk/dpane/internal/record"
)

func TestScanExcludesDotAndDotDot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("y"), 0o644))

	res, err := Scan(dir, record.DefaultOrder(), true)
	require.NoError(t, err)
	require.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Hidden)
	for _, r := range res.Files {
		assert.NotEqual(t, ".", r.Name)
		assert.NotEqual(t, "..", r.Name)
	}
}

func TestScanHiddenCountMatchesNames(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a", ".b", ".c", "d"}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	res, err := Scan(dir, record.DefaultOrder(), true)
	require.NoError(t, err)

	var counted int
	for _, r := range res.Files {
		if r.Hidden() {
			counted++
		}
	}
	assert.Equal(t, res.Hidden, counted)
	assert.Equal(t, 2, res.Hidden)
}

func TestScanIsSorted(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"z", "a", "m"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	res, err := Scan(dir, record.OrderVector{record.TagName}, true)
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	assert.Equal(t, "a", res.Files[0].Name)
	assert.Equal(t, "m", res.Files[1].Name)
	assert.Equal(t, "z", res.Files[2].Name)
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), record.DefaultOrder(), true)
	require.Error(t, err)
}
