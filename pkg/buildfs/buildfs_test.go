package buildfs

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModTimeAndNewer(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "neo.go", []byte("package main"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "neo", []byte("bin"), 0o755))

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, fsys.Chtimes("neo", old, old))
	require.NoError(t, fsys.Chtimes("neo.go", old.Add(time.Minute), old.Add(time.Minute)))

	mt, err := ModTime(fsys, "neo")
	require.NoError(t, err)
	assert.True(t, mt.Equal(old))

	newer, err := Newer(fsys, "neo.go", "neo")
	require.NoError(t, err)
	assert.True(t, newer)

	newer, err = Newer(fsys, "neo", "neo.go")
	require.NoError(t, err)
	assert.False(t, newer)
}

func TestModTimeMissing(t *testing.T) {
	_, err := ModTime(afero.NewMemMapFs(), "nope")
	require.ErrorIs(t, err, ErrStat)
	assert.True(t, IsNotExist(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMkdirDefaultsMode(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, Mkdir(fsys, "build", 0))

	info, err := fsys.Stat("build")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, DefaultDirMode, info.Mode().Perm())

	require.Error(t, Mkdir(fsys, "build", 0o755))
	require.Error(t, Mkdir(fsys, "", 0))
}

func TestMkdirExistingDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, Mkdir(fsys, "build", 0))

	err := Mkdir(fsys, "build", 0)
	require.Error(t, err)
	assert.True(t, IsExist(err))
	assert.False(t, IsNotExist(err))
}
