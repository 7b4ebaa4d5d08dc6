package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	assert.NoError(t, f.Close())

	entries, err := lfs.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	newPath := filepath.Join(dir, "renamed.txt")
	assert.NoError(t, lfs.Rename(fpath, newPath))

	info, err = lfs.Stat(newPath)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	assert.NoError(t, lfs.Remove(newPath))
	_, err = lfs.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS(t *testing.T) {
	tmp := t.TempDir()

	t.Run("FailAfterBytes", func(t *testing.T) {
		ffs := NewFaultyFS(LocalFS{})
		ffs.AddRule("limited", Fault{FailAfterBytes: 5})

		f, err := ffs.OpenFile(filepath.Join(tmp, "limited.txt"), os.O_CREATE|os.O_RDWR, 0o644)
		require.NoError(t, err)
		defer f.Close()

		n, err := f.Write([]byte("hello"))
		assert.NoError(t, err)
		assert.Equal(t, 5, n)

		n, err = f.Write([]byte("!"))
		assert.ErrorIs(t, err, ErrInjected)
		assert.Zero(t, n)
	})

	t.Run("SyncAndClose", func(t *testing.T) {
		boom := errors.New("boom")
		ffs := NewFaultyFS(nil)
		ffs.AddRule(".tmp", Fault{FailAfterBytes: -1, FailOnSync: true, FailOnClose: true, Err: boom})

		f, err := ffs.OpenFile(filepath.Join(tmp, "x.tmp"), os.O_CREATE|os.O_RDWR, 0o644)
		require.NoError(t, err)

		_, err = f.Write([]byte("data"))
		assert.NoError(t, err)
		assert.ErrorIs(t, f.Sync(), boom)
		assert.ErrorIs(t, f.Close(), boom)
	})

	t.Run("OpenAndRename", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("locked", Fault{FailOnOpen: true, FailOnRename: true})

		_, err := ffs.OpenFile(filepath.Join(tmp, "locked"), os.O_CREATE|os.O_RDWR, 0o644)
		assert.ErrorIs(t, err, ErrInjected)

		src := filepath.Join(tmp, "src")
		require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
		assert.ErrorIs(t, ffs.Rename(src, filepath.Join(tmp, "locked")), ErrInjected)

		ffs.ClearRules()
		assert.NoError(t, ffs.Rename(src, filepath.Join(tmp, "locked")))
	})

	t.Run("Delegation", func(t *testing.T) {
		ffs := NewFaultyFS(LocalFS{})
		dir := filepath.Join(tmp, "sub")
		assert.NoError(t, ffs.MkdirAll(dir, 0o755))

		fpath := filepath.Join(dir, "plain.txt")
		f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		require.NoError(t, f.Close())

		_, err = ffs.Stat(fpath)
		assert.NoError(t, err)
		entries, err := ffs.ReadDir(dir)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.NoError(t, ffs.Remove(fpath))
	})
}
