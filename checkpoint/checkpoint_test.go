package checkpoint

import (
	"context"
	"testing"

	"github.com/hupe1980/bip39crack"
	"github.com/hupe1980/bip39crack/blobstore"
	"github.com/hupe1980/bip39crack/internal/fs"
	"github.com/hupe1980/bip39crack/mnemonic"
	"github.com/hupe1980/bip39crack/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var candidates = []bip39crack.Candidate{
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3},
	{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint(candidates)
	assert.Equal(t, a, Fingerprint(candidates))

	swapped := []bip39crack.Candidate{candidates[1], candidates[0]}
	assert.NotEqual(t, a, Fingerprint(swapped))

	// Line separation keeps "1 2" + "3" distinct from "1" + "2 3".
	assert.NotEqual(t,
		Fingerprint([]bip39crack.Candidate{{1, 2}, {3}}),
		Fingerprint([]bip39crack.Candidate{{1}, {2, 3}}))
}

func TestSaveAndOpen(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	fp := Fingerprint(candidates)

	cp, err := Open(ctx, store, "run.ckpt", fp)
	require.NoError(t, err)
	assert.Zero(t, cp.Len())

	cp.Mark(1)
	cp.Mark(100000)
	cp.Mark(-1)
	assert.True(t, cp.Done(1))
	assert.False(t, cp.Done(0))
	assert.False(t, cp.Done(-1))
	require.NoError(t, cp.Save(ctx))

	data, ok := store.Bytes("run.ckpt")
	require.True(t, ok)
	assert.Equal(t, "B39C", string(data[:4]))
	assert.Equal(t, byte(1), data[4])
	assert.Equal(t, fp[:], data[5:37])

	loaded, err := Open(ctx, store, "run.ckpt", fp)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
	assert.True(t, loaded.Done(1))
	assert.True(t, loaded.Done(100000))
	assert.False(t, loaded.Done(0))
}

func TestOpenMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, New(store, "run.ckpt", Fingerprint(candidates)).Save(ctx))

	_, err := Open(ctx, store, "run.ckpt", Fingerprint(candidates[:1]))
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestOpenCorrupt(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	fp := Fingerprint(candidates)

	good, err := New(store, "x", fp).MarshalBinary()
	require.NoError(t, err)

	badVersion := append([]byte(nil), good...)
	badVersion[4] = 9

	for name, data := range map[string][]byte{
		"Short":     []byte("B39C"),
		"Magic":     append([]byte("XXXX"), good[4:]...),
		"Version":   badVersion,
		"Truncated": append(append([]byte(nil), good[:headerSize]...), 0x3a, 0x30),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, name, data))
			_, err := Open(ctx, store, name, fp)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestSaveFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	ffs := fs.NewFaultyFS(nil)
	store := blobstore.NewLocalStoreFS(t.TempDir(), ffs)
	fp := Fingerprint(candidates)

	cp := New(store, "run.ckpt", fp)
	cp.Mark(0)
	require.NoError(t, cp.Save(ctx))

	ffs.AddRule(".tmp", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
	cp.Mark(1)
	require.Error(t, cp.Save(ctx))

	loaded, err := Open(ctx, store, "run.ckpt", fp)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}

func TestResumeSkipsExhausted(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	fp := Fingerprint(candidates)

	cp := New(store, "run.ckpt", fp)
	cp.Mark(0)
	require.NoError(t, cp.Save(ctx))

	resumed, err := Open(ctx, store, "run.ckpt", fp)
	require.NoError(t, err)

	s, err := bip39crack.New(mnemonic.English(), seed.PartialDigest{0xAB},
		bip39crack.WithTryLimit(5),
		bip39crack.WithCheckpoint(resumed, 0),
	)
	require.NoError(t, err)

	res, err := s.Run(ctx, candidates)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Candidates)

	// All done: nothing left.
	resumed.Mark(1)
	res, err = s.Run(ctx, candidates)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	assert.Zero(t, res.Attempts)
}
