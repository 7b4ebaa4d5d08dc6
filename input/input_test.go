package input

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/hupe1980/bip39crack"
	"github.com/hupe1980/bip39crack/blobstore"
	"github.com/hupe1980/bip39crack/mnemonic"
	"github.com/hupe1980/bip39crack/seed"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dictText(n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "%d word%d\n", i, i)
	}
	return sb.String()
}

func requireInputErr(t *testing.T, err error, line int) *Error {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrFatalInput)

	var ie *Error
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, line, ie.Line)
	return ie
}

func TestParseDictionary(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, err := ParseDictionary(strings.NewReader("\n"+dictText(12)+"  \n2047   zoo\n"), "dict.txt")
		require.NoError(t, err)
		assert.Equal(t, 13, d.Len())

		w, ok := d.Word(2047)
		assert.True(t, ok)
		assert.Equal(t, "zoo", w)
	})

	tests := []struct {
		name string
		text string
		line int
	}{
		{"MissingWord", "0 abandon\n1\n", 2},
		{"ExtraField", "0 abandon extra\n", 1},
		{"NotNumber", "x abandon\n", 1},
		{"OutOfRange", "2048 abandon\n", 1},
		{"Negative", "-1 abandon\n", 1},
		{"Duplicate", "0 a\n1 b\n0 c\n", 3},
		{"TooFew", dictText(11), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDictionary(strings.NewReader(tt.text), "dict.txt")
			ie := requireInputErr(t, err, tt.line)
			assert.Equal(t, "dict.txt", ie.Source)
		})
	}

	t.Run("TooFewWraps", func(t *testing.T) {
		_, err := ParseDictionary(strings.NewReader(dictText(3)), "dict.txt")
		assert.ErrorIs(t, err, mnemonic.ErrTooFewWords)
	})
}

func TestParseCandidates(t *testing.T) {
	dict := mnemonic.English()

	t.Run("Valid", func(t *testing.T) {
		text := "0 0 0 0 0 0 0 0 0 0 0 3\n\n1 2 3 4 5 6 7 8 9 10 11 2047\n"
		got, err := ParseCandidates(strings.NewReader(text), "index.txt", dict, CandidateOptions{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, bip39crack.Candidate{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3}, got[0])
		assert.Equal(t, uint16(2047), got[1][11])
	})

	t.Run("Wide", func(t *testing.T) {
		text := "1 2 3 4 5 6 7 8 9 10 11 12 13 14\n"
		_, err := ParseCandidates(strings.NewReader(text), "index.txt", dict, CandidateOptions{})
		requireInputErr(t, err, 1)

		got, err := ParseCandidates(strings.NewReader(text), "index.txt", dict, CandidateOptions{Wide: true})
		require.NoError(t, err)
		assert.Len(t, got[0], 14)
	})

	t.Run("TooShort", func(t *testing.T) {
		_, err := ParseCandidates(strings.NewReader("1 2 3 4 5 6 7 8 9 10 11 12\n1 2 3\n"), "index.txt", dict,
			CandidateOptions{Wide: true})
		requireInputErr(t, err, 2)
	})

	t.Run("BadNumber", func(t *testing.T) {
		_, err := ParseCandidates(strings.NewReader("1 2 3 4 5 6 7 8 9 10 11 x\n"), "index.txt", dict, CandidateOptions{})
		requireInputErr(t, err, 1)
	})

	t.Run("UnknownWord", func(t *testing.T) {
		small, err := ParseDictionary(strings.NewReader(dictText(12)), "dict.txt")
		require.NoError(t, err)

		_, err = ParseCandidates(strings.NewReader("0 1 2 3 4 5 6 7 8 9 10 500\n"), "index.txt", small, CandidateOptions{})
		requireInputErr(t, err, 1)
		assert.ErrorIs(t, err, mnemonic.ErrLookup)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ParseCandidates(strings.NewReader("\n \n"), "index.txt", dict, CandidateOptions{})
		requireInputErr(t, err, 0)
	})
}

func TestParseDigest(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, err := ParseDigest(strings.NewReader("\n121 35 64 141\nignored\n"), "hash.txt")
		require.NoError(t, err)
		assert.Equal(t, seed.PartialDigest{121, 35, 64, 141}, d)
	})

	t.Run("Full", func(t *testing.T) {
		fields := make([]string, 32)
		for i := range fields {
			fields[i] = "255"
		}
		d, err := ParseDigest(strings.NewReader(strings.Join(fields, " ")), "hash.txt")
		require.NoError(t, err)
		assert.Len(t, d, 32)
	})

	tests := []struct {
		name string
		text string
		line int
	}{
		{"Empty", "\n\n", 0},
		{"OutOfRange", "1 2 256\n", 1},
		{"NotNumber", "\n1 a\n", 2},
		{"TooLong", strings.Repeat("1 ", 33), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDigest(strings.NewReader(tt.text), "hash.txt")
			requireInputErr(t, err, tt.line)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	e := &Error{Source: "index.txt", Line: 4, Reason: "bad"}
	assert.Equal(t, "index.txt:4: bad", e.Error())

	e = &Error{Source: "hash.txt", Reason: "open", Err: blobstore.ErrNotFound}
	assert.Equal(t, "hash.txt: open: file does not exist", e.Error())
	assert.ErrorIs(t, e, blobstore.ErrNotFound)
}

func compress(t *testing.T, c Compression, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	var w io.WriteCloser
	switch c {
	case Zstd:
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = enc
	case Gzip:
		w = gzip.NewWriter(&buf)
	case LZ4:
		w = lz4.NewWriter(&buf)
	default:
		return data
	}

	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestOpenDecompresses(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	text := []byte("0 0 0 0 0 0 0 0 0 0 0 3\n")

	for name, c := range map[string]Compression{
		"index.txt":     None,
		"index.txt.zst": Zstd,
		"index.txt.gz":  Gzip,
		"index.txt.lz4": LZ4,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c, CompressionOf(name))
			require.NoError(t, store.Put(ctx, name, compress(t, c, text)))

			got, err := LoadCandidates(ctx, store, name, mnemonic.English(), CandidateOptions{})
			require.NoError(t, err)
			assert.Equal(t, []bip39crack.Candidate{{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3}}, got)
		})
	}
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := LoadDigest(ctx, store, "missing.txt")
	requireInputErr(t, err, 0)
	assert.True(t, blobstore.IsNotFound(err))

	require.NoError(t, store.Put(ctx, "bad.gz", []byte("not gzip")))
	_, err = Open(ctx, store, "bad.gz")
	requireInputErr(t, err, 0)
}

func TestLoadDictionary(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "dict.txt.zst", compress(t, Zstd, []byte(dictText(2048)))))

	d, err := LoadDictionary(ctx, store, "dict.txt.zst")
	require.NoError(t, err)
	assert.Equal(t, 2048, d.Len())
}
