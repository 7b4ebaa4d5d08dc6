package input

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hupe1980/bip39crack/blobstore"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is a supported input compression.
type Compression int

const (
	None Compression = iota
	Zstd
	Gzip
	LZ4
)

// CompressionOf returns the compression implied by the name's extension.
func CompressionOf(name string) Compression {
	switch strings.ToLower(path.Ext(name)) {
	case ".zst", ".zstd":
		return Zstd
	case ".gz":
		return Gzip
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// Open opens name in store and returns a reader over its decompressed
// content.
func Open(ctx context.Context, store blobstore.BlobStore, name string) (io.ReadCloser, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, &Error{Source: name, Reason: "open", Err: err}
	}

	rc, err := decompress(blob, CompressionOf(name))
	if err != nil {
		_ = blob.Close()
		return nil, &Error{Source: name, Reason: "decompress", Err: err}
	}
	return rc, nil
}

func decompress(blob blobstore.Blob, c Compression) (io.ReadCloser, error) {
	switch c {
	case Zstd:
		dec, err := zstd.NewReader(blob, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return &readCloser{Reader: dec, close: func() error {
			dec.Close()
			return blob.Close()
		}}, nil
	case Gzip:
		zr, err := gzip.NewReader(blob)
		if err != nil {
			return nil, err
		}
		return &readCloser{Reader: zr, close: func() error {
			err := zr.Close()
			if cerr := blob.Close(); err == nil {
				err = cerr
			}
			return err
		}}, nil
	case LZ4:
		return &readCloser{Reader: lz4.NewReader(blob), close: blob.Close}, nil
	case None:
		return blob, nil
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r *readCloser) Close() error { return r.close() }
