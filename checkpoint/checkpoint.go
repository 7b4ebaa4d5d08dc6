// Package checkpoint persists which candidates have been fully searched so an
// interrupted run can resume.
//
// A checkpoint blob is laid out as
//
//	magic "B39C" | version (1 byte) | fingerprint (32 bytes) | roaring bitmap
//
// The fingerprint is a SHA-256 over the candidate list. Resuming against a
// different list fails with ErrMismatch instead of skipping the wrong work.
package checkpoint

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/bip39crack"
	"github.com/hupe1980/bip39crack/blobstore"
)

const (
	magic   = "B39C"
	version = 1

	headerSize = len(magic) + 1 + sha256.Size
)

var (
	// ErrMismatch is returned when a stored checkpoint belongs to another
	// candidate list.
	ErrMismatch = errors.New("checkpoint was written for a different candidate list")

	// ErrCorrupt is returned for blobs that are not valid checkpoints.
	ErrCorrupt = errors.New("checkpoint is corrupt")
)

// Fingerprint identifies a candidate list: one line of space-separated
// decimal indices per candidate, hashed with SHA-256.
func Fingerprint(candidates []bip39crack.Candidate) [sha256.Size]byte {
	h := sha256.New()
	var buf []byte
	for _, c := range candidates {
		buf = buf[:0]
		for i, idx := range c {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendUint(buf, uint64(idx), 10)
		}
		buf = append(buf, '\n')
		_, _ = h.Write(buf)
	}

	var out [sha256.Size]byte
	h.Sum(out[:0])
	return out
}

// Checkpoint is a set of exhausted candidate positions backed by a blob.
// It implements bip39crack.Checkpoint and is safe for concurrent use.
type Checkpoint struct {
	store blobstore.BlobStore
	name  string
	fp    [sha256.Size]byte

	mu   sync.Mutex
	done *roaring.Bitmap
}

var _ bip39crack.Checkpoint = (*Checkpoint)(nil)

// New returns an empty checkpoint that saves to name in store.
func New(store blobstore.BlobStore, name string, fp [sha256.Size]byte) *Checkpoint {
	return &Checkpoint{
		store: store,
		name:  name,
		fp:    fp,
		done:  roaring.New(),
	}
}

// Open loads the checkpoint stored at name. A missing blob yields an empty
// checkpoint.
func Open(ctx context.Context, store blobstore.BlobStore, name string, fp [sha256.Size]byte) (*Checkpoint, error) {
	cp := New(store, name, fp)

	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		if blobstore.IsNotFound(err) {
			return cp, nil
		}
		return nil, fmt.Errorf("load checkpoint %s: %w", name, err)
	}

	stored, done, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", name, err)
	}
	if stored != fp {
		return nil, fmt.Errorf("load checkpoint %s: %w", name, ErrMismatch)
	}

	cp.done = done
	return cp, nil
}

// Done reports whether position was marked.
func (c *Checkpoint) Done(position int) bool {
	if position < 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done.Contains(uint32(position))
}

// Mark records position as exhausted.
func (c *Checkpoint) Mark(position int) {
	if position < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done.Add(uint32(position))
}

// Len returns the number of marked positions.
func (c *Checkpoint) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.done.GetCardinality())
}

// Save writes the checkpoint atomically.
func (c *Checkpoint) Save(ctx context.Context) error {
	data, err := c.MarshalBinary()
	if err != nil {
		return err
	}
	return c.store.Put(ctx, c.name, data)
}

// MarshalBinary encodes the checkpoint blob.
func (c *Checkpoint) MarshalBinary() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.done.RunOptimize()

	var buf bytes.Buffer
	buf.Grow(headerSize + int(c.done.GetSerializedSizeInBytes()))
	buf.WriteString(magic)
	buf.WriteByte(version)
	buf.Write(c.fp[:])
	if _, err := c.done.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode checkpoint: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) ([sha256.Size]byte, *roaring.Bitmap, error) {
	var fp [sha256.Size]byte
	if len(data) < headerSize || string(data[:len(magic)]) != magic {
		return fp, nil, ErrCorrupt
	}
	if v := data[len(magic)]; v != version {
		return fp, nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	copy(fp[:], data[len(magic)+1:headerSize])

	done := roaring.New()
	if _, err := done.ReadFrom(bytes.NewReader(data[headerSize:])); err != nil {
		return fp, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return fp, done, nil
}
