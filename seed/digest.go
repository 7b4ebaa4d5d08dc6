package seed

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrDigestLength is returned for partial digests that are empty or longer
// than DigestSize.
var ErrDigestLength = errors.New("partial digest length must be between 1 and 32 bytes")

// PartialDigest is a known leading fragment of the master digest.
type PartialDigest []byte

// NewPartialDigest validates and copies b.
func NewPartialDigest(b []byte) (PartialDigest, error) {
	if len(b) == 0 || len(b) > DigestSize {
		return nil, fmt.Errorf("%w: got %d", ErrDigestLength, len(b))
	}
	return append(PartialDigest(nil), b...), nil
}

// Matches reports whether digest starts with p.
func (p PartialDigest) Matches(digest [DigestSize]byte) bool {
	return p.matches(digest[:])
}

func (p PartialDigest) matches(digest []byte) bool {
	return bytes.Equal(digest[:len(p)], p)
}

// Clone returns an independent copy.
func (p PartialDigest) Clone() PartialDigest {
	return append(PartialDigest(nil), p...)
}
