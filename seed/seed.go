// Package seed implements the key-derivation pipeline from a mnemonic
// sentence to the digest fragment the search compares against.
//
//	sentence --PBKDF2-HMAC-SHA512(2048)--> seed (64 bytes)
//	seed --HMAC-SHA512("Bitcoin seed")--> I (64 bytes); I[32:] is the master digest
package seed

import (
	"crypto/hmac"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Size is the seed length in bytes.
	Size = 64
	// DigestSize is the length of the master digest half.
	DigestSize = 32
	// Iterations is the PBKDF2 round count.
	Iterations = 2048

	saltPrefix = "mnemonic"
	masterKey  = "Bitcoin seed"
)

// Derive stretches sentence (and an optional passphrase) into a 64-byte seed.
func Derive(sentence, passphrase string) [Size]byte {
	var out [Size]byte
	copy(out[:], pbkdf2.Key([]byte(sentence), []byte(saltPrefix+passphrase), Iterations, Size, sha512.New))
	return out
}

// MasterDigest returns bytes 32..63 of HMAC-SHA512 keyed with "Bitcoin seed"
// over the seed.
func MasterDigest(seed *[Size]byte) [DigestSize]byte {
	mac := hmac.New(sha512.New, []byte(masterKey))
	mac.Write(seed[:])

	var out [DigestSize]byte
	copy(out[:], mac.Sum(nil)[DigestSize:])
	return out
}

// Checker compares seeds against a PartialDigest, reusing one HMAC state.
// It is not safe for concurrent use; give each worker its own.
type Checker struct {
	target PartialDigest
	mac    hash.Hash
	sum    []byte
}

// NewChecker returns a checker for target.
func NewChecker(target PartialDigest) *Checker {
	return &Checker{
		target: target,
		mac:    hmac.New(sha512.New, []byte(masterKey)),
		sum:    make([]byte, 0, sha512.Size),
	}
}

// Match reports whether the master digest of seed starts with the target.
func (c *Checker) Match(seed *[Size]byte) bool {
	c.mac.Reset()
	c.mac.Write(seed[:])
	c.sum = c.mac.Sum(c.sum[:0])

	return c.target.matches(c.sum[DigestSize:])
}

// Target returns the digest the checker compares against.
func (c *Checker) Target() PartialDigest {
	return c.target
}
