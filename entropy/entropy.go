// Package entropy converts between 12-word mnemonic index tuples and the
// 128-bit entropy block they encode, and validates the 4-bit checksum.
//
// The 12 indices carry 11 bits each (132 bits). The first 128 bits are the
// entropy; the trailing 4 bits (the low nibble of the last index) are the
// checksum, which must equal the top nibble of SHA-256(entropy).
package entropy

import "crypto/sha256"

const (
	// WordCount is the number of words in a supported mnemonic.
	WordCount = 12
	// Size is the entropy length in bytes.
	Size = 16
	// BitsPerWord is the width of one word index.
	BitsPerWord = 11
	// MaxIndex is the largest addressable word index.
	MaxIndex = 1<<BitsPerWord - 1

	checksumBits = WordCount*BitsPerWord - Size*8
	checksumMask = 1<<checksumBits - 1
)

// Pack splices the 12 eleven-bit indices into a 16-byte entropy block.
//
// Bits beyond the low 11 of each index are ignored. The checksum nibble is
// not part of the result; see ChecksumNibble.
func Pack(idx *[WordCount]uint16) [Size]byte {
	var out [Size]byte

	var acc uint32
	var n uint
	pos := 0
	for _, v := range idx {
		acc = acc<<BitsPerWord | uint32(v)&MaxIndex
		n += BitsPerWord
		for n >= 8 && pos < Size {
			n -= 8
			out[pos] = byte(acc >> n)
			pos++
		}
		acc &= 1<<n - 1
	}

	return out
}

// Unpack reverses Pack. nibble supplies the 4 checksum bits that complete the
// last index.
func Unpack(buf [Size]byte, nibble uint8) [WordCount]uint16 {
	var out [WordCount]uint16

	var acc uint32
	var n uint
	pos := 0
	for _, b := range buf {
		acc = acc<<8 | uint32(b)
		n += 8
		if n >= BitsPerWord {
			n -= BitsPerWord
			out[pos] = uint16(acc >> n)
			pos++
			acc &= 1<<n - 1
		}
	}
	// 7 bits of the last index remain in acc.
	out[pos] = uint16(acc<<checksumBits | uint32(nibble)&checksumMask)

	return out
}

// ChecksumNibble returns the checksum bits carried by the last index.
func ChecksumNibble(idx *[WordCount]uint16) uint8 {
	return uint8(idx[WordCount-1] & checksumMask)
}

// Checksum returns the top nibble of SHA-256 over the entropy block.
func Checksum(buf [Size]byte) uint8 {
	sum := sha256.Sum256(buf[:])
	return sum[0] >> (8 - checksumBits)
}

// Valid reports whether the tuple's checksum nibble matches its entropy.
func Valid(idx *[WordCount]uint16) bool {
	return Checksum(Pack(idx)) == ChecksumNibble(idx)
}
