// Package mnemonic maps word indices to dictionary words and builds the
// canonical space-joined mnemonic sentence.
package mnemonic

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tyler-smith/go-bip39/wordlists"
)

// MinWords is the smallest dictionary that can form a 12-word sentence.
const MinWords = 12

// MaxIndex is the largest index an 11-bit word slot can address.
const MaxIndex = 2047

var (
	// ErrTooFewWords is returned when a dictionary has fewer than MinWords entries.
	ErrTooFewWords = errors.New("dictionary has too few words")

	// ErrLookup is matched by every *LookupError.
	ErrLookup = errors.New("word index not in dictionary")
)

// LookupError reports an index that has no dictionary entry.
type LookupError struct {
	Index uint16
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("word index %d not in dictionary", e.Index)
}

func (e *LookupError) Is(target error) bool { return target == ErrLookup }

// Dictionary is an immutable index -> word mapping. Keys need not be
// contiguous. A Dictionary is safe for concurrent use.
type Dictionary struct {
	words map[uint16]string
}

// NewDictionary validates and copies words.
func NewDictionary(words map[uint16]string) (*Dictionary, error) {
	if len(words) < MinWords {
		return nil, fmt.Errorf("%w: got %d, need at least %d", ErrTooFewWords, len(words), MinWords)
	}

	cp := make(map[uint16]string, len(words))
	for idx, w := range words {
		if idx > MaxIndex {
			return nil, fmt.Errorf("word index %d out of range [0, %d]", idx, MaxIndex)
		}
		if w == "" {
			return nil, fmt.Errorf("empty word at index %d", idx)
		}
		cp[idx] = w
	}

	return &Dictionary{words: cp}, nil
}

// English returns the standard 2048-word English list.
func English() *Dictionary {
	words := make(map[uint16]string, len(wordlists.English))
	for i, w := range wordlists.English {
		words[uint16(i)] = w
	}
	return &Dictionary{words: words}
}

// Word returns the word stored at idx.
func (d *Dictionary) Word(idx uint16) (string, bool) {
	w, ok := d.words[idx]
	return w, ok
}

// Has reports whether idx has an entry.
func (d *Dictionary) Has(idx uint16) bool {
	_, ok := d.words[idx]
	return ok
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Index returns the index of word. Lookup is linear; it is meant for
// tooling and tests, not the search loop.
func (d *Dictionary) Index(word string) (uint16, bool) {
	for idx, w := range d.words {
		if w == word {
			return idx, true
		}
	}
	return 0, false
}

// Indices returns all keys in ascending order.
func (d *Dictionary) Indices() []uint16 {
	out := make([]uint16, 0, len(d.words))
	for idx := range d.words {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
