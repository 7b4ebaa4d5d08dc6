// Package permute enumerates ordered selections of k elements from a source
// list without materializing them.
//
// Elements are treated by position: duplicate values in the source are
// distinct sources, so repeated values yield repeated selections.
// Selections are produced in lexicographic order of source positions.
package permute

import (
	"iter"
	"math/bits"
)

// Permutations is a restartable, finite sequence of all ordered selections
// of k elements from src. It is immutable and may be shared; iterate it
// through independent Iterators.
type Permutations struct {
	src []uint16
	k   int
}

// New returns the k-permutations of src. src is copied.
func New(src []uint16, k int) *Permutations {
	return &Permutations{
		src: append([]uint16(nil), src...),
		k:   k,
	}
}

// Len returns the number of source elements.
func (p *Permutations) Len() int { return len(p.src) }

// K returns the selection length.
func (p *Permutations) K() int { return p.k }

// Count returns the sequence length and false if it overflows uint64.
func (p *Permutations) Count() (uint64, bool) {
	return Count(len(p.src), p.k)
}

// Iter returns a fresh iterator positioned before the first selection.
func (p *Permutations) Iter() *Iterator {
	it := &Iterator{p: p}
	it.Reset()
	return it
}

// All returns the sequence as an iter.Seq. The yielded slice is reused
// between iterations; copy it to retain it.
func (p *Permutations) All() iter.Seq[[]uint16] {
	return func(yield func([]uint16) bool) {
		it := p.Iter()
		for {
			sel, ok := it.Next()
			if !ok || !yield(sel) {
				return
			}
		}
	}
}

// Iterator walks a Permutations sequence. It is not safe for concurrent use.
type Iterator struct {
	p       *Permutations
	indices []int
	cycles  []int
	out     []uint16
	started bool
	done    bool
}

// Reset rewinds the iterator to the first selection.
func (it *Iterator) Reset() {
	n, k := len(it.p.src), it.p.k

	it.started = false
	it.done = k < 0 || k > n

	if cap(it.indices) < n {
		it.indices = make([]int, n)
	}
	it.indices = it.indices[:n]
	for i := range it.indices {
		it.indices[i] = i
	}

	if k < 0 {
		k = 0
	}
	if cap(it.cycles) < k {
		it.cycles = make([]int, k)
		it.out = make([]uint16, k)
	}
	it.cycles = it.cycles[:k]
	it.out = it.out[:k]
	for i := range it.cycles {
		it.cycles[i] = n - i
	}
}

// Next advances to the next selection. The returned slice is owned by the
// iterator and overwritten by the following call.
func (it *Iterator) Next() ([]uint16, bool) {
	if it.done {
		return nil, false
	}

	if !it.started {
		it.started = true
		return it.emit(), true
	}

	n, k := len(it.indices), len(it.cycles)
	for i := k - 1; i >= 0; i-- {
		it.cycles[i]--
		if it.cycles[i] == 0 {
			// Rotate indices[i:] left by one.
			first := it.indices[i]
			copy(it.indices[i:], it.indices[i+1:])
			it.indices[n-1] = first
			it.cycles[i] = n - i
			continue
		}

		j := it.cycles[i]
		it.indices[i], it.indices[n-j] = it.indices[n-j], it.indices[i]
		return it.emit(), true
	}

	it.done = true
	return nil, false
}

func (it *Iterator) emit() []uint16 {
	for i := range it.out {
		it.out[i] = it.p.src[it.indices[i]]
	}
	return it.out
}

// Count returns n!/(n-k)! and false if the product overflows uint64.
// It returns 0 when k > n.
func Count(n, k int) (uint64, bool) {
	if k < 0 || k > n {
		return 0, true
	}

	total := uint64(1)
	for i := 0; i < k; i++ {
		hi, lo := bits.Mul64(total, uint64(n-i))
		if hi != 0 {
			return 0, false
		}
		total = lo
	}
	return total, true
}
