package label

import (
	"github.com/bits-and-blooms/bitset"
)

// Vector is a multi-label vector. Every element is 0 or 1.
type Vector []int8

// NewVector returns an all-zero vector of width n.
func NewVector(n int) Vector {
	return make(Vector, n)
}

// FromBits expands a set of positions into a vector of width n.
// Positions at or beyond n are ignored.
func FromBits(bits *bitset.BitSet, n int) Vector {
	v := NewVector(n)
	for i, ok := bits.NextSet(0); ok && int(i) < n; i, ok = bits.NextSet(i + 1) {
		v[i] = 1
	}
	return v
}

// Any reports whether at least one label is set.
func (v Vector) Any() bool {
	for _, b := range v {
		if b != 0 {
			return true
		}
	}
	return false
}

// Count returns the number of set labels.
func (v Vector) Count() int {
	n := 0
	for _, b := range v {
		if b != 0 {
			n++
		}
	}
	return n
}

// Valid reports whether v has width n and holds only 0 and 1.
func (v Vector) Valid(n int) bool {
	if len(v) != n {
		return false
	}
	for _, b := range v {
		if b != 0 && b != 1 {
			return false
		}
	}
	return true
}
