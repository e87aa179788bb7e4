// Package label maps raw category identifiers to dense positions and encodes
// per-image category lists as fixed-width multi-label vectors.
//
// The dense position of a category is its position in the canonical category
// list, never the order in which annotations mention it:
//
//	idx, err := label.NewIndex([]int{1, 3, 5}) // 1→0, 3→1, 5→2
//	enc := label.NewEncoder(idx)
//	v, err := enc.Encode([]int{1, 3})          // [1 0 1]
//
// Identifiers missing from the index are an error.
package label
