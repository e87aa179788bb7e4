// Package align intersects the key sets of independent annotation sources.
//
// A key survives only if every source carries it. The Result keeps the
// per-source counts so callers can report how many keys each source lost.
package align

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Source is one named key set taking part in a join.
type Source struct {
	Name string
	Keys *roaring.Bitmap
}

// Count is the pre-join size of one source and how many of its keys were
// dropped by the join.
type Count struct {
	Name    string
	Keys    uint64
	Dropped uint64
}

// Result is the outcome of Intersect.
type Result struct {
	// Common holds the keys present in every source.
	Common *roaring.Bitmap
	// Sources lists the per-source counts in argument order.
	Sources []Count
}

// Len returns the number of common keys.
func (r Result) Len() int {
	return int(r.Common.GetCardinality())
}

// Intersect returns the keys present in all sources.
// No source is modified.
func Intersect(sources ...Source) Result {
	res := Result{
		Common:  roaring.New(),
		Sources: make([]Count, len(sources)),
	}
	if len(sources) == 0 {
		return res
	}

	bitmaps := make([]*roaring.Bitmap, len(sources))
	for i, s := range sources {
		keys := s.Keys
		if keys == nil {
			keys = roaring.New()
		}
		bitmaps[i] = keys
	}
	res.Common = roaring.FastAnd(bitmaps...)

	common := res.Common.GetCardinality()
	for i, s := range sources {
		n := bitmaps[i].GetCardinality()
		res.Sources[i] = Count{Name: s.Name, Keys: n, Dropped: n - common}
	}
	return res
}

// Subtract returns the keys of a that are not in b.
func Subtract(a, b *roaring.Bitmap) *roaring.Bitmap {
	return roaring.AndNot(a, b)
}
