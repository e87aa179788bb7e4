package label

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/mmprep/mapping"
)

// Encoder turns category id lists into Vectors of width idx.Len().
type Encoder[T comparable] struct {
	idx *Index[T]
}

// NewEncoder returns an Encoder over idx.
func NewEncoder[T comparable](idx *Index[T]) *Encoder[T] {
	return &Encoder[T]{idx: idx}
}

// Width returns the vector width.
func (e *Encoder[T]) Width() int {
	return e.idx.Len()
}

// Encode sets one position per id. Repeated ids set the same position.
func (e *Encoder[T]) Encode(ids []T) (Vector, error) {
	bits := bitset.New(uint(e.idx.Len()))
	for _, id := range ids {
		p, err := e.idx.Lookup(id)
		if err != nil {
			return nil, err
		}
		bits.Set(uint(p))
	}
	return FromBits(bits, e.idx.Len()), nil
}

// EncodeAll encodes every entry of m in ascending key order.
func (e *Encoder[T]) EncodeAll(m *mapping.Multi[T]) (map[mapping.Key]Vector, error) {
	out := make(map[mapping.Key]Vector, m.Len())
	keys := m.Keys()
	it := keys.Iterator()
	for it.HasNext() {
		k := it.Next()
		ids, _ := m.Get(k)
		v, err := e.Encode(ids)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// Positive returns the keys of vs that carry at least one label.
func Positive(vs map[mapping.Key]Vector) *roaring.Bitmap {
	keys := roaring.New()
	for k, v := range vs {
		if v.Any() {
			keys.Add(k)
		}
	}
	return keys
}
