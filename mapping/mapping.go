package mapping

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Record is one annotation entry with named fields, as decoded from JSON.
type Record = map[string]any

// ErrMissingField is matched by every *MissingFieldError.
var ErrMissingField = errors.New("mapping: missing field")

// MissingFieldError reports a record without a required field.
type MissingFieldError struct {
	Field string
	Index int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("mapping: record %d has no field %q", e.Index, e.Field)
}

// Is reports whether target is ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Multi maps keys to the values seen for them, in insertion order.
// It is not safe for concurrent use.
type Multi[V any] struct {
	values map[Key][]V
	keys   *roaring.Bitmap
	total  int
}

// New returns an empty Multi.
func New[V any]() *Multi[V] {
	return &Multi[V]{
		values: make(map[Key][]V),
		keys:   roaring.New(),
	}
}

// Append adds v to the values of k, creating the entry on first sight.
func (m *Multi[V]) Append(k Key, v V) {
	m.values[k] = append(m.values[k], v)
	m.keys.Add(k)
	m.total++
}

// Get returns the values of k.
func (m *Multi[V]) Get(k Key) ([]V, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Len returns the number of distinct keys.
func (m *Multi[V]) Len() int {
	return len(m.values)
}

// Total returns the number of values across all keys.
func (m *Multi[V]) Total() int {
	return m.total
}

// Keys returns the key set. The bitmap is a copy.
func (m *Multi[V]) Keys() *roaring.Bitmap {
	return m.keys.Clone()
}

// Restrict returns a new Multi holding only the entries whose key is in keep.
func (m *Multi[V]) Restrict(keep *roaring.Bitmap) *Multi[V] {
	out := New[V]()
	it := keep.Iterator()
	for it.HasNext() {
		k := it.Next()
		vs, ok := m.values[k]
		if !ok {
			continue
		}
		out.values[k] = vs
		out.keys.Add(k)
		out.total += len(vs)
	}
	return out
}

// Build groups records by keyField, collecting valueField in source order.
// Repeated identical values are kept.
func Build[V any](
	records []Record,
	keyField, valueField string,
	key func(any) (Key, error),
	value func(any) (V, error),
) (*Multi[V], error) {
	m := New[V]()
	for i, rec := range records {
		rawKey, ok := rec[keyField]
		if !ok {
			return nil, &MissingFieldError{Field: keyField, Index: i}
		}
		rawValue, ok := rec[valueField]
		if !ok {
			return nil, &MissingFieldError{Field: valueField, Index: i}
		}

		k, err := key(rawKey)
		if err != nil {
			return nil, fmt.Errorf("record %d field %q: %w", i, keyField, err)
		}
		v, err := value(rawValue)
		if err != nil {
			return nil, fmt.Errorf("record %d field %q: %w", i, valueField, err)
		}
		m.Append(k, v)
	}
	return m, nil
}
