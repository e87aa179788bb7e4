package label

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory is matched by every *UnknownCategoryError.
	ErrUnknownCategory = errors.New("label: unknown category")
	// ErrDuplicateCategory is returned when the category list repeats an id.
	ErrDuplicateCategory = errors.New("label: duplicate category")
)

// UnknownCategoryError reports an identifier that is not in the index.
type UnknownCategoryError struct {
	ID any
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("label: unknown category %v", e.ID)
}

// Is reports whether target is ErrUnknownCategory.
func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}

// Index is a bijection between raw category ids and positions 0..Len()-1.
type Index[T comparable] struct {
	pos map[T]int
	ids []T
}

// NewIndex assigns positions in list order.
func NewIndex[T comparable](ordered []T) (*Index[T], error) {
	idx := &Index[T]{
		pos: make(map[T]int, len(ordered)),
		ids: make([]T, 0, len(ordered)),
	}
	for i, id := range ordered {
		if _, ok := idx.pos[id]; ok {
			return nil, fmt.Errorf("%w: %v at position %d", ErrDuplicateCategory, id, i)
		}
		idx.pos[id] = i
		idx.ids = append(idx.ids, id)
	}
	return idx, nil
}

// Len returns the number of categories.
func (idx *Index[T]) Len() int {
	return len(idx.ids)
}

// Lookup returns the position of id.
func (idx *Index[T]) Lookup(id T) (int, error) {
	p, ok := idx.pos[id]
	if !ok {
		return 0, &UnknownCategoryError{ID: id}
	}
	return p, nil
}

// ID returns the raw id at position p.
func (idx *Index[T]) ID(p int) T {
	return idx.ids[p]
}

// IDs returns the raw ids in position order.
func (idx *Index[T]) IDs() []T {
	out := make([]T, len(idx.ids))
	copy(out, idx.ids)
	return out
}
