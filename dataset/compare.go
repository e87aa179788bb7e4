package dataset

import (
	"fmt"
	"slices"
)

// DiffError describes the first difference between two datasets.
type DiffError struct {
	Field string
	Index int
	A, B  any
}

func (e *DiffError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("dataset: %s differ: %v vs %v", e.Field, e.A, e.B)
	}
	return fmt.Sprintf("dataset: %s[%d] differ: %v vs %v", e.Field, e.Index, e.A, e.B)
}

// Equal compares the persisted content of two datasets: paths, captions and
// label values. It returns nil when they match and a *DiffError otherwise.
func Equal(a, b *Dataset) error {
	if a.Len() != b.Len() {
		return &DiffError{Field: "indexs length", Index: -1, A: a.Len(), B: b.Len()}
	}
	if len(a.Captions) != len(b.Captions) {
		return &DiffError{Field: "captions length", Index: -1, A: len(a.Captions), B: len(b.Captions)}
	}
	if len(a.Labels) != len(b.Labels) {
		return &DiffError{Field: "labels length", Index: -1, A: len(a.Labels), B: len(b.Labels)}
	}

	for i := range a.Indexs {
		if a.Indexs[i] != b.Indexs[i] {
			return &DiffError{Field: "indexs", Index: i, A: a.Indexs[i], B: b.Indexs[i]}
		}
	}
	for i := range a.Captions {
		if !slices.Equal(a.Captions[i], b.Captions[i]) {
			return &DiffError{Field: "captions", Index: i, A: a.Captions[i], B: b.Captions[i]}
		}
	}
	for i := range a.Labels {
		if !slices.Equal(a.Labels[i], b.Labels[i]) {
			return &DiffError{Field: "labels", Index: i, A: a.Labels[i], B: b.Labels[i]}
		}
	}
	return nil
}
