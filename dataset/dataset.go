// Package dataset holds the aligned output of a conversion: three parallel
// sequences of image paths, caption lists and label vectors.
package dataset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/mmprep/label"
	"github.com/hupe1980/mmprep/mapping"
)

// ErrInvalid is returned when a Dataset breaks its alignment invariants.
var ErrInvalid = errors.New("dataset: invalid")

// Dataset is an aligned dataset. Position p of Indexs, Captions and Labels
// refers to the same image.
type Dataset struct {
	Indexs   []string       `json:"indexs"`
	Captions [][]string     `json:"captions"`
	Labels   []label.Vector `json:"labels"`

	// Classes names the label positions. It is not persisted.
	Classes []string `json:"-"`
	// Keys holds the source key of every position. It is not persisted.
	Keys []mapping.Key `json:"-"`
}

// Len returns the number of images.
func (d *Dataset) Len() int {
	return len(d.Indexs)
}

// NumClasses returns the label vector width.
func (d *Dataset) NumClasses() int {
	if len(d.Classes) > 0 {
		return len(d.Classes)
	}
	if len(d.Labels) > 0 {
		return len(d.Labels[0])
	}
	return 0
}

// Validate checks that the three sequences have equal length and that every
// label vector has the dataset width and holds only 0 and 1.
func (d *Dataset) Validate() error {
	if len(d.Captions) != len(d.Indexs) || len(d.Labels) != len(d.Indexs) {
		return fmt.Errorf("%w: %d paths, %d captions, %d labels",
			ErrInvalid, len(d.Indexs), len(d.Captions), len(d.Labels))
	}
	if len(d.Keys) != 0 && len(d.Keys) != len(d.Indexs) {
		return fmt.Errorf("%w: %d keys for %d paths", ErrInvalid, len(d.Keys), len(d.Indexs))
	}

	width := d.NumClasses()
	for i, v := range d.Labels {
		if !v.Valid(width) {
			return fmt.Errorf("%w: label %d is not a binary vector of width %d", ErrInvalid, i, width)
		}
	}
	return nil
}

// Append concatenates other after d. Both must share the label width.
func (d *Dataset) Append(other *Dataset) error {
	if d.Len() > 0 && other.Len() > 0 && d.NumClasses() != other.NumClasses() {
		return fmt.Errorf("%w: cannot append %d-class dataset to %d-class dataset",
			ErrInvalid, other.NumClasses(), d.NumClasses())
	}
	if len(d.Classes) == 0 {
		d.Classes = other.Classes
	}
	d.Indexs = append(d.Indexs, other.Indexs...)
	d.Captions = append(d.Captions, other.Captions...)
	d.Labels = append(d.Labels, other.Labels...)
	d.Keys = append(d.Keys, other.Keys...)
	return nil
}

// Stats summarizes a Dataset.
type Stats struct {
	Images   int
	Captions int
	Classes  int
	// Positives counts the images carrying each class.
	Positives []int
	// Labels counts all set bits.
	Labels int
}

// Stats computes summary counts.
func (d *Dataset) Stats() Stats {
	s := Stats{
		Images:    d.Len(),
		Classes:   d.NumClasses(),
		Positives: make([]int, d.NumClasses()),
	}
	for _, cs := range d.Captions {
		s.Captions += len(cs)
	}
	for _, v := range d.Labels {
		for i, b := range v {
			if b != 0 && i < len(s.Positives) {
				s.Positives[i]++
				s.Labels++
			}
		}
	}
	return s
}
