package dataset

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/mmprep/label"
	"github.com/hupe1980/mmprep/mapping"
)

// Row is the data of one image.
type Row struct {
	Path     string
	Captions []string
	Labels   label.Vector
}

// RowFunc returns the row of key k.
type RowFunc func(k mapping.Key) (Row, error)

// Assemble emits one position per key in ascending key order. The path,
// captions and labels of a key are appended in the same iteration, so the
// sequences stay aligned by construction.
func Assemble(keys *roaring.Bitmap, classes []string, row RowFunc) (*Dataset, error) {
	n := int(keys.GetCardinality())
	d := &Dataset{
		Indexs:   make([]string, 0, n),
		Captions: make([][]string, 0, n),
		Labels:   make([]label.Vector, 0, n),
		Keys:     make([]mapping.Key, 0, n),
		Classes:  classes,
	}

	it := keys.Iterator()
	for it.HasNext() {
		k := it.Next()
		r, err := row(k)
		if err != nil {
			return nil, err
		}
		d.Indexs = append(d.Indexs, r.Path)
		d.Captions = append(d.Captions, r.Captions)
		d.Labels = append(d.Labels, r.Labels)
		d.Keys = append(d.Keys, k)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
