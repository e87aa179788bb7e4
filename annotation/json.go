package annotation

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/hupe1980/mmprep/mapping"
)

// ErrMissingSection is returned when a JSON document lacks a requested
// top-level section.
var ErrMissingSection = errors.New("annotation: missing section")

// Document is a parsed JSON annotation file. Sections are decoded on demand.
type Document struct {
	path     string
	sections map[string]json.RawMessage
}

// LoadJSON parses the top level of the JSON object in path.
func LoadJSON(path string) (*Document, error) {
	doc := &Document{path: path}
	err := withFile(path, func(data []byte) error {
		var sections map[string]json.RawMessage
		if err := json.Unmarshal(data, &sections); err != nil {
			return err
		}
		// Raw sections alias the input; copy them out of a mapping.
		for k, v := range sections {
			sections[k] = bytes.Clone(v)
		}
		doc.sections = sections
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("annotation: parse %s: %w", path, err)
	}
	return doc, nil
}

// Path returns the file the document was read from.
func (d *Document) Path() string {
	return d.path
}

// Has reports whether the document has a top-level section named name.
func (d *Document) Has(name string) bool {
	_, ok := d.sections[name]
	return ok
}

// Records decodes the section name as a list of records. Numbers are kept as
// json.Number so integer ids survive exactly.
func (d *Document) Records(name string) ([]mapping.Record, error) {
	raw, ok := d.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingSection, name, d.path)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var records []mapping.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("annotation: section %s in %s: %w", name, d.path, err)
	}
	return records, nil
}
