// Package mapping builds key to list-of-values mappings from annotation
// records.
//
// Annotation files relate one image id to many values (several captions, or
// several category assignments). A Multi collects those values per key in
// source order:
//
//	captions, err := mapping.Build(records, "image_id", "caption",
//	    mapping.ParseKey, mapping.String)
//
// Records missing either field are reported as *MissingFieldError and never
// skipped.
package mapping
