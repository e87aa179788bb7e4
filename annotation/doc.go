// Package annotation reads raw annotation files: JSON documents with named
// record sections, and line-oriented text lists.
//
// Files are read whole. Large files are memory-mapped read-only with a
// sequential access hint.
package annotation
