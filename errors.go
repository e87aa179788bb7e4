package mmprep

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSource is returned when no loader is registered under a name.
	ErrUnknownSource = errors.New("unknown source")

	// ErrEmptyDataset is returned when a conversion keeps no images.
	ErrEmptyDataset = errors.New("dataset is empty")
)

// ErrConvert indicates that loading a source failed.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrConvert struct {
	Source string
	Root   string
	cause  error
}

func (e *ErrConvert) Error() string {
	return fmt.Sprintf("convert %s from %s: %v", e.Source, e.Root, e.cause)
}

func (e *ErrConvert) Unwrap() error { return e.cause }

// ErrRecord indicates that a record could not be written or read.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrRecord struct {
	Op    string
	Name  string
	cause error
}

func (e *ErrRecord) Error() string {
	return fmt.Sprintf("%s record %s: %v", e.Op, e.Name, e.cause)
}

func (e *ErrRecord) Unwrap() error { return e.cause }
