package persistence

import (
	"errors"
	"fmt"
	"io"
)

// Magic identifies a record file.
const Magic = "MMPR"

// Version is the current record format version.
const Version uint8 = 1

var (
	// ErrBadMagic is returned when the data does not start with Magic.
	ErrBadMagic = errors.New("persistence: not a record file")
	// ErrUnsupportedVersion is returned for records newer than Version.
	ErrUnsupportedVersion = errors.New("persistence: unsupported record version")
	// ErrUnknownCodec is returned when the header names a codec this build lacks.
	ErrUnknownCodec = errors.New("persistence: unknown codec")
	// ErrTruncated is returned when the record ends early.
	ErrTruncated = errors.New("persistence: truncated record")
)

// Header is the fixed prefix of a record file.
type Header struct {
	Version     uint8
	Compression Compression
	Codec       string
}

func (h Header) size() int {
	return len(Magic) + 3 + len(h.Codec)
}

func writeHeader(w io.Writer, h Header) error {
	if len(h.Codec) == 0 || len(h.Codec) > 255 {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, h.Codec)
	}
	buf := make([]byte, 0, h.size())
	buf = append(buf, Magic...)
	buf = append(buf, h.Version, byte(h.Compression), byte(len(h.Codec)))
	buf = append(buf, h.Codec...)
	_, err := w.Write(buf)
	return err
}

func parseHeader(data []byte) (Header, error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return Header{}, ErrBadMagic
	}
	if len(data) < len(Magic)+3 {
		return Header{}, ErrTruncated
	}

	h := Header{
		Version:     data[4],
		Compression: Compression(data[5]),
	}
	if h.Version == 0 || h.Version > Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if !h.Compression.valid() {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownCompression, h.Compression)
	}

	n := int(data[6])
	if len(data) < len(Magic)+3+n {
		return Header{}, ErrTruncated
	}
	h.Codec = string(data[7 : 7+n])
	return h, nil
}
