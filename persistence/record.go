package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/mmprep/codec"
	"github.com/hupe1980/mmprep/dataset"
)

// Encode writes d as a record.
func Encode(w io.Writer, d *dataset.Dataset, c codec.Codec, compression Compression) error {
	if c == nil {
		c = codec.Default
	}
	if !compression.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, compression)
	}

	payload, err := c.Marshal(d)
	if err != nil {
		return fmt.Errorf("persistence: encode payload: %w", err)
	}

	if err := writeHeader(w, Header{Version: Version, Compression: compression, Codec: c.Name()}); err != nil {
		return err
	}

	cw := NewChecksumWriter(w)
	bw := NewBlockWriter(cw, compression, 0)
	if _, err := bw.Write(payload); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	_, err = w.Write(trailer[:])
	return err
}

// Marshal returns the record bytes of d.
func Marshal(d *dataset.Dataset, c codec.Codec, compression Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d, c, compression); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a record, verifying its checksum.
func Unmarshal(data []byte) (*dataset.Dataset, Header, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, Header{}, err
	}

	c, ok := codec.ByName(h.Codec)
	if !ok {
		return nil, Header{}, fmt.Errorf("%w: %q", ErrUnknownCodec, h.Codec)
	}

	body := data[h.size():]
	if len(body) < 4 {
		return nil, Header{}, ErrTruncated
	}
	blocks := body[:len(body)-4]
	if err := verifyChecksum(blocks, binary.LittleEndian.Uint32(body[len(body)-4:])); err != nil {
		return nil, Header{}, err
	}

	payload, err := decodeBlocks(blocks, h.Compression)
	if err != nil {
		return nil, Header{}, err
	}

	d := &dataset.Dataset{}
	if err := c.Unmarshal(payload, d); err != nil {
		return nil, Header{}, fmt.Errorf("persistence: decode payload: %w", err)
	}
	return d, h, nil
}

// Decode reads a whole record from r.
func Decode(r io.Reader) (*dataset.Dataset, Header, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Header{}, err
	}
	return Unmarshal(data)
}
