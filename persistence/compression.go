package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression of a record.
type Compression uint8

const (
	// CompressionNone stores blocks as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (smaller).
	CompressionZSTD Compression = 2
)

// ErrUnknownCompression is returned for unrecognized compression kinds.
var ErrUnknownCompression = errors.New("persistence: unknown compression")

// String returns the flag name of c.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

func (c Compression) valid() bool {
	return c <= CompressionZSTD
}

// ParseCompression parses a flag name.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

const (
	blockHeaderSize  = 8
	defaultBlockSize = 256 * 1024
)

// compressBlock frames data as one block, falling back to a stored block when
// compression saves less than 10%.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	out := make([]byte, blockHeaderSize, blockHeaderSize+len(data))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		binary.LittleEndian.PutUint32(out[4:], 0)
		return append(out, data...), nil
	}
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	return append(out, compressed...), nil
}

// BlockWriter buffers writes and emits framed blocks.
type BlockWriter struct {
	w           io.Writer
	compression Compression
	blockSize   int
	buffer      *bytes.Buffer
	written     int64
}

// NewBlockWriter returns a BlockWriter. A non-positive blockSize selects 256KB.
func NewBlockWriter(w io.Writer, c Compression, blockSize int) *BlockWriter {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &BlockWriter{
		w:           w,
		compression: c,
		blockSize:   blockSize,
		buffer:      bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

// Write implements io.Writer.
func (b *BlockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := b.blockSize - b.buffer.Len()
		if space <= 0 {
			if err := b.Flush(); err != nil {
				return total, err
			}
			space = b.blockSize
		}
		n := min(len(p), space)
		b.buffer.Write(p[:n])
		total += n
		p = p[n:]
	}
	return total, nil
}

// Flush writes the buffered data as one block.
func (b *BlockWriter) Flush() error {
	if b.buffer.Len() == 0 {
		return nil
	}
	block, err := compressBlock(b.buffer.Bytes(), b.compression)
	if err != nil {
		return err
	}
	n, err := b.w.Write(block)
	b.written += int64(n)
	if err != nil {
		return err
	}
	b.buffer.Reset()
	return nil
}

// BytesWritten returns the framed bytes written so far.
func (b *BlockWriter) BytesWritten() int64 {
	return b.written
}

// decodeBlocks decodes a sequence of framed blocks.
func decodeBlocks(data []byte, c Compression) ([]byte, error) {
	var out []byte
	for off := 0; off < len(data); {
		if off+blockHeaderSize > len(data) {
			return nil, ErrTruncated
		}
		rawSize := int(binary.LittleEndian.Uint32(data[off:]))
		packedSize := int(binary.LittleEndian.Uint32(data[off+4:]))
		off += blockHeaderSize

		if packedSize == 0 {
			if off+rawSize > len(data) {
				return nil, ErrTruncated
			}
			out = append(out, data[off:off+rawSize]...)
			off += rawSize
			continue
		}

		if off+packedSize > len(data) {
			return nil, ErrTruncated
		}
		block, err := decompressBlock(data[off:off+packedSize], rawSize, c)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
		off += packedSize
	}
	return out, nil
}

func decompressBlock(packed []byte, rawSize int, c Compression) ([]byte, error) {
	result := make([]byte, rawSize)
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(packed, result)
		if err != nil {
			return nil, err
		}
		if n != rawSize {
			return nil, errors.New("persistence: decompressed size mismatch")
		}
		return result, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		decoded, err := dec.DecodeAll(packed, result[:0])
		if err != nil {
			return nil, err
		}
		if len(decoded) != rawSize {
			return nil, errors.New("persistence: decompressed size mismatch")
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: compressed block in %s record", ErrUnknownCompression, c)
	}
}
