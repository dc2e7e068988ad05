package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// BrotliCodec compresses with Brotli.
type BrotliCodec struct {
	level int
}

var _ Codec = BrotliCodec{}

// NewBrotliCodec creates a Brotli codec with a quality level of 0-11.
func NewBrotliCodec(level int) (BrotliCodec, error) {
	if err := checkLevel(Brotli, level, brotli.BestSpeed, brotli.BestCompression); err != nil {
		return BrotliCodec{}, err
	}

	return BrotliCodec{level: level}, nil
}

// Compress encodes data as a Brotli stream.
func (c BrotliCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, c.level)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decodes a Brotli stream.
func (c BrotliCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("brotli decompression failed: %w", err)
	}

	return out, nil
}
