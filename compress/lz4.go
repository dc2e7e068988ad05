package compress

import (
	"bytes"
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/pressio/internal/pool"
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4, lz4.Level5,
	lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// lz4MaxDecompressedSize bounds the adaptive decompression buffer.
const lz4MaxDecompressedSize = 1 << 30 // 1GiB

// LZ4Codec compresses with the LZ4 block format.
//
// LZ4 blocks do not record their uncompressed size, so Decompress grows a
// pooled scratch buffer until the block fits.
type LZ4Codec struct {
	level int
}

var _ Codec = LZ4Codec{}

// NewLZ4Codec creates an LZ4 codec. Level 0 uses the fast compressor,
// levels 1-9 the high compression compressor.
func NewLZ4Codec(level int) (LZ4Codec, error) {
	if err := checkLevel(LZ4, level, 0, len(lz4Levels)); err != nil {
		return LZ4Codec{}, err
	}

	return LZ4Codec{level: level}, nil
}

// Compress encodes data as one LZ4 block.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	var (
		n   int
		err error
	)
	if c.level > 0 {
		hc := lz4.CompressorHC{Level: lz4Levels[c.level-1]}
		n, err = hc.CompressBlock(data, dst)
	} else {
		lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
		n, err = lc.CompressBlock(data, dst)
		lz4CompressorPool.Put(lc)
	}
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decodes one LZ4 block.
func (c LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	buf := pool.GetScratch()
	defer pool.PutScratch(buf)

	size := len(data) * 4
	for {
		buf.Resize(size)
		n, err := lz4.UncompressBlock(data, buf.B)
		if err == nil {
			return bytes.Clone(buf.B[:n]), nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || size >= lz4MaxDecompressedSize {
			return nil, err
		}
		size = min(size*2, lz4MaxDecompressedSize)
	}
}
