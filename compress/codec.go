package compress

import "fmt"

// Compressor compresses a byte slice.
type Compressor interface {
	// Compress returns the compressed form of data.
	//
	// The returned slice is newly allocated and owned by the caller. The
	// input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores data produced by the matching Compressor.
type Decompressor interface {
	// Decompress returns the original bytes of data.
	//
	// Returns an error if data is corrupted or was produced by another
	// algorithm. The returned slice is owned by the caller.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes the effect of one compression.
type Stats struct {
	// OriginalSize is the size of the input in bytes.
	OriginalSize int64
	// CompressedSize is the size of the output in bytes.
	CompressedSize int64
}

// CompressionRatio returns CompressedSize / OriginalSize.
//
// Values below 1.0 mean the data shrank. Returns 0 when OriginalSize is zero.
func (s Stats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage.
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

// New creates a Codec for alg at the given level.
//
// Levels are interpreted per algorithm (see the package documentation);
// zero selects the algorithm's default level.
//
// Parameters:
//   - alg: compression algorithm
//   - level: algorithm specific level, 0 for the default
//
// Returns:
//   - Codec: the codec
//   - error: unknown algorithm or out of range level
func New(alg Algorithm, level int) (Codec, error) {
	if level == 0 {
		level = alg.DefaultLevel()
	}

	switch alg {
	case None:
		return NewNoOpCodec(), nil
	case Zstd:
		return NewZstdCodec(level)
	case S2:
		return NewS2Codec(level)
	case LZ4:
		return NewLZ4Codec(level)
	case Snappy:
		return NewSnappyCodec(), nil
	case Brotli:
		return NewBrotliCodec(level)
	case Gzip:
		return NewGzipCodec(level)
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

func checkLevel(alg Algorithm, level, lo, hi int) error {
	if level < lo || level > hi {
		return fmt.Errorf("%s level %d out of range [%d, %d]", alg, level, lo, hi)
	}

	return nil
}
