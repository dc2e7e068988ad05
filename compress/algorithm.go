package compress

import (
	"fmt"
	"strings"
)

// Algorithm identifies a compression algorithm.
type Algorithm uint8

const (
	None   Algorithm = 0x1 // None passes data through unchanged.
	Zstd   Algorithm = 0x2 // Zstd represents Zstandard compression.
	S2     Algorithm = 0x3 // S2 represents S2 compression.
	LZ4    Algorithm = 0x4 // LZ4 represents LZ4 block compression.
	Snappy Algorithm = 0x5 // Snappy represents Snappy block compression.
	Brotli Algorithm = 0x6 // Brotli represents Brotli compression.
	Gzip   Algorithm = 0x7 // Gzip represents gzip (DEFLATE) compression.
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{None, Zstd, S2, LZ4, Snappy, Brotli, Gzip}

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	case Snappy:
		return "snappy"
	case Brotli:
		return "brotli"
	case Gzip:
		return "gzip"
	default:
		return "unknown"
	}
}

// ParseAlgorithm returns the Algorithm named s, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToLower(s)
	for _, alg := range Algorithms {
		if alg.String() == name {
			return alg, nil
		}
	}

	return 0, fmt.Errorf("unknown compression algorithm %q", s)
}

// DefaultLevel returns the level used when none is configured.
func (a Algorithm) DefaultLevel() int {
	switch a {
	case Zstd:
		return 3
	case S2:
		return 1
	case Brotli:
		return 6
	case Gzip:
		return 6
	default:
		return 0
	}
}
