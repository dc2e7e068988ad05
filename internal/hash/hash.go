// Package hash computes payload digests for the checksum metrics collector.
package hash

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Algorithm selects a digest function.
type Algorithm uint8

const (
	// XXHash64 is the non-cryptographic 64-bit xxHash.
	XXHash64 Algorithm = iota
	// Blake3 is the 256-bit BLAKE3 hash.
	Blake3
)

func (a Algorithm) String() string {
	switch a {
	case XXHash64:
		return "xxhash64"
	case Blake3:
		return "blake3"
	default:
		return "unknown"
	}
}

// ParseAlgorithm returns the Algorithm named s, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "xxhash64", "xxhash":
		return XXHash64, nil
	case "blake3":
		return Blake3, nil
	default:
		return 0, fmt.Errorf("unknown hash algorithm %q", s)
	}
}

// Sum returns the digest of data as a lowercase hex string.
func Sum(alg Algorithm, data []byte) string {
	switch alg {
	case Blake3:
		sum := blake3.Sum256(data)
		return hex.EncodeToString(sum[:])
	default:
		return fmt.Sprintf("%016x", xxhash.Sum64(data))
	}
}
