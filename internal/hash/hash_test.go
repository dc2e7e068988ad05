package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	require.Equal(t, "ef46db3751d8e999", Sum(XXHash64, nil))
	require.Equal(t, "4fdcca5ddb678139", Sum(XXHash64, []byte("test")))

	digest := Sum(Blake3, []byte("test"))
	require.Len(t, digest, 64)
	require.Equal(t, digest, Sum(Blake3, []byte("test")))
	require.NotEqual(t, digest, Sum(Blake3, []byte("tesT")))
	// BLAKE3 of the empty input
	require.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", Sum(Blake3, nil))
}

func TestParseAlgorithm(t *testing.T) {
	for _, alg := range []Algorithm{XXHash64, Blake3} {
		parsed, err := ParseAlgorithm(alg.String())
		require.NoError(t, err)
		require.Equal(t, alg, parsed)
	}

	_, err := ParseAlgorithm("md5")
	require.Error(t, err)
	require.Equal(t, "unknown", Algorithm(9).String())
}

func BenchmarkSum(b *testing.B) {
	payload := make([]byte, 4096)
	for b.Loop() {
		Sum(XXHash64, payload)
	}
}
