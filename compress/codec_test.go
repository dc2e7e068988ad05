package compress

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func smoothPayload(n int) []byte {
	buf := make([]byte, 0, n*8)
	for i := range n {
		v := math.Sin(float64(i) / 100.0)
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	return buf
}

func TestCodecs_RoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":      {},
		"single":     {0x42},
		"repetitive": bytes.Repeat([]byte("pressio"), 2048),
		"smooth":     smoothPayload(4096),
	}

	for _, alg := range Algorithms {
		for _, level := range []int{0, 1} {
			codec, err := New(alg, level)
			require.NoError(t, err, "%s level %d", alg, level)

			for name, payload := range payloads {
				t.Run(alg.String()+"/"+name, func(t *testing.T) {
					compressed, err := codec.Compress(payload)
					require.NoError(t, err)

					restored, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Len(t, restored, len(payload))
					if len(payload) > 0 {
						require.Equal(t, payload, restored)
					}
				})
			}
		}
	}
}

func TestCodecs_Shrink(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 8192)

	for _, alg := range Algorithms {
		if alg == None {
			continue
		}
		t.Run(alg.String(), func(t *testing.T) {
			codec, err := New(alg, 0)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)
			require.Less(t, len(compressed), len(payload)/4)
		})
	}
}

func TestNoOpCodec_Copies(t *testing.T) {
	payload := []byte{1, 2, 3}
	out, err := NewNoOpCodec().Compress(payload)
	require.NoError(t, err)
	require.Equal(t, payload, out)

	out[0] = 9
	require.Equal(t, byte(1), payload[0], "output must not alias input")
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		alg     Algorithm
		level   int
		wantErr bool
	}{
		{Zstd, 1, false},
		{Zstd, 22, false},
		{Zstd, 23, true},
		{S2, 3, false},
		{S2, 4, true},
		{LZ4, 9, false},
		{LZ4, 10, true},
		{Brotli, 11, false},
		{Brotli, 12, true},
		{Gzip, 9, false},
		{Gzip, -5, true},
		{Algorithm(0xFF), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			_, err := New(tt.alg, tt.level)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCodecs_HighLevels(t *testing.T) {
	payload := smoothPayload(2048)
	levels := map[Algorithm]int{Zstd: 19, S2: 3, LZ4: 9, Brotli: 11, Gzip: 9}

	for alg, level := range levels {
		t.Run(alg.String(), func(t *testing.T) {
			codec, err := New(alg, level)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)
			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, restored)
		})
	}
}

func TestCodecs_Corrupted(t *testing.T) {
	// a short length prefix followed by a copy that points before the start
	garbage := []byte{0x10, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x01}

	for _, alg := range []Algorithm{Zstd, S2, Snappy, Gzip} {
		t.Run(alg.String(), func(t *testing.T) {
			codec, err := New(alg, 0)
			require.NoError(t, err)

			_, err = codec.Decompress(garbage)
			require.Error(t, err)
		})
	}
}

func TestLZ4_LargeExpansion(t *testing.T) {
	// highly compressible input needs several buffer doublings to decode
	payload := make([]byte, 1<<20)
	codec, err := NewLZ4Codec(0)
	require.NoError(t, err)

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Less(t, len(compressed)*16, len(payload))

	restored, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, restored)
}

func TestParseAlgorithm(t *testing.T) {
	for _, alg := range Algorithms {
		parsed, err := ParseAlgorithm(alg.String())
		require.NoError(t, err)
		require.Equal(t, alg, parsed)
	}

	parsed, err := ParseAlgorithm("ZSTD")
	require.NoError(t, err)
	require.Equal(t, Zstd, parsed)

	_, err = ParseAlgorithm("bzip2")
	require.Error(t, err)
	require.Equal(t, "unknown", Algorithm(0).String())
}

func TestStats(t *testing.T) {
	s := Stats{OriginalSize: 1000, CompressedSize: 250}
	require.InDelta(t, 0.25, s.CompressionRatio(), 1e-12)
	require.InDelta(t, 75.0, s.SpaceSavings(), 1e-9)

	zero := Stats{}
	require.Zero(t, zero.CompressionRatio())
	require.Zero(t, zero.SpaceSavings())
}

func BenchmarkCodecs(b *testing.B) {
	payload := smoothPayload(8192)

	for _, alg := range Algorithms {
		codec, err := New(alg, 0)
		require.NoError(b, err)

		b.Run(alg.String()+"/compress", func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			for b.Loop() {
				_, _ = codec.Compress(payload)
			}
		})

		compressed, err := codec.Compress(payload)
		require.NoError(b, err)
		b.Run(alg.String()+"/decompress", func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			for b.Loop() {
				_, _ = codec.Decompress(compressed)
			}
		})
	}
}
