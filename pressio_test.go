package pressio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pressio/compressor"
	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/errs"
	"github.com/arloliu/pressio/metrics"
	"github.com/arloliu/pressio/options"
	"github.com/arloliu/pressio/parallel"
)

func TestSupported(t *testing.T) {
	require.Subset(t, SupportedCompressors(),
		[]string{"noop", "zstd", "s2", "lz4", "snappy", "brotli", "gzip", parallel.Prefix})
	require.Subset(t, SupportedMetrics(),
		[]string{"noop", "time", "size", "checksum", "historian", "composite"})
}

func TestNewCompressor_RoundTripWithMetrics(t *testing.T) {
	c, err := NewCompressor("zstd", compressor.WithMetricsName(metrics.SizePrefix))
	require.NoError(t, err)

	values := make([]float64, 1024)
	for i := range values {
		values[i] = float64(i % 7)
	}
	input := data.FromFloat64s(values)

	compressed := data.Empty(data.Byte)
	require.NoError(t, c.Compress(input, compressed))

	restored := data.Empty(data.Float64, input.Dims()...)
	require.NoError(t, c.Decompress(compressed, restored))
	require.True(t, input.Equal(restored))

	ratio := options.GetOr(c.MetricsResults(), metrics.SizeKeyRatio, 0.0)
	require.Greater(t, ratio, 0.0)
	require.Less(t, ratio, 1.0)
}

func TestNewCompressor_Unknown(t *testing.T) {
	_, err := NewCompressor("nope")
	require.ErrorIs(t, err, errs.ErrUnknownPlugin)

	_, err = NewMetrics("nope")
	require.ErrorIs(t, err, errs.ErrUnknownPlugin)
}

func TestNewParallel(t *testing.T) {
	p, err := NewParallel("lz4", 4, compressor.WithName("batch"))
	require.NoError(t, err)
	require.Equal(t, parallel.Prefix, p.Prefix())
	require.Equal(t, "lz4", options.GetOr(p.Options(), parallel.KeyCompressor, ""))
	require.Equal(t, uint32(4), options.GetOr(p.Options(), parallel.KeyNThreads, uint32(0)))

	inputs := []*data.Data{
		data.FromFloat64s([]float64{1, 2, 3}),
		data.FromFloat64s([]float64{4, 5}),
	}
	outputs := []*data.Data{data.Empty(data.Byte), data.Empty(data.Byte)}
	require.NoError(t, p.CompressMany(inputs, outputs))

	restored := []*data.Data{data.Empty(data.Float64), data.Empty(data.Float64)}
	require.NoError(t, p.DecompressMany(outputs, restored))
	require.True(t, inputs[0].Equal(restored[0]))
	require.True(t, inputs[1].Equal(restored[1]))

	_, err = NewParallel("lz4", 0)
	require.ErrorIs(t, err, errs.ErrInvalidThreadCount)
}
