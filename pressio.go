// Package pressio is a pluggable compression framework.
//
// Compressors and metrics collectors are plugins built by name from
// process-wide registries and configured through typed option bags keyed
// "<plugin>:<option>". Every compressor drives its attached collector with a
// begin/end hook pair around each operation, so measurements such as timing,
// sizes or checksums can be attached to any compressor without changing it.
//
// # Built-in Compressors
//
//   - noop: copies its input
//   - zstd, s2, lz4, snappy, brotli, gzip: lossless codecs over the raw payload
//   - many_independent_threaded: runs another compressor on independent
//     groups of buffers in parallel
//
// # Built-in Collectors
//
//   - noop, time, size, checksum, historian, composite
//
// # Basic Usage
//
//	c, err := pressio.NewCompressor("zstd")
//	if err != nil {
//	    return err
//	}
//
//	opts := options.New()
//	options.Put(opts, "zstd:level", int32(6))
//	options.Put(opts, "zstd:metric", "size")
//	if err := c.SetOptions(opts); err != nil {
//	    return err
//	}
//
//	input := data.FromFloat64s(values)
//	compressed := data.Empty(data.Byte)
//	if err := c.Compress(input, compressed); err != nil {
//	    return err
//	}
//
//	restored := data.Empty(data.Float64, input.Dims()...)
//	if err := c.Decompress(compressed, restored); err != nil {
//	    return err
//	}
//
//	ratio := options.GetOr(c.MetricsResults(), "size:compression_ratio", 0.0)
//
// # Package Structure
//
// This package offers thin wrappers over the compressor, metrics and parallel
// packages and guarantees that every built-in plugin is registered. Use those
// packages directly to write new plugins.
package pressio

import (
	"github.com/arloliu/pressio/compressor"
	"github.com/arloliu/pressio/metrics"
	"github.com/arloliu/pressio/parallel"
)

// Version is the version of the pressio module.
const Version = "0.1.0"

// NewCompressor builds the compressor registered as name.
//
// Parameters:
//   - name: registry name such as "zstd" or "many_independent_threaded"
//   - opts: plugin options, e.g. compressor.WithMetricsName("time")
//
// Returns:
//   - *compressor.Plugin: the compressor, with a noop collector unless opts
//     attach another
//   - error: errs.ErrUnknownPlugin for an unregistered name
func NewCompressor(name string, opts ...compressor.Option) (*compressor.Plugin, error) {
	return compressor.Build(name, opts...)
}

// NewMetrics builds the metrics collector registered as name.
func NewMetrics(name string) (*metrics.Plugin, error) {
	return metrics.Build(name)
}

// NewParallel builds a parallel dispatcher around the compressor registered
// as template.
//
// Parameters:
//   - template: registry name of the compressor run on every group
//   - threads: number of worker goroutines, at least one
//   - opts: plugin options for the dispatcher itself
//
// Returns:
//   - *compressor.Plugin: the dispatcher
//   - error: an unknown template or an invalid thread count
func NewParallel(template string, threads uint32, opts ...compressor.Option) (*compressor.Plugin, error) {
	inner, err := compressor.Build(template)
	if err != nil {
		return nil, err
	}

	dispatcher, err := parallel.New(parallel.WithTemplate(inner), parallel.WithThreads(threads))
	if err != nil {
		return nil, err
	}

	return compressor.New(dispatcher, opts...)
}

// SupportedCompressors returns the registered compressor names in sorted order.
func SupportedCompressors() []string {
	return compressor.Names()
}

// SupportedMetrics returns the registered collector names in sorted order.
func SupportedMetrics() []string {
	return metrics.Names()
}
