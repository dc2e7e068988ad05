package metrics

import (
	"github.com/arloliu/pressio/compress"
	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/options"
)

// SizePrefix is the registry name of the size collector.
const SizePrefix = "size"

// Size result keys.
const (
	SizeKeyUncompressed = SizePrefix + ":uncompressed_size"
	SizeKeyCompressed   = SizePrefix + ":compressed_size"
	SizeKeyDecompressed = SizePrefix + ":decompressed_size"
	SizeKeyRatio        = SizePrefix + ":compression_ratio"
	SizeKeySavings      = SizePrefix + ":space_savings"
)

// Size records payload sizes of the last successful compression and
// decompression. Many-buffer operations report the sum over all buffers.
type Size struct {
	stats        compress.Stats
	compressed   bool
	decompressed uint64
	hasDecomp    bool
}

var _ Impl = (*Size)(nil)

// NewSize creates a size collector.
func NewSize() *Size {
	return &Size{}
}

func (s *Size) Prefix() string { return SizePrefix }

func (s *Size) Begin(Event, *Call) error { return nil }

func (s *Size) End(ev Event, call *Call, result error) error {
	if result != nil {
		return nil
	}

	switch ev {
	case EventCompress, EventCompressMany:
		s.stats = compress.Stats{
			OriginalSize:   totalLen(call.Inputs),
			CompressedSize: totalLen(call.Outputs),
		}
		s.compressed = true
	case EventDecompress, EventDecompressMany:
		s.decompressed = uint64(totalLen(call.Outputs))
		s.hasDecomp = true
	}

	return nil
}

func totalLen(buffers []*data.Data) int64 {
	var n int64
	for _, b := range buffers {
		if b != nil {
			n += int64(b.Len())
		}
	}

	return n
}

func (s *Size) Results(*options.Options) *options.Options {
	results := options.New()
	if s.compressed {
		options.Put(results, SizeKeyUncompressed, uint64(s.stats.OriginalSize))
		options.Put(results, SizeKeyCompressed, uint64(s.stats.CompressedSize))
		options.Put(results, SizeKeyRatio, s.stats.CompressionRatio())
		options.Put(results, SizeKeySavings, s.stats.SpaceSavings())
	} else {
		options.PutUnset(results, SizeKeyUncompressed, options.TypeUint64)
		options.PutUnset(results, SizeKeyCompressed, options.TypeUint64)
		options.PutUnset(results, SizeKeyRatio, options.TypeFloat64)
		options.PutUnset(results, SizeKeySavings, options.TypeFloat64)
	}
	if s.hasDecomp {
		options.Put(results, SizeKeyDecompressed, s.decompressed)
	} else {
		options.PutUnset(results, SizeKeyDecompressed, options.TypeUint64)
	}

	return results
}

func (s *Size) Clone() Impl {
	copied := *s
	return &copied
}

func (s *Size) Documentation() *options.Options {
	docs := options.New()
	options.Put(docs, options.KeyDescription, "records payload sizes of compression and decompression")
	options.Put(docs, SizeKeyUncompressed, "bytes passed to the last compression")
	options.Put(docs, SizeKeyCompressed, "bytes produced by the last compression")
	options.Put(docs, SizeKeyDecompressed, "bytes produced by the last decompression")
	options.Put(docs, SizeKeyRatio, "compressed size divided by uncompressed size")
	options.Put(docs, SizeKeySavings, "percentage of bytes saved by the last compression")

	return docs
}
