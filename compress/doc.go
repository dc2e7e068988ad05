// Package compress provides the raw byte codecs behind pressio's built-in
// compressor plugins.
//
// A Codec turns a byte slice into a compressed byte slice and back. Codecs
// know nothing about element types, shapes, options or metrics; the
// compressor plugins in package compressor layer those on top.
//
// # Supported Algorithms
//
//   - None: pass-through, useful for measuring plugin overhead
//   - Zstd: best ratio of the fast codecs, libzstd levels 1-22
//   - S2: Snappy-compatible extension, level 2 selects "better", 3 selects "best"
//   - LZ4: fastest decompression, level > 0 switches to the HC compressor
//   - Snappy: the reference Snappy block format
//   - Brotli: slow but dense, levels 0-11
//   - Gzip: interoperable DEFLATE stream, levels 1-9
//
// # Usage
//
//	codec, err := compress.New(compress.Zstd, 3)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(payload)
//	if err != nil {
//	    return err
//	}
//	restored, err := codec.Decompress(compressed)
//
// # Zstd Backends
//
// Zstd defaults to the pure-Go klauspost/compress implementation. Building
// with cgo and the gozstd tag switches to the libzstd bindings of
// valyala/gozstd:
//
//	go build -tags gozstd ./...
//
// Both produce standard zstd frames and can decode each other's output.
//
// # Thread Safety
//
// All codecs are safe for concurrent use. Encoders and decoders with internal
// state are kept in sync.Pools.
package compress
