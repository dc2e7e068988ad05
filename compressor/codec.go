package compressor

import (
	"github.com/arloliu/pressio/compress"
	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/errs"
	"github.com/arloliu/pressio/internal/pool"
	"github.com/arloliu/pressio/options"
)

// Option names of the codec compressors, scoped by the algorithm name.
const (
	codecLevel            = "level"
	codecShuffle          = "shuffle"
	codecCompressedSize   = "compressed_size"
	codecUncompressedSize = "uncompressed_size"
)

// Codec is a lossless compressor backed by one algorithm of the compress
// package. Its prefix is the algorithm name, so "<alg>:level" selects the
// level and "<alg>:shuffle" enables byte grouping by element size before
// compression.
//
// The compressed output is a one-dimensional Byte buffer. Decompression
// restores the dtype and dims carried by the output template; a template
// without dims becomes one-dimensional.
type Codec struct {
	alg     compress.Algorithm
	level   int32
	shuffle bool
	codec   compress.Codec

	stats    compress.Stats
	measured bool
}

var (
	_ Impl            = (*Codec)(nil)
	_ OptionChecker   = (*Codec)(nil)
	_ ResultsReporter = (*Codec)(nil)
)

// NewCodec creates a compressor for alg at its default level.
func NewCodec(alg compress.Algorithm) (*Codec, error) {
	codec, err := compress.New(alg, 0)
	if err != nil {
		return nil, errs.New(errs.CodeGeneric, errs.ErrInvalidOption, "%v", err)
	}

	return &Codec{alg: alg, level: int32(alg.DefaultLevel()), codec: codec}, nil
}

// MustNewCodec is like NewCodec but panics on an unknown algorithm. It is
// intended for registering the built-in algorithms.
func MustNewCodec(alg compress.Algorithm) *Codec {
	c, err := NewCodec(alg)
	if err != nil {
		panic(err)
	}

	return c
}

// Algorithm returns the compression algorithm.
func (c *Codec) Algorithm() compress.Algorithm {
	return c.alg
}

// Level returns the configured level.
func (c *Codec) Level() int32 {
	return c.level
}

func (c *Codec) Prefix() string {
	return c.alg.String()
}

func (c *Codec) Version() Version {
	return Version{Major: 1}
}

func (c *Codec) key(name string) string {
	return options.Scoped(c.Prefix(), name)
}

func (c *Codec) Options() *options.Options {
	opts := options.New()
	options.Put(opts, c.key(codecLevel), c.level)
	options.Put(opts, c.key(codecShuffle), c.shuffle)

	return opts
}

// CheckOptions rejects a level the algorithm does not accept.
func (c *Codec) CheckOptions(opts *options.Options) error {
	level, status := options.Int(opts, c.key(codecLevel))
	if status != options.KeySet {
		return nil
	}
	_, err := c.build(level)

	return err
}

func (c *Codec) build(level int64) (compress.Codec, error) {
	if level < 0 || level > 22 {
		return nil, errs.New(errs.CodeGeneric, errs.ErrInvalidOption, "%s out of range: %d", c.key(codecLevel), level)
	}
	codec, err := compress.New(c.alg, int(level))
	if err != nil {
		return nil, errs.New(errs.CodeGeneric, errs.ErrInvalidOption, "%s: %v", c.key(codecLevel), err)
	}

	return codec, nil
}

// SetOptions applies the level and shuffle keys. An invalid level leaves the
// current codec in place.
func (c *Codec) SetOptions(opts *options.Options) error {
	if level, status := options.Int(opts, c.key(codecLevel)); status == options.KeySet {
		codec, err := c.build(level)
		if err != nil {
			return err
		}
		c.codec = codec
		c.level = int32(level)
		if level == 0 {
			c.level = int32(c.alg.DefaultLevel())
		}
	}
	if shuffle, status := options.Get[bool](opts, c.key(codecShuffle)); status == options.KeySet {
		c.shuffle = shuffle
	}

	return nil
}

func (c *Codec) Configuration() *options.Options {
	cfg := options.New()
	options.Put(cfg, options.KeyThreadSafe, int32(options.ThreadSafetySerialized))
	options.Put(cfg, options.KeyStability, options.StabilityStable)
	options.Put(cfg, c.key("lossless"), true)

	return cfg
}

func (c *Codec) Documentation() *options.Options {
	docs := options.New()
	options.Put(docs, options.KeyDescription, "lossless "+c.Prefix()+" compression of the raw payload")
	options.Put(docs, c.key(codecLevel), "compression level, 0 selects the default")
	options.Put(docs, c.key(codecShuffle), "group the bytes of each element before compressing")
	options.Put(docs, c.key(codecCompressedSize), "size in bytes of the last compressed payload")
	options.Put(docs, c.key(codecUncompressedSize), "size in bytes of the last uncompressed payload")
	options.Put(docs, c.key("lossless"), "whether decompression restores the input exactly")

	return docs
}

func (c *Codec) Compress(in, out *data.Data) error {
	payload := in.Bytes()

	if width := in.DType().Size(); c.shuffle && width > 1 {
		scratch := pool.GetScratch()
		defer pool.PutScratch(scratch)

		scratch.Resize(len(payload))
		compress.Shuffle(scratch.Bytes(), payload, width)
		payload = scratch.Bytes()
	}

	compressed, err := c.codec.Compress(payload)
	if err != nil {
		return errs.New(errs.CodeGeneric, err, "%s compress: %v", c.Prefix(), err)
	}
	if err := out.SetBytes(data.Byte, compressed); err != nil {
		return err
	}

	c.record(len(in.Bytes()), len(compressed))

	return nil
}

func (c *Codec) Decompress(in, out *data.Data) error {
	restored, err := c.codec.Decompress(in.Bytes())
	if err != nil {
		return errs.New(errs.CodeGeneric, errs.ErrCorrupted, "%s decompress: %v", c.Prefix(), err)
	}

	dtype := out.DType()
	if dtype.Size() == 0 {
		dtype = data.Byte
	}
	if width := dtype.Size(); c.shuffle && width > 1 {
		unshuffled := make([]byte, len(restored))
		compress.Unshuffle(unshuffled, restored, width)
		restored = unshuffled
	}
	if err := out.SetBytes(dtype, restored, out.Dims()...); err != nil {
		return err
	}

	c.record(len(restored), len(in.Bytes()))

	return nil
}

func (c *Codec) record(uncompressed, compressed int) {
	c.stats = compress.Stats{OriginalSize: int64(uncompressed), CompressedSize: int64(compressed)}
	c.measured = true
}

// Results reports the sizes of the last compress or decompress call.
func (c *Codec) Results() *options.Options {
	results := options.New()
	if !c.measured {
		options.PutUnset(results, c.key(codecCompressedSize), options.TypeUint64)
		options.PutUnset(results, c.key(codecUncompressedSize), options.TypeUint64)

		return results
	}
	options.Put(results, c.key(codecCompressedSize), uint64(c.stats.CompressedSize))
	options.Put(results, c.key(codecUncompressedSize), uint64(c.stats.OriginalSize))

	return results
}

func (c *Codec) Clone() Impl {
	cloned := *c

	return &cloned
}
