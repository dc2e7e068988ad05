package metrics

import (
	"bytes"

	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/errs"
	"github.com/arloliu/pressio/internal/hash"
	"github.com/arloliu/pressio/options"
)

// ChecksumPrefix is the registry name of the checksum collector.
const ChecksumPrefix = "checksum"

// Checksum keys.
const (
	ChecksumKeyAlgorithm    = ChecksumPrefix + ":algorithm"
	ChecksumKeyInput        = ChecksumPrefix + ":input"
	ChecksumKeyDecompressed = ChecksumPrefix + ":decompressed"
	ChecksumKeyMatch        = ChecksumPrefix + ":match"
)

// Checksum digests the payload handed to compression and the payload
// produced by decompression, so a round trip can be verified without keeping
// the original buffer around.
type Checksum struct {
	alg          hash.Algorithm
	input        string
	decompressed string
}

var _ Impl = (*Checksum)(nil)

// NewChecksum creates a checksum collector using xxhash64.
func NewChecksum() *Checksum {
	return &Checksum{alg: hash.XXHash64}
}

func (c *Checksum) Prefix() string { return ChecksumPrefix }

func (c *Checksum) Begin(ev Event, call *Call) error {
	switch ev {
	case EventCompress, EventCompressMany:
		c.input = c.digest(call.Inputs)
	}

	return nil
}

func (c *Checksum) End(ev Event, call *Call, result error) error {
	if result != nil {
		return nil
	}

	switch ev {
	case EventDecompress, EventDecompressMany:
		c.decompressed = c.digest(call.Outputs)
	}

	return nil
}

func (c *Checksum) digest(buffers []*data.Data) string {
	if len(buffers) == 1 && buffers[0] != nil {
		return hash.Sum(c.alg, buffers[0].Bytes())
	}

	var payload bytes.Buffer
	for _, b := range buffers {
		if b != nil {
			payload.Write(b.Bytes())
		}
	}

	return hash.Sum(c.alg, payload.Bytes())
}

func (c *Checksum) Results(*options.Options) *options.Options {
	results := options.New()
	putDigest(results, ChecksumKeyInput, c.input)
	putDigest(results, ChecksumKeyDecompressed, c.decompressed)
	if c.input != "" && c.decompressed != "" {
		options.Put(results, ChecksumKeyMatch, c.input == c.decompressed)
	} else {
		options.PutUnset(results, ChecksumKeyMatch, options.TypeBool)
	}

	return results
}

func putDigest(results *options.Options, key, digest string) {
	if digest == "" {
		options.PutUnset(results, key, options.TypeString)
		return
	}
	options.Put(results, key, digest)
}

func (c *Checksum) Clone() Impl {
	copied := *c
	return &copied
}

func (c *Checksum) Options() *options.Options {
	opts := options.New()
	options.Put(opts, ChecksumKeyAlgorithm, c.alg.String())

	return opts
}

func (c *Checksum) SetOptions(opts *options.Options) error {
	name, status := options.Get[string](opts, ChecksumKeyAlgorithm)
	if status != options.KeySet {
		return nil
	}

	alg, err := hash.ParseAlgorithm(name)
	if err != nil {
		return errs.New(errs.CodeGeneric, errs.ErrInvalidOption, "%s: %v", ChecksumKeyAlgorithm, err)
	}
	if alg != c.alg {
		c.alg = alg
		c.input, c.decompressed = "", ""
	}

	return nil
}

func (c *Checksum) Documentation() *options.Options {
	docs := options.New()
	options.Put(docs, options.KeyDescription, "digests compression input and decompression output")
	options.Put(docs, ChecksumKeyAlgorithm, "digest algorithm, xxhash64 or blake3")
	options.Put(docs, ChecksumKeyInput, "digest of the last compression input")
	options.Put(docs, ChecksumKeyDecompressed, "digest of the last decompression output")
	options.Put(docs, ChecksumKeyMatch, "whether the two digests are equal")

	return docs
}
