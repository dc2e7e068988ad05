package compressor

import (
	"github.com/arloliu/pressio/compress"
	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/options"
)

// NoopPrefix is the prefix and registry name of the noop compressor.
const NoopPrefix = "noop"

// Noop copies its input to its output unchanged, keeping dtype and dims.
type Noop struct {
	codec compress.NoOpCodec
}

var _ Impl = (*Noop)(nil)

// NewNoop creates a noop compressor.
func NewNoop() *Noop {
	return &Noop{codec: compress.NewNoOpCodec()}
}

func (n *Noop) Prefix() string {
	return NoopPrefix
}

func (n *Noop) Version() Version {
	return Version{Major: 1}
}

func (n *Noop) Options() *options.Options {
	return options.New()
}

func (n *Noop) SetOptions(*options.Options) error {
	return nil
}

func (n *Noop) Configuration() *options.Options {
	cfg := options.New()
	options.Put(cfg, options.KeyThreadSafe, int32(options.ThreadSafetyMultiple))
	options.Put(cfg, options.KeyStability, options.StabilityStable)

	return cfg
}

func (n *Noop) Documentation() *options.Options {
	docs := options.New()
	options.Put(docs, options.KeyDescription, "copies the input to the output unchanged")

	return docs
}

func (n *Noop) Compress(in, out *data.Data) error {
	return n.copyInto(in, out)
}

func (n *Noop) Decompress(in, out *data.Data) error {
	return n.copyInto(in, out)
}

func (n *Noop) copyInto(in, out *data.Data) error {
	payload, err := n.codec.Compress(in.Bytes())
	if err != nil {
		return err
	}

	return out.SetBytes(in.DType(), payload, in.Dims()...)
}

func (n *Noop) Clone() Impl {
	return NewNoop()
}
