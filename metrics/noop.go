package metrics

import "github.com/arloliu/pressio/options"

// NoopPrefix is the registry name of the noop collector.
const NoopPrefix = "noop"

// Noop records nothing. It is attached to every compressor by default.
type Noop struct{}

var _ Impl = Noop{}

func (Noop) Prefix() string { return NoopPrefix }

func (Noop) Begin(Event, *Call) error { return nil }

func (Noop) End(Event, *Call, error) error { return nil }

func (Noop) Results(*options.Options) *options.Options { return options.New() }

func (Noop) Clone() Impl { return Noop{} }

func (Noop) Documentation() *options.Options {
	docs := options.New()
	options.Put(docs, options.KeyDescription, "records nothing")

	return docs
}
