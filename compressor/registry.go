package compressor

import (
	"github.com/arloliu/pressio/compress"
	"github.com/arloliu/pressio/registry"
)

// Factory creates a fresh compressor implementation.
type Factory func() Impl

var plugins = registry.New[Impl]("compressor")

// Register makes a compressor available under name. It is meant to be called
// from init functions.
func Register(name string, factory Factory) {
	plugins.Register(name, registry.Factory[Impl](factory))
}

// Build creates the compressor registered as name and wraps it in a Plugin.
//
// Parameters:
//   - name: registry name, equal to the compressor's prefix for built-ins
//   - opts: plugin options such as WithLogger or WithMetricsName
//
// Returns:
//   - *Plugin: the plugin with a noop collector unless opts attach another
//   - error: ErrUnknownPlugin if name is not registered, or the first
//     failing option
func Build(name string, opts ...Option) (*Plugin, error) {
	impl, err := plugins.Build(name)
	if err != nil {
		return nil, err
	}

	return New(impl, opts...)
}

// Names returns the registered compressor names in sorted order.
func Names() []string {
	return plugins.Names()
}

// Supported reports whether a compressor is registered as name.
func Supported(name string) bool {
	return plugins.Has(name)
}

func init() {
	Register(NoopPrefix, func() Impl { return NewNoop() })
	for _, alg := range compress.Algorithms {
		if alg == compress.None {
			continue
		}
		Register(alg.String(), func() Impl { return MustNewCodec(alg) })
	}
}
