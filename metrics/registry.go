package metrics

import "github.com/arloliu/pressio/registry"

// Factory creates a fresh collector.
type Factory func() Impl

var plugins = registry.New[Impl]("metrics")

// Register makes a collector available under name. It is meant to be called
// from init functions.
func Register(name string, factory Factory) {
	plugins.Register(name, registry.Factory[Impl](factory))
}

// Build creates the collector registered as name.
//
// Returns:
//   - *Plugin: the wrapped collector
//   - error: ErrUnknownPlugin if name is not registered
func Build(name string) (*Plugin, error) {
	impl, err := plugins.Build(name)
	if err != nil {
		return nil, err
	}

	return NewPlugin(impl), nil
}

// MustBuild is like Build but panics on an unknown name. It is intended for
// built-in collectors that are always registered.
func MustBuild(name string) *Plugin {
	p, err := Build(name)
	if err != nil {
		panic(err)
	}

	return p
}

// Names returns the registered collector names in sorted order.
func Names() []string {
	return plugins.Names()
}

// Supported reports whether a collector is registered as name.
func Supported(name string) bool {
	return plugins.Has(name)
}

func init() {
	Register(NoopPrefix, func() Impl { return Noop{} })
	Register(TimePrefix, func() Impl { return NewTime() })
	Register(HistorianPrefix, func() Impl { return NewHistorian() })
	Register(SizePrefix, func() Impl { return NewSize() })
	Register(ChecksumPrefix, func() Impl { return NewChecksum() })
	Register(CompositePrefix, func() Impl { return NewComposite() })
}
