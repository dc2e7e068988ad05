// Package funcopt implements generic functional options for constructors.
//
// A constructor declares its option type as an alias of Option[*Config] and
// exposes WithXxx helpers built from New or NoError:
//
//	type Option = funcopt.Option[*settings]
//
//	func WithLogger(logger *slog.Logger) Option {
//	    return funcopt.NoError(func(s *settings) { s.logger = logger })
//	}
package funcopt

// Option configures a target of type T.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a function to Option.
type Func[T any] struct {
	fn func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.fn(target)
}

// New creates an option that may reject its input.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{fn: fn}
}

// NoError creates an option that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		fn: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts to target in order, stopping at the first error.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
