package compressor

import (
	"fmt"

	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/options"
)

// Version is a semantic version of a compressor implementation.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Impl is the contract a compressor implementation satisfies. Plugin wraps an
// Impl and adds option validation, metrics hooks and error state, so
// implementations only deal with their own keys and their own work.
type Impl interface {
	// Prefix returns the option key prefix, also the registry name.
	Prefix() string
	// Version returns the implementation version.
	Version() Version
	// Options returns the implementation's options. Every key it accepts in
	// SetOptions must be present, typed, even when unset.
	Options() *options.Options
	// SetOptions applies the keys it knows from opts and ignores the rest.
	SetOptions(opts *options.Options) error
	// Configuration returns static properties such as thread safety.
	Configuration() *options.Options
	// Documentation describes the implementation and its keys.
	Documentation() *options.Options
	// Compress compresses in into out.
	Compress(in, out *data.Data) error
	// Decompress restores in into out. out carries the expected dtype and
	// dims and may have no payload yet.
	Decompress(in, out *data.Data) error
	// Clone returns an independent copy with the same configuration.
	Clone() Impl
}

// OptionChecker is implemented by compressors with semantic option checks
// beyond unknown-key rejection.
type OptionChecker interface {
	CheckOptions(opts *options.Options) error
}

// ManyCompressor is implemented by compressors that process several buffers
// in one call. Without it only one input and one output are accepted.
type ManyCompressor interface {
	CompressMany(ins, outs []*data.Data) error
	DecompressMany(ins, outs []*data.Data) error
}

// ResultsReporter is implemented by compressors that report built-in results.
type ResultsReporter interface {
	Results() *options.Options
}

// Namer is implemented by compressors that propagate names to nested plugins.
type Namer interface {
	SetName(name string)
}
