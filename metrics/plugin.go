// Package metrics implements the collectors that observe compressor plugins.
//
// Every compressor operation is bracketed by a matched pair of hooks on the
// attached collector: BeginCompress before the work and EndCompress after it,
// regardless of the outcome. A collector is written as an Impl with two
// generic hooks and is wrapped in a Plugin, which provides the typed BeginX /
// EndX methods, error state, naming and option plumbing.
//
// Collectors compose: a collector may hold other collectors and drive them
// from its own hooks (see the historian and composite collectors).
//
// # Built-in Collectors
//
//   - noop: records nothing
//   - time: wall-clock duration of each operation
//   - historian: snapshots a nested collector after selected events
//   - size: input and output sizes and the compression ratio
//   - checksum: digests of the compressed input and the decompressed output
//   - composite: drives several collectors at once
package metrics

import (
	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/errs"
	"github.com/arloliu/pressio/options"
)

// Impl is the contract a collector implements.
type Impl interface {
	// Prefix returns the key prefix of the collector, also its registry name.
	Prefix() string
	// Begin is called immediately before the operation ev.
	Begin(ev Event, call *Call) error
	// End is called immediately after the operation ev with its result.
	End(ev Event, call *Call, result error) error
	// Results returns a fresh bag with the collector's measurements. nested
	// holds the compressor's own results and may be nil.
	Results(nested *options.Options) *options.Options
	// Clone returns an independent copy including accumulated state.
	Clone() Impl
}

// Configurable is implemented by collectors that accept options.
type Configurable interface {
	Options() *options.Options
	SetOptions(opts *options.Options) error
}

// Configurer is implemented by collectors that report static configuration.
type Configurer interface {
	Configuration() *options.Options
}

// Documenter is implemented by collectors that document their keys.
type Documenter interface {
	Documentation() *options.Options
}

// Namer is implemented by collectors that propagate names to nested collectors.
type Namer interface {
	SetName(name string)
}

// Plugin wraps an Impl with the typed hook methods used by compressors.
//
// A Plugin is attached to at most one compressor at a time and is not safe
// for concurrent use; the parallel dispatcher clones it per task.
type Plugin struct {
	impl  Impl
	name  string
	state errs.State
}

// NewPlugin wraps impl.
func NewPlugin(impl Impl) *Plugin {
	return &Plugin{impl: impl}
}

// Impl returns the wrapped collector.
func (p *Plugin) Impl() Impl {
	return p.impl
}

// Prefix returns the collector's key prefix.
func (p *Plugin) Prefix() string {
	return p.impl.Prefix()
}

// Name returns the instance name, "" when unnamed.
func (p *Plugin) Name() string {
	return p.name
}

// SetName names this instance and forwards the name to nested collectors.
func (p *Plugin) SetName(name string) {
	p.name = name
	if n, ok := p.impl.(Namer); ok {
		n.SetName(name)
	}
}

// ErrorCode returns the code of the last failed hook, 0 on success.
func (p *Plugin) ErrorCode() int {
	return p.state.Code()
}

// ErrorMsg returns the message of the last failed hook.
func (p *Plugin) ErrorMsg() string {
	return p.state.Msg()
}

// Begin runs the begin hook for ev.
func (p *Plugin) Begin(ev Event, call *Call) error {
	p.state.Clear()

	return p.state.Set(p.impl.Begin(ev, call))
}

// End runs the end hook for ev.
func (p *Plugin) End(ev Event, call *Call, result error) error {
	p.state.Clear()

	return p.state.Set(p.impl.End(ev, call, result))
}

// BeginCheckOptions and the other BeginX / EndX methods are typed shorthands
// for Begin and End.
func (p *Plugin) BeginCheckOptions(opts *options.Options) error {
	return p.Begin(EventCheckOptions, &Call{Options: opts})
}

func (p *Plugin) EndCheckOptions(opts *options.Options, result error) error {
	return p.End(EventCheckOptions, &Call{Options: opts}, result)
}

func (p *Plugin) BeginSetOptions(opts *options.Options) error {
	return p.Begin(EventSetOptions, &Call{Options: opts})
}

func (p *Plugin) EndSetOptions(opts *options.Options, result error) error {
	return p.End(EventSetOptions, &Call{Options: opts}, result)
}

func (p *Plugin) BeginGetOptions() error {
	return p.Begin(EventGetOptions, &Call{})
}

func (p *Plugin) EndGetOptions(opts *options.Options) error {
	return p.End(EventGetOptions, &Call{Options: opts}, nil)
}

func (p *Plugin) BeginGetConfiguration() error {
	return p.Begin(EventGetConfiguration, &Call{})
}

func (p *Plugin) EndGetConfiguration(cfg *options.Options) error {
	return p.End(EventGetConfiguration, &Call{Options: cfg}, nil)
}

func (p *Plugin) BeginGetDocumentation() error {
	return p.Begin(EventGetDocumentation, &Call{})
}

func (p *Plugin) EndGetDocumentation(docs *options.Options) error {
	return p.End(EventGetDocumentation, &Call{Options: docs}, nil)
}

func (p *Plugin) BeginCompress(in, out *data.Data) error {
	return p.Begin(EventCompress, single(in, out))
}

func (p *Plugin) EndCompress(in, out *data.Data, result error) error {
	return p.End(EventCompress, single(in, out), result)
}

func (p *Plugin) BeginDecompress(in, out *data.Data) error {
	return p.Begin(EventDecompress, single(in, out))
}

func (p *Plugin) EndDecompress(in, out *data.Data, result error) error {
	return p.End(EventDecompress, single(in, out), result)
}

func (p *Plugin) BeginCompressMany(ins, outs []*data.Data) error {
	return p.Begin(EventCompressMany, &Call{Inputs: ins, Outputs: outs})
}

func (p *Plugin) EndCompressMany(ins, outs []*data.Data, result error) error {
	return p.End(EventCompressMany, &Call{Inputs: ins, Outputs: outs}, result)
}

func (p *Plugin) BeginDecompressMany(ins, outs []*data.Data) error {
	return p.Begin(EventDecompressMany, &Call{Inputs: ins, Outputs: outs})
}

func (p *Plugin) EndDecompressMany(ins, outs []*data.Data, result error) error {
	return p.End(EventDecompressMany, &Call{Inputs: ins, Outputs: outs}, result)
}

func single(in, out *data.Data) *Call {
	return &Call{Inputs: []*data.Data{in}, Outputs: []*data.Data{out}}
}

// Results returns the collector's measurements. nested holds the host
// compressor's built-in results and may be nil.
func (p *Plugin) Results(nested *options.Options) *options.Options {
	results := p.impl.Results(nested)
	if results == nil {
		return options.New()
	}

	return results
}

// Options returns the collector's options, empty when it has none.
func (p *Plugin) Options() *options.Options {
	if c, ok := p.impl.(Configurable); ok {
		return c.Options()
	}

	return options.New()
}

// SetOptions forwards opts to the collector. Keys the collector does not
// know are ignored.
func (p *Plugin) SetOptions(opts *options.Options) error {
	p.state.Clear()
	if c, ok := p.impl.(Configurable); ok {
		return p.state.Set(c.SetOptions(opts))
	}

	return nil
}

// Configuration returns the collector's static configuration. Thread safety
// defaults to ThreadSafetyMultiple and stability to StabilityStable.
func (p *Plugin) Configuration() *options.Options {
	cfg := options.New()
	options.Put(cfg, options.KeyThreadSafe, int32(options.ThreadSafetyMultiple))
	options.Put(cfg, options.KeyStability, options.StabilityStable)
	if c, ok := p.impl.(Configurer); ok {
		cfg.CopyFrom(c.Configuration())
	}

	return cfg
}

// Documentation describes the collector and its keys.
func (p *Plugin) Documentation() *options.Options {
	docs := options.New()
	if d, ok := p.impl.(Documenter); ok {
		docs.CopyFrom(d.Documentation())
	}

	return docs
}

// Clone returns an independent copy with fresh error state.
func (p *Plugin) Clone() *Plugin {
	return &Plugin{impl: p.impl.Clone(), name: p.name}
}
