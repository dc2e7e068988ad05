// Package compressor defines the contract every pressio compressor
// satisfies and the built-in compressors.
//
// A compressor is written as an Impl and wrapped in a Plugin. The Plugin
// owns everything that is common to all compressors:
//
//   - the error state, cleared at the start of every operation
//   - unknown option rejection in CheckOptions
//   - the attached metrics collector, driven with a begin/end hook pair
//     around every operation
//   - the metrics:errors_fatal and metrics:copy_compressor_results knobs
//   - the single-buffer fallback for CompressMany and DecompressMany
//
// Typical use:
//
//	p, err := compressor.Build("zstd")
//	if err != nil {
//	    return err
//	}
//	opts := options.New()
//	options.Put(opts, "zstd:level", int32(9))
//	options.Put(opts, "zstd:metric", "time")
//	if err := p.SetOptions(opts); err != nil {
//	    return err
//	}
//	if err := p.Compress(input, compressed); err != nil {
//	    return err
//	}
//	results := p.MetricsResults()
package compressor

import (
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/errs"
	"github.com/arloliu/pressio/internal/funcopt"
	"github.com/arloliu/pressio/metrics"
	"github.com/arloliu/pressio/options"
)

// Plugin-wide option keys.
const (
	KeyErrorsFatal = "metrics:errors_fatal"
	KeyCopyResults = "metrics:copy_compressor_results"
	// metricSuffix forms the "<prefix>:metric" key naming the attached collector.
	metricSuffix = "metric"
)

// Plugin wraps a compressor implementation.
//
// A Plugin is not safe for concurrent use. Use Clone to obtain independent
// instances for concurrent work.
type Plugin struct {
	impl        Impl
	name        string
	metrics     *metrics.Plugin
	metricsID   string
	errorsFatal bool
	copyResults bool
	state       errs.State
	logger      *slog.Logger
}

// Option configures a Plugin at construction.
type Option = funcopt.Option[*Plugin]

// WithLogger sets the logger used to report ignored collector failures.
func WithLogger(logger *slog.Logger) Option {
	return funcopt.NoError(func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	})
}

// WithMetrics attaches a collector, see SetMetrics.
func WithMetrics(m *metrics.Plugin) Option {
	return funcopt.NoError(func(p *Plugin) {
		p.SetMetrics(m)
	})
}

// WithMetricsName attaches a collector built from the metrics registry.
func WithMetricsName(name string) Option {
	return funcopt.New(func(p *Plugin) error {
		m, err := metrics.Build(name)
		if err != nil {
			return err
		}
		p.SetMetrics(m)

		return nil
	})
}

// WithName names the plugin, see SetName.
func WithName(name string) Option {
	return funcopt.NoError(func(p *Plugin) {
		p.SetName(name)
	})
}

// New wraps impl with a noop collector attached.
//
// Returns:
//   - *Plugin: the plugin
//   - error: the first failing option
func New(impl Impl, opts ...Option) (*Plugin, error) {
	p := &Plugin{
		impl:      impl,
		metrics:   metrics.NewPlugin(metrics.Noop{}),
		metricsID: metrics.NoopPrefix,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := funcopt.Apply(p, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

// Impl returns the wrapped implementation.
func (p *Plugin) Impl() Impl {
	return p.impl
}

// Prefix returns the option key prefix of the implementation.
func (p *Plugin) Prefix() string {
	return p.impl.Prefix()
}

// Version returns the implementation version.
func (p *Plugin) Version() Version {
	return p.impl.Version()
}

// Name returns the instance name, "" when unnamed.
func (p *Plugin) Name() string {
	return p.name
}

// SetName names the instance. The attached collector is renamed to
// "<name>/<collector prefix>" and the name is passed on to implementations
// that hold nested plugins.
func (p *Plugin) SetName(name string) {
	p.name = name
	p.metrics.SetName(p.collectorName())
	if n, ok := p.impl.(Namer); ok {
		n.SetName(name)
	}
}

func (p *Plugin) collectorName() string {
	if p.name == "" {
		return ""
	}

	return p.name + "/" + p.metrics.Prefix()
}

// ErrorCode returns the code of the last operation, 0 on success.
func (p *Plugin) ErrorCode() int {
	return p.state.Code()
}

// ErrorMsg returns the message of the last operation, "" on success.
func (p *Plugin) ErrorMsg() string {
	return p.state.Msg()
}

// Err returns the error of the last operation, nil on success.
func (p *Plugin) Err() error {
	return p.state.Err()
}

// Metrics returns the attached collector.
func (p *Plugin) Metrics() *metrics.Plugin {
	return p.metrics
}

// SetMetrics attaches m, transferring ownership to the plugin.
//
// A nil m detaches the current collector: the metrics id becomes empty and a
// fresh noop collector keeps the hooks total.
func (p *Plugin) SetMetrics(m *metrics.Plugin) {
	if m == nil {
		p.metrics = metrics.NewPlugin(metrics.Noop{})
		p.metricsID = ""

		return
	}

	p.metrics = m
	p.metricsID = m.Prefix()
	if p.name != "" {
		m.SetName(p.collectorName())
	}
}

// MetricsOptions returns the options of the attached collector.
func (p *Plugin) MetricsOptions() *options.Options {
	return p.metrics.Options()
}

// SetMetricsOptions forwards opts to the attached collector only.
func (p *Plugin) SetMetricsOptions(opts *options.Options) error {
	p.state.Clear()

	return p.state.Set(p.metrics.SetOptions(opts))
}

func (p *Plugin) metricsKey() string {
	return options.Scoped(p.Prefix(), metricSuffix)
}

// hookFailed logs a failed collector hook and reports whether it must abort
// the operation.
func (p *Plugin) hookFailed(ev metrics.Event, err error) bool {
	if err == nil {
		return false
	}
	if p.errorsFatal {
		return true
	}
	p.logger.Debug("metrics hook failed",
		"plugin", p.Prefix(),
		"metrics", p.metrics.Prefix(),
		"event", ev.String(),
		"error", err,
	)

	return false
}

// CheckOptions validates opts without applying them.
//
// Keys with this plugin's prefix that Options does not declare are rejected
// with ErrExtraKeys before the implementation sees them. Otherwise the
// implementation's OptionChecker, if any, decides.
func (p *Plugin) CheckOptions(opts *options.Options) error {
	p.state.Clear()
	if err := p.metrics.BeginCheckOptions(opts); p.hookFailed(metrics.EventCheckOptions, err) {
		return p.state.Set(err)
	}

	result := p.checkOptions(opts)

	if err := p.metrics.EndCheckOptions(opts, result); p.hookFailed(metrics.EventCheckOptions, err) {
		return p.state.Set(err)
	}

	return p.state.Set(result)
}

func (p *Plugin) checkOptions(opts *options.Options) error {
	declared := p.Options()

	var extra []string
	for _, key := range opts.KeysWithPrefix(p.Prefix()) {
		if !declared.Has(key) {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		slices.Sort(extra)
		return errs.New(errs.CodeGeneric, errs.ErrExtraKeys, "extra keys: %s", strings.Join(extra, " "))
	}

	if checker, ok := p.impl.(OptionChecker); ok {
		return checker.CheckOptions(opts)
	}

	return nil
}

// Options returns every key the plugin accepts: the metrics id, the two
// metrics knobs, the collector's options and the implementation's options.
func (p *Plugin) Options() *options.Options {
	err := p.metrics.BeginGetOptions()
	p.hookFailed(metrics.EventGetOptions, err)

	opts := options.New()
	options.Put(opts, p.metricsKey(), p.metricsID)
	options.Put(opts, KeyErrorsFatal, p.errorsFatal)
	options.Put(opts, KeyCopyResults, p.copyResults)
	opts.CopyFrom(p.metrics.Options())
	opts.CopyFrom(p.impl.Options())

	err = p.metrics.EndGetOptions(opts)
	p.hookFailed(metrics.EventGetOptions, err)

	return opts
}

// SetOptions applies opts.
//
// The collector's begin hook runs first; when it fails and
// metrics:errors_fatal is set the call stops there. Otherwise the metrics id
// is applied (building a new collector when it changes), opts are forwarded
// to the collector, the metrics knobs are read and the implementation applies
// its own keys. The end hook sees the result with the same fatal policy.
func (p *Plugin) SetOptions(opts *options.Options) error {
	p.state.Clear()
	if err := p.metrics.BeginSetOptions(opts); p.hookFailed(metrics.EventSetOptions, err) {
		return p.state.Set(err)
	}

	result := p.setOptions(opts)

	if err := p.metrics.EndSetOptions(opts, result); p.hookFailed(metrics.EventSetOptions, err) {
		return p.state.Set(err)
	}

	return p.state.Set(result)
}

func (p *Plugin) setOptions(opts *options.Options) error {
	if id, status := options.Get[string](opts, p.metricsKey()); status == options.KeySet && id != p.metricsID {
		m, err := metrics.Build(id)
		if err != nil {
			return err
		}
		p.SetMetrics(m)
	}
	if err := p.metrics.SetOptions(opts); err != nil {
		return err
	}

	if fatal, status := options.Get[bool](opts, KeyErrorsFatal); status == options.KeySet {
		p.errorsFatal = fatal
	}
	if copyResults, status := options.Get[bool](opts, KeyCopyResults); status == options.KeySet {
		p.copyResults = copyResults
	}

	return p.impl.SetOptions(opts)
}

// Configuration returns the implementation's static configuration merged
// with the collector's. The reported thread safety is the weaker of the two;
// stability is the compressor's.
func (p *Plugin) Configuration() *options.Options {
	err := p.metrics.BeginGetConfiguration()
	p.hookFailed(metrics.EventGetConfiguration, err)

	cfg := options.New()
	options.Put(cfg, options.KeyThreadSafe, int32(options.ThreadSafetySingle))
	options.Put(cfg, options.KeyStability, options.StabilityStable)
	cfg.CopyFrom(p.impl.Configuration())

	collector := p.metrics.Configuration()
	safety := min(options.ThreadSafetyOf(cfg), options.ThreadSafetyOf(collector))
	for key, opt := range collector.All() {
		if strings.HasPrefix(key, "pressio:") {
			continue
		}
		cfg.Set(key, opt)
	}
	options.Put(cfg, options.KeyThreadSafe, int32(safety))

	err = p.metrics.EndGetConfiguration(cfg)
	p.hookFailed(metrics.EventGetConfiguration, err)

	return cfg
}

// Documentation describes the implementation, the plugin-wide keys and the
// attached collector's keys.
func (p *Plugin) Documentation() *options.Options {
	err := p.metrics.BeginGetDocumentation()
	p.hookFailed(metrics.EventGetDocumentation, err)

	docs := options.New()
	for key, opt := range p.metrics.Documentation().All() {
		if key != options.KeyDescription {
			docs.Set(key, opt)
		}
	}
	docs.CopyFrom(p.impl.Documentation())
	options.Put(docs, options.KeyThreadSafe, "level of thread safety provided by the compressor")
	options.Put(docs, options.KeyStability, "level of stability provided by the compressor")
	options.Put(docs, p.metricsKey(), "metrics to collect when using the compressor")
	options.Put(docs, KeyErrorsFatal, "treat failures of the metrics collector as failures of the operation")
	options.Put(docs, KeyCopyResults, "include the compressor's built-in results in the metrics results")

	err = p.metrics.EndGetDocumentation(docs)
	p.hookFailed(metrics.EventGetDocumentation, err)

	return docs
}

// Compress compresses in into out.
func (p *Plugin) Compress(in, out *data.Data) error {
	p.state.Clear()
	if err := p.metrics.BeginCompress(in, out); p.hookFailed(metrics.EventCompress, err) {
		return p.state.Set(err)
	}

	result := p.impl.Compress(in, out)

	if err := p.metrics.EndCompress(in, out, result); p.hookFailed(metrics.EventCompress, err) {
		return p.state.Set(err)
	}

	return p.state.Set(result)
}

// Decompress restores in into out. out carries the expected dtype and dims.
func (p *Plugin) Decompress(in, out *data.Data) error {
	p.state.Clear()
	if err := p.metrics.BeginDecompress(in, out); p.hookFailed(metrics.EventDecompress, err) {
		return p.state.Set(err)
	}

	result := p.impl.Decompress(in, out)

	if err := p.metrics.EndDecompress(in, out, result); p.hookFailed(metrics.EventDecompress, err) {
		return p.state.Set(err)
	}

	return p.state.Set(result)
}

// CompressMany compresses several buffers in one call.
//
// Implementations without ManyCompressor accept exactly one input and one
// output and fail with ErrUnsupported otherwise.
func (p *Plugin) CompressMany(ins, outs []*data.Data) error {
	p.state.Clear()
	if err := p.metrics.BeginCompressMany(ins, outs); p.hookFailed(metrics.EventCompressMany, err) {
		return p.state.Set(err)
	}

	var result error
	if many, ok := p.impl.(ManyCompressor); ok {
		result = many.CompressMany(ins, outs)
	} else if len(ins) == 1 && len(outs) == 1 {
		result = p.impl.Compress(ins[0], outs[0])
	} else {
		result = errs.New(errs.CodeGeneric, errs.ErrUnsupported, "compress_many not supported")
	}

	if err := p.metrics.EndCompressMany(ins, outs, result); p.hookFailed(metrics.EventCompressMany, err) {
		return p.state.Set(err)
	}

	return p.state.Set(result)
}

// DecompressMany restores several buffers in one call, see CompressMany.
func (p *Plugin) DecompressMany(ins, outs []*data.Data) error {
	p.state.Clear()
	if err := p.metrics.BeginDecompressMany(ins, outs); p.hookFailed(metrics.EventDecompressMany, err) {
		return p.state.Set(err)
	}

	var result error
	if many, ok := p.impl.(ManyCompressor); ok {
		result = many.DecompressMany(ins, outs)
	} else if len(ins) == 1 && len(outs) == 1 {
		result = p.impl.Decompress(ins[0], outs[0])
	} else {
		result = errs.New(errs.CodeGeneric, errs.ErrUnsupported, "decompress_many not supported")
	}

	if err := p.metrics.EndDecompressMany(ins, outs, result); p.hookFailed(metrics.EventDecompressMany, err) {
		return p.state.Set(err)
	}

	return p.state.Set(result)
}

// MetricsResults returns the collector's results. The implementation's
// built-in results are included first when metrics:copy_compressor_results
// is set; the collector wins on key collisions.
func (p *Plugin) MetricsResults() *options.Options {
	builtIn := options.New()
	if reporter, ok := p.impl.(ResultsReporter); ok {
		builtIn.CopyFrom(reporter.Results())
	}

	results := options.New()
	if p.copyResults {
		results.CopyFrom(builtIn)
	}
	results.CopyFrom(p.metrics.Results(builtIn))

	return results
}

// Clone returns an independent copy with its own implementation state,
// collector and error state.
func (p *Plugin) Clone() *Plugin {
	return &Plugin{
		impl:        p.impl.Clone(),
		name:        p.name,
		metrics:     p.metrics.Clone(),
		metricsID:   p.metricsID,
		errorsFatal: p.errorsFatal,
		copyResults: p.copyResults,
		logger:      p.logger,
	}
}
