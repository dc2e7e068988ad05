// Package parallel provides a compressor that spreads many-buffer calls over
// a pool of goroutines.
//
// The dispatcher partitions the buffers of CompressMany and DecompressMany
// into independent groups (see package subgroup), clones its template
// compressor once per group and runs the template's many-buffer routine on
// each group. Groups are pulled dynamically by nthreads workers, so a slow
// group does not hold back a statically assigned share of the work.
//
// The dispatcher registers itself in the compressor registry:
//
//	p, err := compressor.Build(parallel.Prefix)
//	if err != nil {
//	    return err
//	}
//	opts := options.New()
//	options.Put(opts, parallel.KeyCompressor, "zstd")
//	options.Put(opts, parallel.KeyNThreads, uint32(8))
//	if err := p.SetOptions(opts); err != nil {
//	    return err
//	}
//	err = p.CompressMany(inputs, outputs)
//
// Metrics collected by the per-group clones are not merged back. The
// template's results are the dispatcher's built-in results, merged with the
// attached collector's like those of any other compressor.
package parallel

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/arloliu/pressio/compressor"
	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/errs"
	"github.com/arloliu/pressio/internal/funcopt"
	"github.com/arloliu/pressio/options"
	"github.com/arloliu/pressio/subgroup"
)

// Prefix is the option key prefix and registry name of the dispatcher.
const Prefix = "many_independent_threaded"

// Option keys.
const (
	KeyCompressor = Prefix + ":compressor"
	KeyNThreads   = Prefix + ":nthreads"
)

const defaultTemplate = compressor.NoopPrefix

// Dispatcher runs the template compressor on independent buffer groups in
// parallel.
type Dispatcher struct {
	template   *compressor.Plugin
	templateID string
	nthreads   uint32
	groups     *subgroup.Manager
	name       string
	logger     *slog.Logger
}

var (
	_ compressor.Impl            = (*Dispatcher)(nil)
	_ compressor.ManyCompressor  = (*Dispatcher)(nil)
	_ compressor.ResultsReporter = (*Dispatcher)(nil)
	_ compressor.Namer           = (*Dispatcher)(nil)
	_ compressor.OptionChecker   = (*Dispatcher)(nil)
)

// Option configures a Dispatcher at construction.
type Option = funcopt.Option[*Dispatcher]

// WithLogger sets the logger for dispatch events. Templates built by name
// inherit it.
func WithLogger(logger *slog.Logger) Option {
	return funcopt.NoError(func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	})
}

// WithTemplate sets the compressor cloned for every group.
func WithTemplate(template *compressor.Plugin) Option {
	return funcopt.New(func(d *Dispatcher) error {
		if template == nil {
			return errs.New(errs.CodeGeneric, errs.ErrInvalidOption, "%s: nil template", KeyCompressor)
		}
		d.setTemplate(template)

		return nil
	})
}

// WithThreads sets the number of worker goroutines.
func WithThreads(n uint32) Option {
	return funcopt.New(func(d *Dispatcher) error {
		if n < 1 {
			return errs.New(errs.CodeGeneric, errs.ErrInvalidThreadCount, "invalid thread count: %d", n)
		}
		d.nthreads = n

		return nil
	})
}

// New creates a Dispatcher with one thread and a noop template.
//
// Returns:
//   - *Dispatcher: the dispatcher
//   - error: the first failing option
func New(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		nthreads: 1,
		groups:   subgroup.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := funcopt.Apply(d, opts...); err != nil {
		return nil, err
	}
	if d.template == nil {
		template, err := compressor.Build(defaultTemplate, compressor.WithLogger(d.logger))
		if err != nil {
			return nil, err
		}
		d.setTemplate(template)
	}

	return d, nil
}

func (d *Dispatcher) setTemplate(template *compressor.Plugin) {
	d.template = template
	d.templateID = template.Prefix()
	if d.name != "" {
		template.SetName(d.templateName())
	}
}

func (d *Dispatcher) templateName() string {
	return d.name + "/" + d.template.Prefix()
}

// Template returns the compressor cloned for every group.
func (d *Dispatcher) Template() *compressor.Plugin {
	return d.template
}

// Threads returns the configured number of workers.
func (d *Dispatcher) Threads() uint32 {
	return d.nthreads
}

func (d *Dispatcher) Prefix() string {
	return Prefix
}

func (d *Dispatcher) Version() compressor.Version {
	return compressor.Version{Patch: 1}
}

// SetName names the template "<name>/<template prefix>" and the subgroup
// manager name.
func (d *Dispatcher) SetName(name string) {
	d.name = name
	d.template.SetName(d.templateName())
	d.groups.SetName(name)
}

// Options reports the template id and its options, the subgroup assignment
// and the thread count.
func (d *Dispatcher) Options() *options.Options {
	opts := options.New()
	options.Put(opts, KeyCompressor, d.templateID)
	opts.CopyFrom(d.template.Options())
	opts.CopyFrom(d.groups.Options())
	options.Put(opts, KeyNThreads, d.nthreads)

	return opts
}

// SetOptions switches the template when KeyCompressor names another
// compressor, forwards opts to the template and the subgroup manager, then
// applies KeyNThreads. A thread count below one is rejected and the previous
// count is kept.
func (d *Dispatcher) SetOptions(opts *options.Options) error {
	if id, status := options.Get[string](opts, KeyCompressor); status == options.KeySet && id != d.templateID {
		template, err := compressor.Build(id, compressor.WithLogger(d.logger))
		if err != nil {
			return err
		}
		d.setTemplate(template)
	}
	if err := d.template.SetOptions(opts); err != nil {
		return err
	}
	if err := d.groups.SetOptions(opts); err != nil {
		return err
	}

	if n, status := options.Int(opts, KeyNThreads); status == options.KeySet {
		if n < 1 || n > int64(^uint32(0)) {
			return errs.New(errs.CodeGeneric, errs.ErrInvalidThreadCount, "invalid thread count: %d", n)
		}
		d.nthreads = uint32(n)
	}

	return nil
}

// CheckOptions rejects a thread count below one and lets the template check
// its own keys unless opts switch to another template.
func (d *Dispatcher) CheckOptions(opts *options.Options) error {
	if n, status := options.Int(opts, KeyNThreads); status == options.KeySet && (n < 1 || n > int64(^uint32(0))) {
		return errs.New(errs.CodeGeneric, errs.ErrInvalidThreadCount, "invalid thread count: %d", n)
	}
	if id, status := options.Get[string](opts, KeyCompressor); status == options.KeySet && id != d.templateID {
		if !compressor.Supported(id) {
			return errs.New(errs.CodeGeneric, errs.ErrUnknownPlugin, "unknown compressor plugin: %q", id)
		}

		return nil
	}

	return d.template.CheckOptions(opts)
}

// Configuration merges the subgroup and template configuration. The
// dispatcher reports itself as multi-thread safe and experimental.
func (d *Dispatcher) Configuration() *options.Options {
	cfg := options.New()
	cfg.CopyFrom(d.groups.Configuration())
	cfg.CopyFrom(d.template.Configuration())
	options.Put(cfg, options.KeyThreadSafe, int32(options.ThreadSafetyMultiple))
	options.Put(cfg, options.KeyStability, options.StabilityExperimental)

	return cfg
}

func (d *Dispatcher) Documentation() *options.Options {
	docs := options.New()
	docs.CopyFrom(d.template.Documentation())
	docs.CopyFrom(d.groups.Documentation())
	options.Put(docs, KeyCompressor, "the compressor cloned for every group")
	options.Put(docs, KeyNThreads, "number of goroutines compressing groups")
	options.Put(docs, options.KeyDescription, "compresses independent groups of buffers in parallel")

	return docs
}

func (d *Dispatcher) Compress(in, out *data.Data) error {
	return d.CompressMany([]*data.Data{in}, []*data.Data{out})
}

func (d *Dispatcher) Decompress(in, out *data.Data) error {
	return d.DecompressMany([]*data.Data{in}, []*data.Data{out})
}

func (d *Dispatcher) CompressMany(ins, outs []*data.Data) error {
	return d.dispatch("compress_many", ins, outs, (*compressor.Plugin).CompressMany)
}

func (d *Dispatcher) DecompressMany(ins, outs []*data.Data) error {
	return d.dispatch("decompress_many", ins, outs, (*compressor.Plugin).DecompressMany)
}

type action func(p *compressor.Plugin, ins, outs []*data.Data) error

// dispatch runs act on every group with at most nthreads goroutines. After
// the first failure no new group is started; groups already running finish.
// The error of the last failing group is returned.
func (d *Dispatcher) dispatch(op string, ins, outs []*data.Data, act action) error {
	if err := d.groups.NormalizeAndValidate(ins, outs); err != nil {
		return err
	}

	ids := d.groups.GroupIDs()
	if len(ids) == 0 {
		return nil
	}
	workers := min(int(d.nthreads), len(ids))

	logger := d.logger.With("run", uuid.NewString(), "op", op, "compressor", d.templateID)
	logger.Debug("dispatch started", "groups", len(ids), "workers", workers)

	var (
		cursor    atomic.Int64
		cancelled atomic.Bool
		mu        sync.Mutex
		lastErr   error
		wg        sync.WaitGroup
	)

	worker := func() {
		defer wg.Done()

		for !cancelled.Load() {
			idx := int(cursor.Add(1) - 1)
			if idx >= len(ids) {
				return
			}
			id := ids[idx]

			task := d.template.Clone()
			err := act(task, d.groups.InputGroup(ins, id), d.groups.OutputGroup(outs, id))
			if err == nil {
				continue
			}

			logger.Debug("group failed", "group", id, "error", err)
			mu.Lock()
			lastErr = err
			mu.Unlock()
			cancelled.Store(true)
		}
	}

	wg.Add(workers)
	for range workers {
		go worker()
	}
	wg.Wait()

	if lastErr != nil {
		return lastErr
	}
	logger.Debug("dispatch finished")

	return nil
}

// Results reports the template's metrics results as the dispatcher's
// built-in results.
func (d *Dispatcher) Results() *options.Options {
	return d.template.MetricsResults()
}

func (d *Dispatcher) Clone() compressor.Impl {
	return &Dispatcher{
		template:   d.template.Clone(),
		templateID: d.templateID,
		nthreads:   d.nthreads,
		groups:     d.groups.Clone(),
		name:       d.name,
		logger:     d.logger,
	}
}

func init() {
	compressor.Register(Prefix, func() compressor.Impl {
		d, err := New()
		if err != nil {
			panic(err)
		}

		return d
	})
}
