package metrics

import (
	"strconv"

	"github.com/arloliu/pressio/errs"
	"github.com/arloliu/pressio/options"
)

// HistorianPrefix is the registry name of the historian collector.
const HistorianPrefix = "historian"

// Historian option keys.
const (
	HistorianKeyMetrics = HistorianPrefix + ":metrics"
	HistorianKeyEvents  = HistorianPrefix + ":events"
	HistorianKeyIndex   = HistorianPrefix + ":idx"
)

// Historian wraps a nested collector and snapshots its results after each
// trigger event.
//
// The snapshot taken after the k-th trigger is stored as a nested options
// bag under "<name>/<k>", where name is the instance name or "historian"
// when unnamed. Indices start at historian:idx, zero by default, and grow by
// one per snapshot.
type Historian struct {
	nested    *Plugin
	metricsID string
	events    map[Event]bool
	idx       uint64
	name      string
	snapshots *options.Options
}

var _ Impl = (*Historian)(nil)

// NewHistorian creates a historian around a noop collector with no triggers.
func NewHistorian() *Historian {
	return &Historian{
		nested:    NewPlugin(Noop{}),
		metricsID: NoopPrefix,
		events:    make(map[Event]bool),
		snapshots: options.New(),
	}
}

func (h *Historian) Prefix() string { return HistorianPrefix }

// Index returns the index the next snapshot will be stored under.
func (h *Historian) Index() uint64 {
	return h.idx
}

// Nested returns the wrapped collector.
func (h *Historian) Nested() *Plugin {
	return h.nested
}

func (h *Historian) Begin(ev Event, call *Call) error {
	return h.nested.Begin(ev, call)
}

func (h *Historian) End(ev Event, call *Call, result error) error {
	err := h.nested.End(ev, call, result)
	if h.events[ev] {
		h.record()
	}

	return err
}

func (h *Historian) record() {
	base := h.name
	if base == "" {
		base = HistorianPrefix
	}
	key := base + "/" + strconv.FormatUint(h.idx, 10)
	options.Put(h.snapshots, key, h.nested.Results(nil))
	h.idx++
}

func (h *Historian) Results(*options.Options) *options.Options {
	return h.snapshots.Clone()
}

func (h *Historian) Clone() Impl {
	events := make(map[Event]bool, len(h.events))
	for ev, on := range h.events {
		events[ev] = on
	}

	return &Historian{
		nested:    h.nested.Clone(),
		metricsID: h.metricsID,
		events:    events,
		idx:       h.idx,
		name:      h.name,
		snapshots: h.snapshots.Clone(),
	}
}

func (h *Historian) SetName(name string) {
	h.name = name
	h.nested.SetName(name)
}

func (h *Historian) eventNames() []string {
	triggers := h.Triggers()
	names := make([]string, len(triggers))
	for i, ev := range triggers {
		names[i] = ev.String()
	}

	return names
}

func (h *Historian) Options() *options.Options {
	opts := options.New()
	options.Put(opts, HistorianKeyMetrics, h.metricsID)
	options.Put(opts, HistorianKeyIndex, h.idx)
	options.Put(opts, HistorianKeyEvents, h.eventNames())
	opts.CopyFrom(h.nested.Options())

	return opts
}

// SetOptions switches the nested collector when historian:metrics names a
// different one, then forwards opts to it.
func (h *Historian) SetOptions(opts *options.Options) error {
	if id, status := options.Get[string](opts, HistorianKeyMetrics); status == options.KeySet && id != h.metricsID {
		nested, err := Build(id)
		if err != nil {
			return err
		}
		nested.SetName(h.name)
		h.nested = nested
		h.metricsID = id
	}

	if idx, status := options.Int(opts, HistorianKeyIndex); status == options.KeySet {
		if idx < 0 {
			return errs.New(errs.CodeGeneric, errs.ErrInvalidOption, "%s must not be negative, got %d", HistorianKeyIndex, idx)
		}
		h.idx = uint64(idx)
	}

	if names, status := options.Get[[]string](opts, HistorianKeyEvents); status == options.KeySet {
		events := make(map[Event]bool, len(names))
		for _, name := range names {
			ev, err := ParseEvent(name)
			if err != nil {
				return errs.New(errs.CodeGeneric, errs.ErrInvalidOption, "%s: %v", HistorianKeyEvents, err)
			}
			events[ev] = true
		}
		h.events = events
	}

	return h.nested.SetOptions(opts)
}

func (h *Historian) Configuration() *options.Options {
	cfg := options.New()
	nested := h.nested.Configuration()
	options.Put(cfg, options.KeyThreadSafe, int32(options.ThreadSafetyOf(nested)))
	options.Put(cfg, options.KeyStability, options.StabilityUnstable)
	options.Put(cfg, HistorianKeyEvents, EventNames())

	return cfg
}

func (h *Historian) Documentation() *options.Options {
	docs := h.nested.Documentation()
	options.Put(docs, options.KeyDescription, "records metrics results after designated events")
	options.Put(docs, HistorianKeyMetrics, "the collector whose results are recorded")
	options.Put(docs, HistorianKeyIndex, "the current index for this repetition")
	options.Put(docs, HistorianKeyEvents, "what events should trigger a record event")

	return docs
}

// Triggers returns the configured trigger events in declaration order.
func (h *Historian) Triggers() []Event {
	triggers := make([]Event, 0, len(h.events))
	for _, ev := range Events {
		if h.events[ev] {
			triggers = append(triggers, ev)
		}
	}

	return triggers
}
