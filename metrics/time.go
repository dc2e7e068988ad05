package metrics

import (
	"time"

	"github.com/arloliu/pressio/internal/clock"
	"github.com/arloliu/pressio/internal/funcopt"
	"github.com/arloliu/pressio/options"
)

// TimePrefix is the registry name of the time collector.
const TimePrefix = "time"

// timedEvents are the events the time collector reports on.
var timedEvents = []Event{
	EventCheckOptions,
	EventSetOptions,
	EventGetOptions,
	EventCompress,
	EventDecompress,
	EventCompressMany,
	EventDecompressMany,
}

type timeRange struct {
	begin time.Time
	end   time.Time
	ended bool
}

// Time records the wall-clock duration of each operation.
//
// Results hold one time.Duration per operation under "time:<event>". An
// operation that never completed is reported as a typed but unset entry, so
// "took zero time" and "never ran" can be told apart.
type Time struct {
	clock  clock.Clock
	ranges map[Event]*timeRange
}

var _ Impl = (*Time)(nil)

// TimeOption configures a Time collector.
type TimeOption = funcopt.Option[*Time]

// WithClock sets the time source. The default is clock.Real().
func WithClock(c clock.Clock) TimeOption {
	return funcopt.NoError(func(t *Time) {
		t.clock = c
	})
}

// NewTime creates a time collector.
func NewTime(opts ...TimeOption) *Time {
	t := &Time{
		clock:  clock.Real(),
		ranges: make(map[Event]*timeRange, len(timedEvents)),
	}
	// NoError options cannot fail
	_ = funcopt.Apply(t, opts...)

	return t
}

func (t *Time) Prefix() string { return TimePrefix }

// Begin starts a new measurement for ev, discarding the previous one.
func (t *Time) Begin(ev Event, _ *Call) error {
	t.ranges[ev] = &timeRange{begin: t.clock.Now()}
	return nil
}

// End completes the measurement for ev.
func (t *Time) End(ev Event, _ *Call, _ error) error {
	r, ok := t.ranges[ev]
	if !ok {
		return nil
	}
	r.end = t.clock.Now()
	r.ended = true

	return nil
}

// Elapsed returns the last measured duration of ev and whether ev has run.
func (t *Time) Elapsed(ev Event) (time.Duration, bool) {
	r, ok := t.ranges[ev]
	if !ok || !r.ended {
		return 0, false
	}

	return r.end.Sub(r.begin), true
}

func (t *Time) Results(*options.Options) *options.Options {
	results := options.New()
	for _, ev := range timedEvents {
		key := options.Scoped(TimePrefix, ev.String())
		if elapsed, ok := t.Elapsed(ev); ok {
			options.Put(results, key, elapsed)
		} else {
			options.PutUnset(results, key, options.TypeDuration)
		}
	}

	return results
}

func (t *Time) Clone() Impl {
	ranges := make(map[Event]*timeRange, len(t.ranges))
	for ev, r := range t.ranges {
		copied := *r
		ranges[ev] = &copied
	}

	return &Time{clock: t.clock, ranges: ranges}
}

func (t *Time) Documentation() *options.Options {
	docs := options.New()
	options.Put(docs, options.KeyDescription, "records time used in each operation")
	for _, ev := range timedEvents {
		options.Put(docs, options.Scoped(TimePrefix, ev.String()), "time in "+ev.String())
	}

	return docs
}
