package metrics

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/errs"
	"github.com/arloliu/pressio/internal/clock"
	"github.com/arloliu/pressio/options"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestEvent_RoundTrip(t *testing.T) {
	for _, ev := range Events {
		parsed, err := ParseEvent(ev.String())
		require.NoError(t, err)
		require.Equal(t, ev, parsed)
	}

	_, err := ParseEvent("compress_all")
	require.Error(t, err)
	require.Len(t, EventNames(), len(Events))
}

func TestRegistry_Builtins(t *testing.T) {
	for _, name := range []string{NoopPrefix, TimePrefix, HistorianPrefix, SizePrefix, ChecksumPrefix, CompositePrefix} {
		p, err := Build(name)
		require.NoError(t, err, name)
		require.Equal(t, name, p.Prefix())
		require.True(t, Supported(name))
	}

	_, err := Build("nope")
	require.ErrorIs(t, err, errs.ErrUnknownPlugin)
}

func TestTime_UnsetUntilRun(t *testing.T) {
	c := clock.Fake(epoch)
	p := NewPlugin(NewTime(WithClock(c)))

	results := p.Results(nil)
	for _, key := range []string{"time:compress", "time:decompress", "time:check_options"} {
		opt, ok := results.Lookup(key)
		require.True(t, ok, key)
		require.False(t, opt.IsSet(), "%s must be unset before the operation runs", key)
		require.Equal(t, options.TypeDuration, opt.Type())
	}

	in, out := data.FromFloat64s([]float64{1}), data.Empty(data.Byte)
	require.NoError(t, p.BeginCompress(in, out))
	c.Advance(5 * time.Millisecond)
	require.NoError(t, p.EndCompress(in, out, nil))

	results = p.Results(nil)
	elapsed, status := options.Get[time.Duration](results, "time:compress")
	require.Equal(t, options.KeySet, status)
	require.Equal(t, 5*time.Millisecond, elapsed)

	_, status = options.Get[time.Duration](results, "time:decompress")
	require.Equal(t, options.KeyExists, status, "decompress never ran")
}

func TestTime_ZeroIsNotUnset(t *testing.T) {
	c := clock.Fake(epoch)
	p := NewPlugin(NewTime(WithClock(c)))

	require.NoError(t, p.BeginDecompress(nil, nil))
	require.NoError(t, p.EndDecompress(nil, nil, nil))

	elapsed, status := options.Get[time.Duration](p.Results(nil), "time:decompress")
	require.Equal(t, options.KeySet, status)
	require.Zero(t, elapsed)
}

func TestTime_OverwritesAndClones(t *testing.T) {
	c := clock.Fake(epoch)
	c.AutoStep(time.Millisecond)
	p := NewPlugin(NewTime(WithClock(c)))

	require.NoError(t, p.BeginSetOptions(options.New()))
	require.NoError(t, p.EndSetOptions(options.New(), nil))

	clone := p.Clone()

	c.AutoStep(3 * time.Millisecond)
	require.NoError(t, p.BeginSetOptions(options.New()))
	require.NoError(t, p.EndSetOptions(options.New(), nil))

	got, _ := options.Get[time.Duration](p.Results(nil), "time:set_options")
	require.Equal(t, 3*time.Millisecond, got, "samples are overwritten per operation")

	cloned, _ := options.Get[time.Duration](clone.Results(nil), "time:set_options")
	require.Equal(t, time.Millisecond, cloned)
}

func TestHistorian_Indexing(t *testing.T) {
	c := clock.Fake(epoch)
	c.AutoStep(time.Millisecond)
	Register("stepped_time", func() Impl { return NewTime(WithClock(c)) })

	p := MustBuild(HistorianPrefix)
	opts := options.New()
	options.Put(opts, HistorianKeyMetrics, "stepped_time")
	options.Put(opts, HistorianKeyEvents, []string{"compress"})
	require.NoError(t, p.SetOptions(opts))

	const k = 4
	for range k {
		require.NoError(t, p.BeginCompress(nil, nil))
		require.NoError(t, p.EndCompress(nil, nil, nil))
		// non-trigger events are forwarded but not recorded
		require.NoError(t, p.BeginDecompress(nil, nil))
		require.NoError(t, p.EndDecompress(nil, nil, nil))
	}

	results := p.Results(nil)
	require.Equal(t, k, results.Len())
	for i := range k {
		key := "historian/" + strconv.Itoa(i)
		snapshot, status := options.Get[*options.Options](results, key)
		require.Equal(t, options.KeySet, status, key)
		elapsed, status := options.Get[time.Duration](snapshot, "time:compress")
		require.Equal(t, options.KeySet, status)
		require.Equal(t, time.Millisecond, elapsed)
	}
	h, ok := p.Impl().(*Historian)
	require.True(t, ok)
	require.Equal(t, uint64(k), h.Index())
}

func TestHistorian_NamedAndResumed(t *testing.T) {
	p := MustBuild(HistorianPrefix)
	p.SetName("run")

	opts := options.New()
	options.Put(opts, HistorianKeyMetrics, SizePrefix)
	options.Put(opts, HistorianKeyEvents, []string{"compress", "set_options"})
	options.Put(opts, HistorianKeyIndex, uint64(7))
	require.NoError(t, p.SetOptions(opts))

	current := p.Options()
	require.Equal(t, SizePrefix, options.GetOr(current, HistorianKeyMetrics, ""))
	require.Equal(t, []string{"set_options", "compress"}, options.GetOr(current, HistorianKeyEvents, []string(nil)))

	in := data.FromFloat64s([]float64{1, 2, 3, 4})
	out, err := data.FromBytes(data.Byte, make([]byte, 8))
	require.NoError(t, err)
	require.NoError(t, p.BeginCompress(in, out))
	require.NoError(t, p.EndCompress(in, out, nil))

	results := p.Results(nil)
	snapshot, status := options.Get[*options.Options](results, "run/7")
	require.Equal(t, options.KeySet, status)
	require.Equal(t, uint64(32), options.GetOr(snapshot, SizeKeyUncompressed, uint64(0)))
	require.Equal(t, uint64(8), options.GetOr(snapshot, SizeKeyCompressed, uint64(0)))
}

func TestHistorian_InvalidOptions(t *testing.T) {
	p := MustBuild(HistorianPrefix)

	opts := options.New()
	options.Put(opts, HistorianKeyEvents, []string{"explode"})
	err := p.SetOptions(opts)
	require.ErrorIs(t, err, errs.ErrInvalidOption)
	require.NotZero(t, p.ErrorCode())

	opts = options.New()
	options.Put(opts, HistorianKeyMetrics, "missing")
	require.ErrorIs(t, p.SetOptions(opts), errs.ErrUnknownPlugin)
}

func TestHistorian_CloneIsIndependent(t *testing.T) {
	h := NewHistorian()
	h.events[EventCompress] = true
	p := NewPlugin(h)

	require.NoError(t, p.BeginCompress(nil, nil))
	require.NoError(t, p.EndCompress(nil, nil, nil))

	clone := p.Clone()
	require.NoError(t, p.BeginCompress(nil, nil))
	require.NoError(t, p.EndCompress(nil, nil, nil))

	require.Equal(t, 2, p.Results(nil).Len())
	require.Equal(t, 1, clone.Results(nil).Len())
}

func TestSize(t *testing.T) {
	p := MustBuild(SizePrefix)

	results := p.Results(nil)
	_, status := options.Get[uint64](results, SizeKeyCompressed)
	require.Equal(t, options.KeyExists, status)

	in := data.FromFloat64s(make([]float64, 100))
	out, err := data.FromBytes(data.Byte, make([]byte, 200))
	require.NoError(t, err)

	// failed operations are not recorded
	require.NoError(t, p.EndCompress(in, out, errors.New("boom")))
	_, status = options.Get[uint64](p.Results(nil), SizeKeyCompressed)
	require.Equal(t, options.KeyExists, status)

	require.NoError(t, p.EndCompress(in, out, nil))
	results = p.Results(nil)
	require.Equal(t, uint64(800), options.GetOr(results, SizeKeyUncompressed, uint64(0)))
	require.Equal(t, uint64(200), options.GetOr(results, SizeKeyCompressed, uint64(0)))
	require.InDelta(t, 0.25, options.GetOr(results, SizeKeyRatio, 0.0), 1e-12)
	require.InDelta(t, 75.0, options.GetOr(results, SizeKeySavings, 0.0), 1e-9)

	require.NoError(t, p.EndDecompressMany([]*data.Data{out}, []*data.Data{in, in}, nil))
	require.Equal(t, uint64(1600), options.GetOr(p.Results(nil), SizeKeyDecompressed, uint64(0)))
}

func TestChecksum(t *testing.T) {
	for _, alg := range []string{"xxhash64", "blake3"} {
		t.Run(alg, func(t *testing.T) {
			p := MustBuild(ChecksumPrefix)
			opts := options.New()
			options.Put(opts, ChecksumKeyAlgorithm, alg)
			require.NoError(t, p.SetOptions(opts))

			original := data.FromFloat64s([]float64{1.5, 2.5})
			restored := original.Clone()

			require.NoError(t, p.BeginCompress(original, data.Empty(data.Byte)))
			_, status := options.Get[bool](p.Results(nil), ChecksumKeyMatch)
			require.Equal(t, options.KeyExists, status)

			require.NoError(t, p.EndDecompress(data.Empty(data.Byte), restored, nil))
			require.True(t, options.GetOr(p.Results(nil), ChecksumKeyMatch, false))

			restored.Bytes()[0] ^= 1
			require.NoError(t, p.EndDecompress(data.Empty(data.Byte), restored, nil))
			require.False(t, options.GetOr(p.Results(nil), ChecksumKeyMatch, true))
		})
	}

	p := MustBuild(ChecksumPrefix)
	opts := options.New()
	options.Put(opts, ChecksumKeyAlgorithm, "crc32")
	require.ErrorIs(t, p.SetOptions(opts), errs.ErrInvalidOption)
}

type failingCollector struct {
	Noop
	fail bool
}

func (f *failingCollector) Begin(Event, *Call) error {
	if f.fail {
		return errs.New(7, errs.ErrInvalidOption, "collector refused")
	}
	return nil
}

func (f *failingCollector) Clone() Impl {
	copied := *f
	return &copied
}

func TestPlugin_ErrorState(t *testing.T) {
	f := &failingCollector{fail: true}
	p := NewPlugin(f)

	err := p.BeginCompress(nil, nil)
	require.Error(t, err)
	require.Equal(t, 7, p.ErrorCode())
	require.Equal(t, "collector refused", p.ErrorMsg())

	f.fail = false
	require.NoError(t, p.BeginCompress(nil, nil))
	require.Zero(t, p.ErrorCode(), "error state is cleared at the start of each hook")
}

func TestComposite(t *testing.T) {
	p := MustBuild(CompositePrefix)

	opts := options.New()
	options.Put(opts, CompositeKeyPlugins, []string{TimePrefix, SizePrefix})
	require.NoError(t, p.SetOptions(opts))

	in := data.FromFloat64s([]float64{1, 2})
	out, err := data.FromBytes(data.Byte, make([]byte, 4))
	require.NoError(t, err)

	require.NoError(t, p.BeginCompress(in, out))
	require.NoError(t, p.EndCompress(in, out, nil))

	results := p.Results(nil)
	_, status := options.Get[time.Duration](results, "time:compress")
	require.Equal(t, options.KeySet, status)
	require.Equal(t, uint64(4), options.GetOr(results, SizeKeyCompressed, uint64(0)))

	require.Equal(t, []string{TimePrefix, SizePrefix}, options.GetOr(p.Options(), CompositeKeyPlugins, []string(nil)))
	require.Equal(t, options.ThreadSafetyMultiple, options.ThreadSafetyOf(p.Configuration()))
}

func TestComposite_JoinsFailures(t *testing.T) {
	first := NewPlugin(&failingCollector{fail: true})
	second := NewPlugin(&failingCollector{fail: true})
	p := NewPlugin(NewComposite(first, second))

	err := p.BeginCompress(nil, nil)
	require.ErrorIs(t, err, errs.ErrInvalidOption)
	require.Equal(t, 7, p.ErrorCode())
	require.Contains(t, p.ErrorMsg(), "collector refused")
}
