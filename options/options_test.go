package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pressio/errs"
)

func TestGet_Status(t *testing.T) {
	opts := New()
	Put(opts, "zstd:level", int32(3))
	PutUnset(opts, "time:compress", TypeDuration)

	t.Run("set key of requested type", func(t *testing.T) {
		v, status := Get[int32](opts, "zstd:level")
		require.Equal(t, KeySet, status)
		require.Equal(t, int32(3), v)
	})

	t.Run("set key of another type", func(t *testing.T) {
		v, status := Get[uint32](opts, "zstd:level")
		require.Equal(t, KeyExists, status)
		require.Zero(t, v)
	})

	t.Run("typed but unset key", func(t *testing.T) {
		_, status := Get[time.Duration](opts, "time:compress")
		require.Equal(t, KeyExists, status)

		opt, ok := opts.Lookup("time:compress")
		require.True(t, ok)
		require.False(t, opt.IsSet())
		require.Equal(t, TypeDuration, opt.Type())
		require.Nil(t, opt.Value())
	})

	t.Run("absent key", func(t *testing.T) {
		_, status := Get[int32](opts, "zstd:missing")
		require.Equal(t, KeyAbsent, status)
		require.Equal(t, int32(9), GetOr(opts, "zstd:missing", int32(9)))
	})
}

func TestInt(t *testing.T) {
	opts := New()
	Put(opts, "a:i32", int32(-4))
	Put(opts, "a:u32", uint32(4))
	Put(opts, "a:u64", uint64(1<<63))
	Put(opts, "a:str", "x")

	v, status := Int(opts, "a:i32")
	require.Equal(t, KeySet, status)
	require.Equal(t, int64(-4), v)

	v, status = Int(opts, "a:u32")
	require.Equal(t, KeySet, status)
	require.Equal(t, int64(4), v)

	_, status = Int(opts, "a:u64")
	require.Equal(t, KeyExists, status)

	_, status = Int(opts, "a:str")
	require.Equal(t, KeyExists, status)

	_, status = Int(opts, "a:none")
	require.Equal(t, KeyAbsent, status)
}

func TestKeysWithPrefix(t *testing.T) {
	opts := New()
	Put(opts, "zstd:level", int32(1))
	Put(opts, "zstd:shuffle", true)
	Put(opts, "zstdx:level", int32(1))
	Put(opts, "metrics:errors_fatal", false)

	require.Equal(t, []string{"zstd:level", "zstd:shuffle"}, opts.KeysWithPrefix("zstd"))
	require.Equal(t, []string{"metrics:errors_fatal", "zstd:level", "zstd:shuffle", "zstdx:level"}, opts.Keys())
	require.Empty(t, opts.KeysWithPrefix("lz4"))
}

func TestCopyFromAndClone(t *testing.T) {
	base := New()
	Put(base, "k:a", int32(1))
	Put(base, "k:list", []string{"x", "y"})

	other := New()
	Put(other, "k:a", int32(2))
	Put(other, "k:b", true)

	base.CopyFrom(other)
	require.Equal(t, int32(2), GetOr(base, "k:a", int32(0)))
	require.True(t, GetOr(base, "k:b", false))
	require.Equal(t, 3, base.Len())

	cloned := base.Clone()
	list, _ := Get[[]string](cloned, "k:list")
	list[0] = "changed"

	original, _ := Get[[]string](base, "k:list")
	require.Equal(t, "x", original[0])

	base.CopyFrom(nil)
	require.Equal(t, 3, base.Len())
}

func TestNilOptions(t *testing.T) {
	var opts *Options
	require.Zero(t, opts.Len())
	require.False(t, opts.Has("a:b"))
	require.Empty(t, opts.Keys())

	_, status := Get[bool](opts, "a:b")
	require.Equal(t, KeyAbsent, status)

	t.Run("writes are dropped", func(t *testing.T) {
		var opts *Options
		require.NotPanics(t, func() {
			opts.Set("a:b", NewOption(true))
			Put(opts, "a:c", int32(1))
			PutUnset(opts, "a:d", TypeString)
			opts.CopyFrom(New())
		})
		require.Zero(t, opts.Len())
	})

	t.Run("zero value bag", func(t *testing.T) {
		var opts Options
		Put(&opts, "a:b", true)
		require.Equal(t, 1, opts.Len())
	})
}

func TestFromMap(t *testing.T) {
	schema := New()
	PutUnset(schema, "many_independent_threaded:nthreads", TypeUint32)
	PutUnset(schema, "historian:events", TypeStrings)
	PutUnset(schema, "subgroups:input_data_groups", TypeInt32s)
	PutUnset(schema, "metrics:errors_fatal", TypeBool)

	raw := map[string]any{
		"many_independent_threaded:nthreads": 4,
		"historian:events":                   []any{"compress", "decompress"},
		"subgroups:input_data_groups":        []any{0, 1, 1.0},
		"metrics:errors_fatal":               "true",
		"custom:ratio":                       0.5,
		"custom:count":                       float64(12),
	}

	opts, err := FromMap(raw, schema)
	require.NoError(t, err)

	nthreads, status := Get[uint32](opts, "many_independent_threaded:nthreads")
	require.Equal(t, KeySet, status)
	require.Equal(t, uint32(4), nthreads)

	events, _ := Get[[]string](opts, "historian:events")
	require.Equal(t, []string{"compress", "decompress"}, events)

	groups, _ := Get[[]int32](opts, "subgroups:input_data_groups")
	require.Equal(t, []int32{0, 1, 1}, groups)

	require.True(t, GetOr(opts, "metrics:errors_fatal", false))
	require.InDelta(t, 0.5, GetOr(opts, "custom:ratio", 0.0), 1e-12)
	require.Equal(t, int64(12), GetOr(opts, "custom:count", int64(0)))

	_, err = FromMap(map[string]any{"many_independent_threaded:nthreads": -1}, schema)
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestToMap(t *testing.T) {
	nested := New()
	Put(nested, "time:compress", 2*time.Millisecond)

	opts := New()
	Put(opts, "historian/0", nested)
	PutUnset(opts, "time:decompress", TypeDuration)
	Put(opts, "size:compression_ratio", 0.25)

	m := opts.ToMap()
	require.Nil(t, m["time:decompress"])
	require.InDelta(t, 0.25, m["size:compression_ratio"], 1e-12)
	require.Equal(t, map[string]any{"time:compress": "2ms"}, m["historian/0"])
}

func TestThreadSafety(t *testing.T) {
	opts := New()
	require.Equal(t, ThreadSafetySingle, ThreadSafetyOf(opts))

	Put(opts, KeyThreadSafe, int32(ThreadSafetyMultiple))
	require.Equal(t, ThreadSafetyMultiple, ThreadSafetyOf(opts))
	require.Equal(t, "multiple", ThreadSafetyMultiple.String())
	require.Equal(t, "zstd:level", Scoped("zstd", "level"))
}
