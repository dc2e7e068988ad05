package subgroup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/errs"
	"github.com/arloliu/pressio/options"
)

func buffers(n int) []*data.Data {
	out := make([]*data.Data, n)
	for i := range out {
		out[i] = data.FromFloat64s([]float64{float64(i)})
	}

	return out
}

func TestManager_Defaults(t *testing.T) {
	m := New()
	ins, outs := buffers(3), buffers(3)

	require.NoError(t, m.NormalizeAndValidate(ins, outs))
	require.Equal(t, []int32{0, 1, 2}, m.EffectiveInputGroups())
	require.Equal(t, []int32{0, 1, 2}, m.EffectiveOutputGroups())
	require.Equal(t, []int32{0, 1, 2}, m.GroupIDs())

	require.Equal(t, []*data.Data{ins[1]}, m.InputGroup(ins, 1))
	require.Equal(t, []*data.Data{outs[2]}, m.OutputGroup(outs, 2))
	require.Empty(t, m.InputGroup(ins, 9))
}

func TestManager_ConfiguredGroups(t *testing.T) {
	m := New()
	opts := options.New()
	options.Put(opts, KeyInputGroups, []int32{5, 2, 5, 2})
	options.Put(opts, KeyOutputGroups, []int32{2, 5})
	require.NoError(t, m.SetOptions(opts))

	ins, outs := buffers(4), buffers(2)
	require.NoError(t, m.NormalizeAndValidate(ins, outs))
	require.Equal(t, []int32{2, 5}, m.GroupIDs())

	require.Equal(t, []*data.Data{ins[0], ins[2]}, m.InputGroup(ins, 5), "relative order is preserved")
	require.Equal(t, []*data.Data{ins[1], ins[3]}, m.InputGroup(ins, 2))
	require.Equal(t, []*data.Data{outs[1]}, m.OutputGroup(outs, 5))

	got := m.Options()
	require.Equal(t, []int32{5, 2, 5, 2}, options.GetOr(got, KeyInputGroups, []int32(nil)))
}

func TestManager_OutputsFollowInputs(t *testing.T) {
	m := New()
	opts := options.New()
	options.Put(opts, KeyInputGroups, []int32{1, 1, 0})
	require.NoError(t, m.SetOptions(opts))

	require.NoError(t, m.NormalizeAndValidate(buffers(3), buffers(3)))
	require.Equal(t, []int32{1, 1, 0}, m.EffectiveOutputGroups())
}

func TestManager_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		in, out []int32
		nIn     int
		nOut    int
	}{
		{"input length mismatch", []int32{0, 1}, nil, 3, 3},
		{"output length mismatch", nil, []int32{0}, 2, 2},
		{"disjoint ids", []int32{0, 1}, []int32{0, 2}, 2, 2},
		{"default outputs with fewer buffers", []int32{0, 0, 1}, nil, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			opts := options.New()
			if tt.in != nil {
				options.Put(opts, KeyInputGroups, tt.in)
			}
			if tt.out != nil {
				options.Put(opts, KeyOutputGroups, tt.out)
			}
			require.NoError(t, m.SetOptions(opts))

			err := m.NormalizeAndValidate(buffers(tt.nIn), buffers(tt.nOut))
			require.ErrorIs(t, err, errs.ErrInvalidGrouping)
			require.Equal(t, errs.CodeGeneric, m.ErrorCode())
			require.NotEmpty(t, m.ErrorMsg())
			require.Empty(t, m.GroupIDs())
		})
	}
}

func TestManager_ResetAndClone(t *testing.T) {
	m := New()
	m.SetName("outer")
	opts := options.New()
	options.Put(opts, KeyInputGroups, []int32{0, 0})
	require.NoError(t, m.SetOptions(opts))

	clone := m.Clone()
	require.Equal(t, "outer", clone.Name())

	reset := options.New()
	options.Put(reset, KeyInputGroups, []int32{})
	require.NoError(t, m.SetOptions(reset))

	opt, ok := m.Options().Lookup(KeyInputGroups)
	require.True(t, ok)
	require.False(t, opt.IsSet())

	require.NoError(t, clone.NormalizeAndValidate(buffers(2), buffers(2)))
	require.Equal(t, []int32{0}, clone.GroupIDs())
}
