package compress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShuffle(t *testing.T) {
	src := []byte{
		0x00, 0x01, 0x02, 0x03,
		0x10, 0x11, 0x12, 0x13,
		0xAA, // trailing byte
	}
	dst := make([]byte, len(src))
	Shuffle(dst, src, 4)
	require.Equal(t, []byte{0x00, 0x10, 0x01, 0x11, 0x02, 0x12, 0x03, 0x13, 0xAA}, dst)

	restored := make([]byte, len(src))
	Unshuffle(restored, dst, 4)
	require.Equal(t, src, restored)
}

func TestShuffle_Widths(t *testing.T) {
	src := smoothPayload(257)[:2049]

	for _, width := range []int{0, 1, 2, 4, 8} {
		dst := make([]byte, len(src))
		Shuffle(dst, src, width)
		restored := make([]byte, len(src))
		Unshuffle(restored, dst, width)
		require.Equal(t, src, restored, "width %d", width)
	}
}

func TestShuffle_ImprovesRatio(t *testing.T) {
	src := smoothPayload(8192)
	shuffled := make([]byte, len(src))
	Shuffle(shuffled, src, 8)

	codec, err := New(Zstd, 0)
	require.NoError(t, err)

	plain, err := codec.Compress(src)
	require.NoError(t, err)
	grouped, err := codec.Compress(shuffled)
	require.NoError(t, err)
	require.Less(t, len(grouped), len(plain))
}
