package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer_Resize(t *testing.T) {
	b := NewBuffer(8)
	require.Equal(t, 0, b.Len())
	require.Equal(t, 8, b.Cap())

	b.Resize(4)
	require.Equal(t, 4, b.Len())
	require.Equal(t, 8, b.Cap())

	b.Resize(100)
	require.Equal(t, 100, b.Len())
	require.GreaterOrEqual(t, b.Cap(), 100)

	b.Reset()
	require.Equal(t, 0, b.Len())
	require.GreaterOrEqual(t, b.Cap(), 100)
}

func TestBuffer_Write(t *testing.T) {
	b := NewBuffer(2)
	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte("abc"), b.Bytes())
}

func TestBufferPool(t *testing.T) {
	p := NewBufferPool(16, 64)

	b := p.Get()
	require.NotNil(t, b)
	require.Equal(t, 0, b.Len())

	_, _ = b.Write([]byte("payload"))
	p.Put(b)

	again := p.Get()
	require.Equal(t, 0, again.Len(), "pooled buffers come back empty")

	// oversized buffers are dropped
	p.Put(NewBuffer(128))
	p.Put(nil)
}

func TestScratch(t *testing.T) {
	b := GetScratch()
	b.Resize(10)
	require.Equal(t, 10, b.Len())
	PutScratch(b)
}

func BenchmarkBufferPool(b *testing.B) {
	p := NewBufferPool(ScratchDefaultSize, ScratchMaxThreshold)
	for b.Loop() {
		buf := p.Get()
		buf.Resize(4096)
		p.Put(buf)
	}
}
