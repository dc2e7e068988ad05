// Package pool holds reusable scratch buffers for codec plugins.
package pool

import "sync"

const (
	// ScratchDefaultSize is the initial capacity of a pooled scratch buffer.
	ScratchDefaultSize = 64 * 1024 // 64KiB
	// ScratchMaxThreshold is the largest buffer returned to the pool.
	ScratchMaxThreshold = 16 * 1024 * 1024 // 16MiB
)

// Buffer is a growable byte slice.
type Buffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewBuffer creates a Buffer with the given initial capacity.
func NewBuffer(defaultSize int) *Buffer {
	return &Buffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (b *Buffer) Bytes() []byte {
	return b.B
}

// Reset empties the buffer, keeping its capacity.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
}

// Len returns the length of the buffer.
func (b *Buffer) Len() int {
	return len(b.B)
}

// Cap returns the capacity of the buffer.
func (b *Buffer) Cap() int {
	return cap(b.B)
}

// Resize sets the length to n, reallocating when the capacity is too small.
// Existing contents are not preserved across a reallocation.
func (b *Buffer) Resize(n int) {
	if n <= cap(b.B) {
		b.B = b.B[:n]
		return
	}

	// grow by at least 25% to amortize repeated resizes
	size := max(n, cap(b.B)+cap(b.B)/4)
	b.B = make([]byte, n, size)
}

// Write appends data to the buffer.
func (b *Buffer) Write(data []byte) (int, error) {
	b.B = append(b.B, data...)
	return len(data), nil
}

// BufferPool is a sync.Pool of Buffers that discards buffers grown past
// maxThreshold so one oversized payload does not pin memory.
type BufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewBufferPool creates a pool of buffers with the given initial capacity.
// A maxThreshold of zero keeps every buffer.
func NewBufferPool(defaultSize, maxThreshold int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty buffer.
func (p *BufferPool) Get() *Buffer {
	b, _ := p.pool.Get().(*Buffer)
	return b
}

// Put returns b to the pool.
func (p *BufferPool) Put(b *Buffer) {
	if b == nil {
		return
	}
	if p.maxThreshold > 0 && cap(b.B) > p.maxThreshold {
		return
	}

	b.Reset()
	p.pool.Put(b)
}

var scratchPool = NewBufferPool(ScratchDefaultSize, ScratchMaxThreshold)

// GetScratch retrieves a buffer from the shared scratch pool.
func GetScratch() *Buffer {
	return scratchPool.Get()
}

// PutScratch returns a buffer to the shared scratch pool.
func PutScratch(b *Buffer) {
	scratchPool.Put(b)
}
