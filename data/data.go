// Package data provides the typed, shaped buffers routed through pressio plugins.
//
// A Data value is an element type (DType), a shape (dims) and an optional
// little-endian payload. The orchestration layer never inspects payload
// contents; only compressor implementations do.
//
// A buffer without payload (see Empty) describes the expected shape of a
// result, which is how callers tell a decompressor what to produce:
//
//	input := data.FromFloat64s(values)
//	compressed := data.Empty(data.Byte)
//	if err := plugin.Compress(input, compressed); err != nil {
//	    return err
//	}
//
//	restored := data.Empty(data.Float64, input.Dims()...)
//	if err := plugin.Decompress(compressed, restored); err != nil {
//	    return err
//	}
package data

import (
	"bytes"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/pressio/errs"
)

// Data is a typed, shaped buffer.
//
// Data is not safe for concurrent mutation; the parallel dispatcher hands
// each task a disjoint set of buffers.
type Data struct {
	dtype   DType
	dims    []uint64
	payload []byte
	hasData bool
}

// New creates a zero-filled buffer of the given dtype and shape.
func New(dtype DType, dims ...uint64) *Data {
	d := &Data{dtype: dtype, dims: slices.Clone(dims), hasData: true}
	d.payload = make([]byte, d.SizeInBytes())

	return d
}

// Empty creates a buffer that carries a dtype and shape but no payload.
func Empty(dtype DType, dims ...uint64) *Data {
	return &Data{dtype: dtype, dims: slices.Clone(dims)}
}

// FromBytes wraps payload without copying it.
//
// When dims is empty the buffer is one-dimensional with as many elements as
// payload holds.
//
// Returns:
//   - *Data: the buffer
//   - error: ErrTypeMismatch if payload is not a whole number of elements or
//     does not match the product of dims
func FromBytes(dtype DType, payload []byte, dims ...uint64) (*Data, error) {
	size := dtype.Size()
	if size == 0 {
		return nil, errs.New(errs.CodeGeneric, errs.ErrTypeMismatch, "unknown dtype %d", dtype)
	}
	if len(payload)%size != 0 {
		return nil, errs.New(errs.CodeGeneric, errs.ErrTypeMismatch,
			"payload of %d bytes is not a multiple of the %s element size", len(payload), dtype)
	}
	if len(dims) == 0 {
		dims = []uint64{uint64(len(payload) / size)}
	}

	d := &Data{dtype: dtype, dims: slices.Clone(dims), payload: payload, hasData: true}
	if uint64(len(payload)) != d.SizeInBytes() {
		return nil, errs.New(errs.CodeGeneric, errs.ErrTypeMismatch,
			"payload of %d bytes does not match dims %v of %s", len(payload), dims, dtype)
	}

	return d, nil
}

// FromFloat64s creates a one-dimensional Float64 buffer holding a copy of values.
func FromFloat64s(values []float64) *Data {
	payload := make([]byte, 0, len(values)*8)
	for _, v := range values {
		payload = payloadOrder.AppendUint64(payload, math.Float64bits(v))
	}

	return &Data{dtype: Float64, dims: []uint64{uint64(len(values))}, payload: payload, hasData: true}
}

// FromFloat32s creates a one-dimensional Float32 buffer holding a copy of values.
func FromFloat32s(values []float32) *Data {
	payload := make([]byte, 0, len(values)*4)
	for _, v := range values {
		payload = payloadOrder.AppendUint32(payload, math.Float32bits(v))
	}

	return &Data{dtype: Float32, dims: []uint64{uint64(len(values))}, payload: payload, hasData: true}
}

// DType returns the element type.
func (d *Data) DType() DType {
	return d.dtype
}

// Dims returns a copy of the shape.
func (d *Data) Dims() []uint64 {
	return slices.Clone(d.dims)
}

// NumElements returns the product of the dims, 0 when there are no dims.
func (d *Data) NumElements() uint64 {
	if len(d.dims) == 0 {
		return 0
	}
	n := uint64(1)
	for _, dim := range d.dims {
		n *= dim
	}

	return n
}

// SizeInBytes returns the payload size implied by dtype and dims.
func (d *Data) SizeInBytes() uint64 {
	return d.NumElements() * uint64(d.dtype.Size())
}

// HasData reports whether the buffer carries a payload.
func (d *Data) HasData() bool {
	return d.hasData
}

// Bytes returns the payload without copying it.
func (d *Data) Bytes() []byte {
	return d.payload
}

// Len returns the payload length in bytes.
func (d *Data) Len() int {
	return len(d.payload)
}

// SetBytes replaces dtype, shape and payload. The payload is not copied.
// When dims is empty the buffer becomes one-dimensional.
func (d *Data) SetBytes(dtype DType, payload []byte, dims ...uint64) error {
	replaced, err := FromBytes(dtype, payload, dims...)
	if err != nil {
		return err
	}
	*d = *replaced

	return nil
}

// Reshape changes the dims without touching the payload.
func (d *Data) Reshape(dims ...uint64) error {
	reshaped := Data{dtype: d.dtype, dims: dims}
	if d.hasData && reshaped.SizeInBytes() != uint64(len(d.payload)) {
		return errs.New(errs.CodeGeneric, errs.ErrTypeMismatch,
			"cannot reshape %v to %v", d.dims, dims)
	}
	d.dims = slices.Clone(dims)

	return nil
}

// Float64s decodes the payload of a Float64 buffer.
func (d *Data) Float64s() ([]float64, error) {
	if d.dtype != Float64 {
		return nil, errs.New(errs.CodeGeneric, errs.ErrTypeMismatch, "buffer is %s, not float64", d.dtype)
	}
	out := make([]float64, len(d.payload)/8)
	for i := range out {
		out[i] = math.Float64frombits(payloadOrder.Uint64(d.payload[i*8:]))
	}

	return out, nil
}

// Float32s decodes the payload of a Float32 buffer.
func (d *Data) Float32s() ([]float32, error) {
	if d.dtype != Float32 {
		return nil, errs.New(errs.CodeGeneric, errs.ErrTypeMismatch, "buffer is %s, not float32", d.dtype)
	}
	out := make([]float32, len(d.payload)/4)
	for i := range out {
		out[i] = math.Float32frombits(payloadOrder.Uint32(d.payload[i*4:]))
	}

	return out, nil
}

// Clone returns a deep copy.
func (d *Data) Clone() *Data {
	return &Data{
		dtype:   d.dtype,
		dims:    slices.Clone(d.dims),
		payload: bytes.Clone(d.payload),
		hasData: d.hasData,
	}
}

// Equal reports whether both buffers have the same dtype, dims and payload.
func (d *Data) Equal(other *Data) bool {
	if d == nil || other == nil {
		return d == other
	}

	return d.dtype == other.dtype &&
		slices.Equal(d.dims, other.dims) &&
		d.hasData == other.hasData &&
		bytes.Equal(d.payload, other.payload)
}

func (d *Data) String() string {
	return fmt.Sprintf("data{%s %v, %d bytes}", d.dtype, d.dims, len(d.payload))
}
