package data

import "fmt"

// DType is the element type of a Data buffer.
type DType uint8

const (
	Byte    DType = 0x1 // Byte is an untyped byte stream.
	Int8    DType = 0x2 // Int8 is a signed 8-bit integer.
	Int16   DType = 0x3 // Int16 is a signed 16-bit integer.
	Int32   DType = 0x4 // Int32 is a signed 32-bit integer.
	Int64   DType = 0x5 // Int64 is a signed 64-bit integer.
	Uint8   DType = 0x6 // Uint8 is an unsigned 8-bit integer.
	Uint16  DType = 0x7 // Uint16 is an unsigned 16-bit integer.
	Uint32  DType = 0x8 // Uint32 is an unsigned 32-bit integer.
	Uint64  DType = 0x9 // Uint64 is an unsigned 64-bit integer.
	Float32 DType = 0xA // Float32 is an IEEE-754 single precision float.
	Float64 DType = 0xB // Float64 is an IEEE-754 double precision float.
)

// Size returns the size of one element in bytes, 0 for an unknown dtype.
func (d DType) Size() int {
	switch d {
	case Byte, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

func (d DType) String() string {
	switch d {
	case Byte:
		return "byte"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// ParseDType parses the name returned by DType.String.
func ParseDType(name string) (DType, error) {
	for d := Byte; d <= Float64; d++ {
		if d.String() == name {
			return d, nil
		}
	}

	return 0, fmt.Errorf("unknown dtype: %q", name)
}
