package options

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Type identifies the value type held by an Option.
type Type uint8

const (
	TypeUnknown  Type = 0x0 // TypeUnknown is the zero Type; never stored.
	TypeBool     Type = 0x1 // TypeBool holds a bool.
	TypeInt32    Type = 0x2 // TypeInt32 holds an int32.
	TypeUint32   Type = 0x3 // TypeUint32 holds a uint32.
	TypeInt64    Type = 0x4 // TypeInt64 holds an int64.
	TypeUint64   Type = 0x5 // TypeUint64 holds a uint64.
	TypeFloat64  Type = 0x6 // TypeFloat64 holds a float64.
	TypeString   Type = 0x7 // TypeString holds a string.
	TypeStrings  Type = 0x8 // TypeStrings holds a []string.
	TypeInt32s   Type = 0x9 // TypeInt32s holds a []int32.
	TypeDuration Type = 0xA // TypeDuration holds a time.Duration.
	TypeNested   Type = 0xB // TypeNested holds a *Options.
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int32"
	case TypeUint32:
		return "uint32"
	case TypeInt64:
		return "int64"
	case TypeUint64:
		return "uint64"
	case TypeFloat64:
		return "float64"
	case TypeString:
		return "string"
	case TypeStrings:
		return "[]string"
	case TypeInt32s:
		return "[]int32"
	case TypeDuration:
		return "duration"
	case TypeNested:
		return "options"
	default:
		return "unknown"
	}
}

// Value is the set of Go types an Option can hold.
type Value interface {
	bool | int32 | uint32 | int64 | uint64 | float64 | string | []string | []int32 | time.Duration | *Options
}

// Option is a single typed entry of an Options bag.
//
// An Option may be typed but unset: it declares that a key exists with a
// given type without carrying a value. Metrics collectors use this to report
// "never measured" distinctly from a zero measurement.
type Option struct {
	typ   Type
	value any
	set   bool
}

// NewOption creates a set Option holding v.
func NewOption[T Value](v T) Option {
	return Option{typ: typeOf(any(v)), value: v, set: true}
}

// Unset creates a typed Option without a value.
func Unset(t Type) Option {
	return Option{typ: t}
}

// Type returns the declared type of the option.
func (o Option) Type() Type {
	return o.typ
}

// IsSet reports whether the option carries a value.
func (o Option) IsSet() bool {
	return o.set
}

// Value returns the held value, or nil when the option is unset.
func (o Option) Value() any {
	if !o.set {
		return nil
	}

	return o.value
}

// String formats the option for diagnostics.
func (o Option) String() string {
	if !o.set {
		return fmt.Sprintf("<%s unset>", o.typ)
	}

	switch v := o.value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	case *Options:
		return fmt.Sprintf("{%d entries}", v.Len())
	default:
		return fmt.Sprint(v)
	}
}

// clone returns a copy that shares no mutable memory with o.
func (o Option) clone() Option {
	if !o.set {
		return o
	}

	switch v := o.value.(type) {
	case []string:
		o.value = slices.Clone(v)
	case []int32:
		o.value = slices.Clone(v)
	case *Options:
		o.value = v.Clone()
	}

	return o
}

func typeOf(v any) Type {
	switch v.(type) {
	case bool:
		return TypeBool
	case int32:
		return TypeInt32
	case uint32:
		return TypeUint32
	case int64:
		return TypeInt64
	case uint64:
		return TypeUint64
	case float64:
		return TypeFloat64
	case string:
		return TypeString
	case []string:
		return TypeStrings
	case []int32:
		return TypeInt32s
	case time.Duration:
		return TypeDuration
	case *Options:
		return TypeNested
	default:
		return TypeUnknown
	}
}
