package options

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/arloliu/pressio/errs"
)

// FromMap builds an Options bag from loosely typed values, such as those
// decoded from a YAML or JSON configuration file.
//
// Keys declared in schema are converted to their declared type; other keys
// get an inferred type. A nil raw value produces an unset entry.
//
// Parameters:
//   - raw: key to value map, values being bool, numbers, strings, slices or maps
//   - schema: typically a plugin's Options(), may be nil
//
// Returns:
//   - *Options: the typed bag
//   - error: ErrInvalidOption when a value cannot be represented in its declared type
func FromMap(raw map[string]any, schema *Options) (*Options, error) {
	out := New()

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		var (
			opt Option
			err error
		)
		if declared, ok := schema.Lookup(k); ok {
			opt, err = Convert(declared.Type(), raw[k])
		} else {
			opt, err = Infer(raw[k])
		}
		if err != nil {
			return nil, errs.New(errs.CodeGeneric, errs.ErrInvalidOption, "option %s: %v", k, err)
		}
		out.Set(k, opt)
	}

	return out, nil
}

// Convert represents raw as an Option of type t.
func Convert(t Type, raw any) (Option, error) {
	if raw == nil {
		return Unset(t), nil
	}

	switch t {
	case TypeBool:
		switch v := raw.(type) {
		case bool:
			return NewOption(v), nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Option{}, err
			}
			return NewOption(b), nil
		}
	case TypeInt32:
		n, err := toInt(raw, math.MinInt32, math.MaxInt32)
		if err != nil {
			return Option{}, err
		}
		return NewOption(int32(n)), nil
	case TypeUint32:
		n, err := toInt(raw, 0, math.MaxUint32)
		if err != nil {
			return Option{}, err
		}
		return NewOption(uint32(n)), nil
	case TypeInt64:
		n, err := toInt(raw, math.MinInt64, math.MaxInt64)
		if err != nil {
			return Option{}, err
		}
		return NewOption(n), nil
	case TypeUint64:
		n, err := toInt(raw, 0, math.MaxInt64)
		if err != nil {
			return Option{}, err
		}
		return NewOption(uint64(n)), nil
	case TypeFloat64:
		switch v := raw.(type) {
		case float64:
			return NewOption(v), nil
		case int:
			return NewOption(float64(v)), nil
		case int64:
			return NewOption(float64(v)), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Option{}, err
			}
			return NewOption(f), nil
		}
	case TypeString:
		if v, ok := raw.(string); ok {
			return NewOption(v), nil
		}
		return NewOption(fmt.Sprint(raw)), nil
	case TypeStrings:
		items, ok := asSlice(raw)
		if !ok {
			break
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, fmt.Sprint(item))
		}
		return NewOption(out), nil
	case TypeInt32s:
		items, ok := asSlice(raw)
		if !ok {
			break
		}
		out := make([]int32, 0, len(items))
		for _, item := range items {
			n, err := toInt(item, math.MinInt32, math.MaxInt32)
			if err != nil {
				return Option{}, err
			}
			out = append(out, int32(n))
		}
		return NewOption(out), nil
	case TypeDuration:
		switch v := raw.(type) {
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return Option{}, err
			}
			return NewOption(d), nil
		case time.Duration:
			return NewOption(v), nil
		default:
			n, err := toInt(raw, math.MinInt64, math.MaxInt64)
			if err != nil {
				return Option{}, err
			}
			return NewOption(time.Duration(n)), nil
		}
	case TypeNested:
		if m, ok := raw.(map[string]any); ok {
			nested, err := FromMap(m, nil)
			if err != nil {
				return Option{}, err
			}
			return NewOption(nested), nil
		}
	}

	return Option{}, fmt.Errorf("cannot convert %T to %s", raw, t)
}

// Infer picks a type for raw: bool, int64, float64, string, []string or nested options.
func Infer(raw any) (Option, error) {
	switch v := raw.(type) {
	case nil:
		return Option{}, fmt.Errorf("cannot infer the type of a null value")
	case bool:
		return NewOption(v), nil
	case int:
		return NewOption(int64(v)), nil
	case int64:
		return NewOption(v), nil
	case uint64:
		return NewOption(v), nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return NewOption(int64(v)), nil
		}
		return NewOption(v), nil
	case string:
		return NewOption(v), nil
	case []any, []string:
		return Convert(TypeStrings, v)
	case map[string]any:
		return Convert(TypeNested, v)
	default:
		return Option{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

// ToMap renders the bag as plain Go values suitable for JSON, YAML or CBOR
// encoding. Unset entries map to nil, durations to their string form and
// nested bags to nested maps.
func (o *Options) ToMap() map[string]any {
	out := make(map[string]any, o.Len())
	for k, opt := range o.All() {
		switch v := opt.Value().(type) {
		case *Options:
			out[k] = v.ToMap()
		case time.Duration:
			out[k] = v.String()
		default:
			out[k] = v
		}
	}

	return out
}

func toInt(raw any, lo, hi int64) (int64, error) {
	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint32:
		n = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of range", v)
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("value %v is not an integer", v)
		}
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("value %v out of range", v)
		}
		n = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, err
		}
		n = parsed
	default:
		return 0, fmt.Errorf("cannot convert %T to an integer", raw)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("value %d out of range [%d, %d]", n, lo, hi)
	}

	return n, nil
}

func asSlice(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []int32:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, true
	case string:
		return []any{v}, true
	default:
		return nil, false
	}
}
