// Package options provides the typed, prefix-scoped key/value bag used to
// configure pressio plugins and to report their metrics.
//
// Keys are scoped by plugin prefix with a colon separator:
//
//	zstd:level
//	metrics:errors_fatal
//	many_independent_threaded:nthreads
//
// Values are typed (see Type). Reads go through Get, which reports a
// tri-state Status so callers can tell an absent key from a present key of
// another type or without a value:
//
//	opts := options.New()
//	options.Put(opts, "zstd:level", int32(3))
//
//	level, status := options.Get[int32](opts, "zstd:level")
//	if status == options.KeySet {
//	    // use level
//	}
//
// Options is not safe for concurrent mutation. Plugins hand out fresh bags
// from their accessors, so callers own what they receive.
package options

import (
	"iter"
	"slices"
	"strings"
)

// Status is the outcome of a typed lookup.
type Status uint8

const (
	// KeyAbsent means the key is not present in the bag.
	KeyAbsent Status = iota
	// KeyExists means the key is present but unset, or holds a different type.
	KeyExists
	// KeySet means the key is present and holds a value of the requested type.
	KeySet
)

func (s Status) String() string {
	switch s {
	case KeyAbsent:
		return "absent"
	case KeyExists:
		return "exists"
	case KeySet:
		return "set"
	default:
		return "unknown"
	}
}

// Options is a mapping from string key to typed Option.
type Options struct {
	entries map[string]Option
}

// New creates an empty Options bag.
func New() *Options {
	return &Options{entries: make(map[string]Option)}
}

// Set stores opt under key, replacing any previous entry. Writes to a nil
// bag are dropped, matching the read-only nil behavior of the accessors.
func (o *Options) Set(key string, opt Option) {
	if o == nil {
		return
	}
	if o.entries == nil {
		o.entries = make(map[string]Option)
	}
	o.entries[key] = opt
}

// Lookup returns the entry for key and whether it exists.
func (o *Options) Lookup(key string) (Option, bool) {
	if o == nil {
		return Option{}, false
	}
	opt, ok := o.entries[key]

	return opt, ok
}

// Has reports whether key is present, set or not.
func (o *Options) Has(key string) bool {
	_, ok := o.Lookup(key)
	return ok
}

// Delete removes key from the bag.
func (o *Options) Delete(key string) {
	if o == nil {
		return
	}
	delete(o.entries, key)
}

// Len returns the number of entries.
func (o *Options) Len() int {
	if o == nil {
		return 0
	}

	return len(o.entries)
}

// Keys returns every key in sorted order.
func (o *Options) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, len(o.entries))
	for k := range o.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

// KeysWithPrefix returns, in sorted order, the keys scoped to prefix, that is
// keys beginning with "<prefix>:".
func (o *Options) KeysWithPrefix(prefix string) []string {
	scope := prefix + ":"
	keys := make([]string, 0)
	for _, k := range o.Keys() {
		if strings.HasPrefix(k, scope) {
			keys = append(keys, k)
		}
	}

	return keys
}

// All iterates over the entries in sorted key order.
func (o *Options) All() iter.Seq2[string, Option] {
	return func(yield func(string, Option) bool) {
		for _, k := range o.Keys() {
			if !yield(k, o.entries[k]) {
				return
			}
		}
	}
}

// CopyFrom merges every entry of other into o, overwriting on collision.
// A nil other is a no-op.
func (o *Options) CopyFrom(other *Options) {
	if other == nil {
		return
	}
	for k, opt := range other.entries {
		o.Set(k, opt.clone())
	}
}

// Clone returns a deep copy of o.
func (o *Options) Clone() *Options {
	cloned := New()
	cloned.CopyFrom(o)

	return cloned
}

// Put stores v under key.
func Put[T Value](o *Options, key string, v T) {
	o.Set(key, NewOption(v))
}

// PutUnset declares key with type t and no value.
func PutUnset(o *Options, key string, t Type) {
	o.Set(key, Unset(t))
}

// Get returns the value stored under key if it is set and of type T.
//
// Returns:
//   - T: the value, or the zero value unless the status is KeySet
//   - Status: KeyAbsent, KeyExists (unset or other type) or KeySet
func Get[T Value](o *Options, key string) (T, Status) {
	var zero T

	opt, ok := o.Lookup(key)
	if !ok {
		return zero, KeyAbsent
	}
	if !opt.set {
		return zero, KeyExists
	}
	v, ok := opt.value.(T)
	if !ok {
		return zero, KeyExists
	}

	return v, KeySet
}

// GetOr returns the value under key, or def when it is not KeySet.
func GetOr[T Value](o *Options, key string, def T) T {
	if v, status := Get[T](o, key); status == KeySet {
		return v
	}

	return def
}

// Int returns the value under key widened to int64 when it holds any integer
// type. Values of uint64 above the int64 range report KeyExists.
func Int(o *Options, key string) (int64, Status) {
	opt, ok := o.Lookup(key)
	if !ok {
		return 0, KeyAbsent
	}
	if !opt.set {
		return 0, KeyExists
	}

	switch v := opt.value.(type) {
	case int32:
		return int64(v), KeySet
	case uint32:
		return int64(v), KeySet
	case int64:
		return v, KeySet
	case uint64:
		if v > 1<<63-1 {
			return 0, KeyExists
		}
		return int64(v), KeySet
	default:
		return 0, KeyExists
	}
}
