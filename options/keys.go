package options

// Well-known keys shared by every plugin.
const (
	KeyThreadSafe  = "pressio:thread_safe"
	KeyStability   = "pressio:stability"
	KeyDescription = "pressio:description"
)

// Stability levels reported under KeyStability.
const (
	StabilityStable       = "stable"
	StabilityUnstable     = "unstable"
	StabilityExperimental = "experimental"
)

// ThreadSafety describes how a plugin instance may be shared between goroutines.
// It is reported as an int32 under KeyThreadSafe.
type ThreadSafety int32

const (
	// ThreadSafetySingle means only one instance may be used at a time process-wide.
	ThreadSafetySingle ThreadSafety = 0
	// ThreadSafetySerialized means distinct instances may run concurrently but an
	// instance must not be shared.
	ThreadSafetySerialized ThreadSafety = 1
	// ThreadSafetyMultiple means an instance may be used from many goroutines.
	ThreadSafetyMultiple ThreadSafety = 2
)

func (t ThreadSafety) String() string {
	switch t {
	case ThreadSafetySingle:
		return "single"
	case ThreadSafetySerialized:
		return "serialized"
	case ThreadSafetyMultiple:
		return "multiple"
	default:
		return "unknown"
	}
}

// ThreadSafetyOf reads KeyThreadSafe from o, defaulting to ThreadSafetySingle.
func ThreadSafetyOf(o *Options) ThreadSafety {
	return ThreadSafety(GetOr(o, KeyThreadSafe, int32(ThreadSafetySingle)))
}

// Scoped joins a plugin prefix and an option name into a key.
func Scoped(prefix, name string) string {
	return prefix + ":" + name
}
