package metrics

import (
	"fmt"

	"github.com/arloliu/pressio/data"
	"github.com/arloliu/pressio/options"
)

// Event identifies a compressor operation bracketed by a begin/end hook pair.
type Event uint8

const (
	EventCheckOptions Event = iota + 1
	EventSetOptions
	EventGetOptions
	EventGetConfiguration
	EventGetDocumentation
	EventCompress
	EventDecompress
	EventCompressMany
	EventDecompressMany
)

// Events lists every event in declaration order.
var Events = []Event{
	EventCheckOptions,
	EventSetOptions,
	EventGetOptions,
	EventGetConfiguration,
	EventGetDocumentation,
	EventCompress,
	EventDecompress,
	EventCompressMany,
	EventDecompressMany,
}

func (e Event) String() string {
	switch e {
	case EventCheckOptions:
		return "check_options"
	case EventSetOptions:
		return "set_options"
	case EventGetOptions:
		return "get_options"
	case EventGetConfiguration:
		return "get_configuration"
	case EventGetDocumentation:
		return "get_documentation"
	case EventCompress:
		return "compress"
	case EventDecompress:
		return "decompress"
	case EventCompressMany:
		return "compress_many"
	case EventDecompressMany:
		return "decompress_many"
	default:
		return "unknown"
	}
}

// ParseEvent returns the Event named s.
func ParseEvent(s string) (Event, error) {
	for _, e := range Events {
		if e.String() == s {
			return e, nil
		}
	}

	return 0, fmt.Errorf("unknown metrics event %q", s)
}

// EventNames returns the names of every event.
func EventNames() []string {
	names := make([]string, len(Events))
	for i, e := range Events {
		names[i] = e.String()
	}

	return names
}

// Call carries the arguments of the operation an event brackets.
//
// Which fields are populated depends on the event:
//   - option events: Options is the bag passed in (check/set) or produced
//     (get_options, get_configuration, get_documentation; only on End)
//   - single-buffer events: Inputs and Outputs hold exactly one buffer each
//   - many-buffer events: Inputs and Outputs hold the caller's slices
//
// Collectors must treat a Call as read-only.
type Call struct {
	Options *options.Options
	Inputs  []*data.Data
	Outputs []*data.Data
}

// Input returns the first input buffer, or nil.
func (c *Call) Input() *data.Data {
	if c == nil || len(c.Inputs) == 0 {
		return nil
	}

	return c.Inputs[0]
}

// Output returns the first output buffer, or nil.
func (c *Call) Output() *data.Data {
	if c == nil || len(c.Outputs) == 0 {
		return nil
	}

	return c.Outputs[0]
}
