package compress

// ZstdCodec compresses with Zstandard.
//
// The backend is selected at build time, see zstd_pure.go and zstd_cgo.go.
type ZstdCodec struct {
	level int
}

var _ Codec = ZstdCodec{}

// NewZstdCodec creates a Zstandard codec. level follows libzstd numbering
// (1-22).
func NewZstdCodec(level int) (ZstdCodec, error) {
	if err := checkLevel(Zstd, level, 1, 22); err != nil {
		return ZstdCodec{}, err
	}

	return ZstdCodec{level: level}, nil
}

// Level returns the configured compression level.
func (c ZstdCodec) Level() int {
	return c.level
}
