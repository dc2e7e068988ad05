package compress

import "github.com/klauspost/compress/s2"

// S2Codec compresses with S2, a faster extension of Snappy.
type S2Codec struct {
	level int
}

var _ Codec = S2Codec{}

// NewS2Codec creates an S2 codec. Level 1 is the default encoder, 2 the
// "better" encoder and 3 the "best" encoder.
func NewS2Codec(level int) (S2Codec, error) {
	if err := checkLevel(S2, level, 1, 3); err != nil {
		return S2Codec{}, err
	}

	return S2Codec{level: level}, nil
}

// Compress encodes data as an S2 block.
func (c S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	switch c.level {
	case 3:
		return s2.EncodeBest(nil, data), nil
	case 2:
		return s2.EncodeBetter(nil, data), nil
	default:
		return s2.Encode(nil, data), nil
	}
}

// Decompress decodes an S2 block. All levels share one block format.
func (c S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
