package compress

import "github.com/golang/snappy"

// SnappyCodec compresses with the Snappy block format.
type SnappyCodec struct{}

var _ Codec = SnappyCodec{}

// NewSnappyCodec creates a Snappy codec. Snappy has no levels.
func NewSnappyCodec() SnappyCodec {
	return SnappyCodec{}
}

// Compress encodes data as a Snappy block.
func (SnappyCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Encode(nil, data), nil
}

// Decompress decodes a Snappy block.
func (SnappyCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Decode(nil, data)
}
