package data

import "encoding/binary"

// ByteOrderEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface.
//
// Both binary.LittleEndian and binary.BigEndian satisfy it.
type ByteOrderEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Payload bytes of typed buffers are little-endian regardless of the host.
var payloadOrder ByteOrderEngine = binary.LittleEndian

// PayloadOrder returns the byte order used for typed element payloads.
func PayloadOrder() ByteOrderEngine {
	return payloadOrder
}
