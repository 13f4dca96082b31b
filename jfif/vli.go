package jfif

import "math/bits"

// DecodeVLI decodes JPEG's signed variable length integer: length bits
// hold either the value itself (leading bit 1) or value+(2^length-1)
// (leading bit 0). A length of 0 encodes 0.
//
//	length  values
//	  1     -1, 1
//	  2     -3..-2, 2..3
//	  3     -7..-4, 4..7
func DecodeVLI(value uint16, length uint) int32 {
	if length == 0 {
		return 0
	}
	if value>>(length-1) == 1 {
		return int32(value)
	}
	return int32(value) - (int32(1)<<length - 1)
}

// EncodeVLI returns the bit pattern and bit length that DecodeVLI maps back to v
func EncodeVLI(v int32) (value uint16, length uint) {
	if v == 0 {
		return 0, 0
	}
	magnitude := v
	if magnitude < 0 {
		magnitude = -magnitude
	}
	length = uint(bits.Len32(uint32(magnitude)))
	if v < 0 {
		return uint16(v + (int32(1)<<length - 1)), length
	}
	return uint16(v), length
}
