package cbf

import "math"

// everything on the link is little endian

func int16ToBytes(v int16) []byte {
	return []byte{byte(v), byte(uint16(v) >> 8)}
}

func bytesToInt16(b []byte) int16 {
	_ = b[1]
	return int16(uint16(b[0]) | (uint16(b[1]) << 8))
}

func bytesToUint16(b []byte) uint16 {
	_ = b[1]
	return uint16(b[0]) | (uint16(b[1]) << 8)
}

func bytesToFloat32(b []byte) float32 {
	_ = b[3]
	bits := uint32(b[0]) | (uint32(b[1]) << 8) | (uint32(b[2]) << 16) | (uint32(b[3]) << 24)
	return math.Float32frombits(bits)
}
