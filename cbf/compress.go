package cbf

// Compress quantizes a physical quantity to signed milliunits for the
// wire. The cast truncates toward zero, so the round trip through
// Expand is lossy by at most 1/CompressionScale. Magnitudes beyond
// +-32.767 overflow the int16 range undetected; callers keep their
// inputs inside that envelope.
func Compress(x float64) int16 {
	return int16(x * CompressionScale)
}

// Expand is the inverse of Compress.
func Expand(v int16) float64 {
	return float64(v) / CompressionScale
}
