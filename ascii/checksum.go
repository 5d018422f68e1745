package ascii

// Checksum XOR-folds p into a single byte.
func Checksum(p []byte) byte {
	var sum byte
	for _, b := range p {
		sum ^= b
	}
	return sum
}

// EncodeFixed16 converts v to a signed 16-bit fixed-point value at the given
// scale. The conversion truncates: values outside the int16 range wrap in
// two's complement rather than saturating. Peer decoders assume exactly this
// behavior, so it must not be "corrected" to saturation.
func EncodeFixed16(v, scale float64) int16 {
	return int16(int64(v * scale))
}

// DecodeFixed16 converts a signed 16-bit fixed-point value back to a float
// at the given scale.
func DecodeFixed16(raw int16, scale float64) float64 {
	return float64(raw) / scale
}
