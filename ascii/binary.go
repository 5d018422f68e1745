package ascii

import "encoding/binary"

// Binary sub-messages arrive as the raw bytes of a complete frame. The outer
// framer guarantees that length-prefixed frames are never split, but a binary
// command sent through the newline-terminated path must avoid the byte value
// 0x0A anywhere in its payload (it would terminate the frame early) and may
// contain 0x01 anywhere except where the framer is Idling. This is a known
// protocol fragility inherited from the wire format; it is documented here
// rather than special-cased.

const (
	dualCurrentLen    = 6
	coupledCommandLen = 14
	positionReplyLen  = 6
)

// DualCurrent is the decoded form of the 'C' sub-message: two per-axis
// quantities at GainScale resolution.
type DualCurrent struct {
	I0 float64
	I1 float64
}

// ParseDualCurrent decodes a dual-current command: tag 'C', two little-endian
// int16 values at GainScale, and a trailing checksum over the first five
// bytes. Returns ErrBadLength or ErrChecksumMismatch on a malformed message;
// the decoded values must not be applied in that case.
func ParseDualCurrent(msg []byte) (DualCurrent, error) {
	if len(msg) != dualCurrentLen {
		return DualCurrent{}, ErrBadLength
	}
	if Checksum(msg[:5]) != msg[5] {
		return DualCurrent{}, ErrChecksumMismatch
	}
	return DualCurrent{
		I0: DecodeFixed16(int16(binary.LittleEndian.Uint16(msg[1:3])), GainScale),
		I1: DecodeFixed16(int16(binary.LittleEndian.Uint16(msg[3:5])), GainScale),
	}, nil
}

// CoupledCommand is the decoded form of the 'S' sub-message: coupled
// set-points at PositionScale and four gains at GainScale.
type CoupledCommand struct {
	SPTheta float64
	KPTheta float64
	KDTheta float64
	SPGamma float64
	KPGamma float64
	KDGamma float64
}

// ParseCoupledCommand decodes a coupled-control command: tag 'S', six
// little-endian int16 values, and a trailing checksum over the first
// thirteen bytes. Field order on the wire is sp_theta, kp_theta, kd_theta,
// sp_gamma, kp_gamma, kd_gamma.
func ParseCoupledCommand(msg []byte) (CoupledCommand, error) {
	if len(msg) != coupledCommandLen {
		return CoupledCommand{}, ErrBadLength
	}
	if Checksum(msg[:13]) != msg[13] {
		return CoupledCommand{}, ErrChecksumMismatch
	}
	field := func(off int) int16 {
		return int16(binary.LittleEndian.Uint16(msg[off : off+2]))
	}
	return CoupledCommand{
		SPTheta: DecodeFixed16(field(1), PositionScale),
		KPTheta: DecodeFixed16(field(3), GainScale),
		KDTheta: DecodeFixed16(field(5), GainScale),
		SPGamma: DecodeFixed16(field(7), PositionScale),
		KPGamma: DecodeFixed16(field(9), GainScale),
		KDGamma: DecodeFixed16(field(11), GainScale),
	}, nil
}
