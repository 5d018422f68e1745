package ascii

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// respond writes one text response using the physical framing shared with
// the input side: start byte, a zero length byte marking newline
// termination, the message, an optional "*<decimal checksum>" field, and a
// trailing CR-LF. Write errors are not reported; the protocol is
// fire-and-forget and the remote peer is responsible for resending.
func (in *Interpreter) respond(out io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	buf := make([]byte, 0, len(msg)+8)
	buf = append(buf, StartByte, 0)
	buf = append(buf, msg...)
	if in.IncludeChecksum {
		buf = append(buf, fmt.Sprintf("*%d", Checksum([]byte(msg)))...)
	}
	buf = append(buf, '\r', '\n')

	_, _ = out.Write(buf)
}

// sendPositionReply reports both motor angles as the coupled theta/gamma
// pair: tag 'P', two little-endian int16 values at PositionScale, one
// checksum byte over tag and payload. The reply is binary framed (length
// byte 6, no CR-LF), matching the C and S command reply contract.
//
// Unlike the encode path elsewhere, the two derived angles are clamped to
// +-30 radians before encoding so the fixed-point representation cannot wrap
// silently on runaway positions.
func (in *Interpreter) sendPositionReply(out io.Writer) {
	alpha := in.Axes[0].EncoderToRadians(in.Axes[0].PositionEstimate()) + math.Pi/2
	beta := in.Axes[1].EncoderToRadians(in.Axes[1].PositionEstimate()) - math.Pi/2

	alpha = clamp(alpha, -30, 30)
	beta = clamp(beta, -30, 30)

	theta := EncodeFixed16(alpha/2+beta/2, PositionScale)
	gamma := EncodeFixed16(alpha/2-beta/2, PositionScale)

	var msg [2 + positionReplyLen]byte
	msg[0] = StartByte
	msg[1] = positionReplyLen
	msg[2] = 'P'
	binary.LittleEndian.PutUint16(msg[3:5], uint16(theta))
	binary.LittleEndian.PutUint16(msg[5:7], uint16(gamma))
	msg[7] = Checksum(msg[2:7])

	_, _ = out.Write(msg[:])
}

func clamp(v, min, max float64) float64 {
	if v > max {
		return max
	}
	if v < min {
		return min
	}
	return v
}
