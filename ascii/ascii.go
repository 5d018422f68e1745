// Package ascii implements the line-oriented, checksum-protected command
// protocol used to operate and introspect the motion controller over a raw
// byte stream.
//
// Incoming bytes pass through a Framer that recovers command frames from the
// stream, an Interpreter that executes each frame against the control plane,
// and a response formatter that writes replies back using the same physical
// framing. The control plane itself (axes, property store, persistence) is
// consumed through narrow interfaces; see Interpreter.
package ascii

const (
	// StartByte introduces every frame on the wire, in both directions.
	StartByte = 0x01

	// MaxLineLength bounds a single command frame. A length byte at or above
	// this value is treated as a misread and resynchronizes the framer.
	MaxLineLength = 128

	// AxisCount is the number of motor axes addressable by commands.
	AxisCount = 2
)

// Fixed-point scale factors used by the binary sub-messages.
const (
	// GainScale gives 0.01 resolution for currents and gains.
	// Receivable range is -327.67 to 327.67.
	GainScale = 100.0

	// PositionScale gives roughly one encoder count of resolution for
	// positions. Receivable range is -32.767 to 32.767 radians.
	PositionScale = 1000.0
)

// DeviceInfo holds the static identification data reported by the 'i'
// command.
type DeviceInfo struct {
	HWVersionMajor    int
	HWVersionMinor    int
	HWVersionVoltage  int
	FWVersionMajor    int
	FWVersionMinor    int
	FWVersionRevision int
	SerialNumber      string
}
