package ascii

import (
	"io"
	"strconv"
	"strings"
)

// Axis is the per-motor control-plane collaborator. Implementations are
// expected to tolerate a single-writer/concurrent-reader discipline: the
// interpreter is the only writer, while a real-time control loop may read
// concurrently. The interpreter resolves axes per command and never caches
// state across commands.
type Axis interface {
	SetPositionSetpoint(pos, velFF, currentFF float64)
	SetVelocitySetpoint(vel, currentFF float64)
	SetCurrentSetpoint(current float64)
	SetCoupledSetpoints(theta, gamma float64)
	SetCoupledGains(kpTheta, kdTheta, kpGamma, kdGamma float64)
	MoveToPosition(goal float64)
	FeedWatchdog()
	PositionEstimate() float64
	VelocityEstimate() float64
	SetVelocityLimit(limit float64)
	SetCurrentLimit(limit float64)
	EncoderToRadians(counts float64) float64
}

// Property is a named, typed scalar resolved from the property store. Get
// reports false when the property cannot render itself as a string; Set
// reports false when the property does not support writing.
type Property interface {
	GetString() (string, bool)
	SetString(value string) bool
}

// PropertyStore resolves dotted-path property names for the r and w
// commands.
type PropertyStore interface {
	Lookup(path string) (Property, bool)
}

// Saver persists the controller configuration on request. The call is
// fire-and-forget; its outcome is not inspected by the protocol.
type Saver interface {
	SaveConfiguration()
}

// Interpreter executes command lines against the control plane and writes
// responses to the caller-supplied sink. Every failure is local: at most one
// diagnostic response is emitted and no control-plane state is mutated.
type Interpreter struct {
	Axes       [AxisCount]Axis
	Properties PropertyStore
	Saver      Saver
	Info       DeviceInfo

	// IncludeChecksum appends a "*<decimal>" checksum field to text
	// responses. Off by default; peers in the field do not expect it.
	IncludeChecksum bool
}

// handler executes one command variant; cmd[0] is the tag.
type handler func(in *Interpreter, cmd []byte, out io.Writer)

// command pairs a handler with how its frame is delivered. Binary commands
// receive the raw frame bytes untouched: their fixed-length contract is the
// length check, so a binary message pushed through the newline-terminated
// path (which appends 0x0A to the frame) fails to parse rather than being
// silently repaired.
type command struct {
	run    handler
	binary bool
}

// commands is a closed dispatch table keyed by the command tag. Adding a
// command means adding exactly one entry here.
var commands = map[byte]command{
	'p': {run: (*Interpreter).handlePosition},
	'q': {run: (*Interpreter).handlePositionWithLimits},
	'v': {run: (*Interpreter).handleVelocity},
	'c': {run: (*Interpreter).handleCurrent},
	'C': {run: (*Interpreter).handleDualCurrent, binary: true},
	'S': {run: (*Interpreter).handleCoupledCommand, binary: true},
	't': {run: (*Interpreter).handleTrapezoidalMove},
	'f': {run: (*Interpreter).handleFeedback},
	'h': {run: (*Interpreter).handleHelp},
	'i': {run: (*Interpreter).handleInfo},
	's': {run: (*Interpreter).handleSave},
	'r': {run: (*Interpreter).handleReadProperty},
	'w': {run: (*Interpreter).handleWriteProperty},
	'u': {run: (*Interpreter).handleWatchdog},
}

// ProcessLine executes one complete frame. For text commands the trailing
// newline added by newline-terminated framing (and an optional preceding
// '\r') is stripped before dispatch. An empty line produces no response and
// no effect; an unrecognized tag responds "unknown command".
func (in *Interpreter) ProcessLine(frame []byte, out io.Writer) {
	if len(frame) > MaxLineLength {
		frame = frame[:MaxLineLength]
	}
	if len(frame) == 0 {
		return
	}

	tag := frame[0]
	if tag == '\n' || tag == '\r' {
		return
	}

	c, ok := commands[tag]
	if !ok {
		in.respond(out, "unknown command")
		return
	}

	cmd := frame
	if !c.binary {
		cmd = trimLineEnding(cmd)
	}
	c.run(in, cmd, out)
}

// trimLineEnding strips one trailing '\n' and, if present, the '\r' before
// it.
func trimLineEnding(frame []byte) []byte {
	n := len(frame)
	if n > 0 && frame[n-1] == '\n' {
		n--
		if n > 0 && frame[n-1] == '\r' {
			n--
		}
	}
	return frame[:n]
}

// scanArgs parses whitespace-delimited arguments following the command tag
// into dst, which may hold *uint, *float64 or *string destinations. It
// returns how many destinations were filled: scanning stops at the first
// field that is missing or fails to parse, and extra trailing fields are
// ignored. This mirrors the prefix-tolerant scan the wire peers rely on for
// optional trailing arguments.
func scanArgs(args string, dst ...any) int {
	fields := strings.Fields(args)
	n := 0
	for i, d := range dst {
		if i >= len(fields) {
			break
		}
		switch p := d.(type) {
		case *uint:
			v, err := strconv.ParseUint(fields[i], 10, 32)
			if err != nil {
				return n
			}
			*p = uint(v)
		case *float64:
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return n
			}
			*p = v
		case *string:
			*p = fields[i]
		}
		n++
	}
	return n
}

func (in *Interpreter) handlePosition(cmd []byte, out io.Writer) {
	var motor uint
	var pos, velFF, currentFF float64
	n := scanArgs(string(cmd[1:]), &motor, &pos, &velFF, &currentFF)
	switch {
	case n < 2:
		in.respond(out, "invalid command format")
	case motor >= AxisCount:
		in.respond(out, "invalid motor %d", motor)
	default:
		axis := in.Axes[motor]
		axis.SetPositionSetpoint(pos, velFF, currentFF)
		axis.FeedWatchdog()
	}
}

func (in *Interpreter) handlePositionWithLimits(cmd []byte, out io.Writer) {
	var motor uint
	var pos, velLimit, currentLimit float64
	n := scanArgs(string(cmd[1:]), &motor, &pos, &velLimit, &currentLimit)
	switch {
	case n < 2:
		in.respond(out, "invalid command format")
	case motor >= AxisCount:
		in.respond(out, "invalid motor %d", motor)
	default:
		axis := in.Axes[motor]
		axis.SetPositionSetpoint(pos, 0, 0)
		if n >= 3 {
			axis.SetVelocityLimit(velLimit)
		}
		if n >= 4 {
			axis.SetCurrentLimit(currentLimit)
		}
		axis.FeedWatchdog()
	}
}

func (in *Interpreter) handleVelocity(cmd []byte, out io.Writer) {
	var motor uint
	var vel, currentFF float64
	n := scanArgs(string(cmd[1:]), &motor, &vel, &currentFF)
	switch {
	case n < 2:
		in.respond(out, "invalid command format")
	case motor >= AxisCount:
		in.respond(out, "invalid motor %d", motor)
	default:
		axis := in.Axes[motor]
		axis.SetVelocitySetpoint(vel, currentFF)
		axis.FeedWatchdog()
	}
}

func (in *Interpreter) handleCurrent(cmd []byte, out io.Writer) {
	var motor uint
	var current float64
	n := scanArgs(string(cmd[1:]), &motor, &current)
	switch {
	case n < 2:
		in.respond(out, "invalid command format")
	case motor >= AxisCount:
		in.respond(out, "invalid motor %d", motor)
	default:
		axis := in.Axes[motor]
		axis.SetCurrentSetpoint(current)
		axis.FeedWatchdog()
	}
}

func (in *Interpreter) handleDualCurrent(cmd []byte, out io.Writer) {
	dc, err := ParseDualCurrent(cmd)
	if err != nil {
		in.respond(out, "Failed on parse or checksum: ")
		in.respond(out, "%s", cmd)
		return
	}

	// Wire quirk kept for compatibility: the decoded values are rescaled by
	// a constant 1000 before being applied as coupled set-points.
	theta := dc.I0 / PositionScale
	gamma := dc.I1 / PositionScale

	in.Axes[0].SetCoupledSetpoints(theta, gamma)
	in.Axes[1].SetCoupledSetpoints(theta, gamma)

	in.sendPositionReply(out)
}

func (in *Interpreter) handleCoupledCommand(cmd []byte, out io.Writer) {
	cc, err := ParseCoupledCommand(cmd)
	if err != nil {
		in.respond(out, "Failed to parse coupled command: ")
		in.respond(out, "%s", cmd)
		return
	}

	for _, axis := range in.Axes {
		axis.SetCoupledSetpoints(cc.SPTheta, cc.SPGamma)
		axis.SetCoupledGains(cc.KPTheta, cc.KDTheta, cc.KPGamma, cc.KDGamma)
	}

	in.sendPositionReply(out)
}

func (in *Interpreter) handleTrapezoidalMove(cmd []byte, out io.Writer) {
	var motor uint
	var goal float64
	n := scanArgs(string(cmd[1:]), &motor, &goal)
	switch {
	case n < 2:
		in.respond(out, "invalid command format")
	case motor >= AxisCount:
		in.respond(out, "invalid motor %d", motor)
	default:
		axis := in.Axes[motor]
		axis.MoveToPosition(goal)
		axis.FeedWatchdog()
	}
}

func (in *Interpreter) handleFeedback(cmd []byte, out io.Writer) {
	var motor uint
	n := scanArgs(string(cmd[1:]), &motor)
	switch {
	case n < 1:
		in.respond(out, "invalid command format")
	case motor >= AxisCount:
		in.respond(out, "invalid motor %d", motor)
	default:
		axis := in.Axes[motor]
		in.respond(out, "%f %f", axis.PositionEstimate(), axis.VelocityEstimate())
	}
}

var helpText = []string{
	"Please see documentation for more details",
	"",
	"Available commands syntax reference:",
	"Device Info: i",
	"Position: q axis pos vel-lim I-lim",
	"Position: p axis pos vel-ff I-ff",
	"Velocity: v axis vel I-ff",
	"Current: c axis I",
	"Current to both motors with response: C I0 I1",
	"",
	"Properties start at odrive root, such as axis0.requested_state",
	"Read: r property",
	"Write: w property value",
	"",
	"Save config: ss",
	"Erase config: se",
	"Reboot: sr",
}

func (in *Interpreter) handleHelp(_ []byte, out io.Writer) {
	for _, line := range helpText {
		in.respond(out, "%s", line)
	}
}

func (in *Interpreter) handleInfo(_ []byte, out io.Writer) {
	in.respond(out, "Hardware version: %d.%d-%dV",
		in.Info.HWVersionMajor, in.Info.HWVersionMinor, in.Info.HWVersionVoltage)
	in.respond(out, "Firmware version: %d.%d.%d",
		in.Info.FWVersionMajor, in.Info.FWVersionMinor, in.Info.FWVersionRevision)
	in.respond(out, "Serial number: %s", in.Info.SerialNumber)
}

func (in *Interpreter) handleSave(_ []byte, _ io.Writer) {
	if in.Saver != nil {
		in.Saver.SaveConfiguration()
	}
}

func (in *Interpreter) handleReadProperty(cmd []byte, out io.Writer) {
	var name string
	n := scanArgs(string(cmd[1:]), &name)
	if n < 1 {
		in.respond(out, "invalid command format")
		return
	}
	prop, ok := in.Properties.Lookup(name)
	if !ok {
		in.respond(out, "invalid property")
		return
	}
	value, ok := prop.GetString()
	if !ok {
		in.respond(out, "not implemented")
		return
	}
	in.respond(out, "%s", value)
}

func (in *Interpreter) handleWriteProperty(cmd []byte, out io.Writer) {
	var name, value string
	n := scanArgs(string(cmd[1:]), &name, &value)
	if n < 2 {
		in.respond(out, "invalid command format")
		return
	}
	prop, ok := in.Properties.Lookup(name)
	if !ok {
		in.respond(out, "invalid property")
		return
	}
	if !prop.SetString(value) {
		in.respond(out, "not implemented")
	}
}

func (in *Interpreter) handleWatchdog(cmd []byte, out io.Writer) {
	var motor uint
	n := scanArgs(string(cmd[1:]), &motor)
	switch {
	case n < 1:
		in.respond(out, "invalid command format")
	case motor >= AxisCount:
		in.respond(out, "invalid motor %d", motor)
	default:
		in.Axes[motor].FeedWatchdog()
	}
}
