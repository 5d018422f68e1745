package ascii

import "errors"

var (
	// ErrBadLength is returned when a binary sub-message does not have the
	// exact length its tag requires.
	//
	// Decoded values from a message that failed this check must not be
	// applied to the control plane.
	ErrBadLength = errors.New("ascii: wrong binary message length")

	// ErrChecksumMismatch is returned when the trailing checksum byte of a
	// binary sub-message does not match the XOR of the preceding bytes.
	ErrChecksumMismatch = errors.New("ascii: checksum mismatch")

	// ErrNilTransport is returned when a Session is constructed without a
	// transport.
	ErrNilTransport = errors.New("ascii: transport cannot be nil")

	// ErrNilInterpreter is returned when a Session is constructed without an
	// interpreter.
	ErrNilInterpreter = errors.New("ascii: interpreter cannot be nil")

	// ErrSessionRunning is returned when Run is called on a Session whose
	// loop is already active.
	ErrSessionRunning = errors.New("ascii: session already running")
)
