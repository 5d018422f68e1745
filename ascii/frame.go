package ascii

// ParseState identifies where the framer is in the incoming byte stream.
type ParseState int

const (
	// Idling means the framer is hunting for a start byte.
	Idling ParseState = iota
	// ReadingLength means the next byte is the payload length.
	ReadingLength
	// ReadingFixedPayload means the framer is accumulating a length-prefixed
	// binary payload.
	ReadingFixedPayload
	// ReadingUntilNewline means the framer is accumulating a text line
	// terminated by '\n'.
	ReadingUntilNewline
)

// FrameHandler receives each complete frame extracted from the stream. The
// slice aliases the framer's internal buffer and is only valid for the
// duration of the call.
type FrameHandler func(frame []byte)

// Framer extracts command frames from a continuous, possibly noisy byte
// stream. A frame is introduced by StartByte followed by a length byte: a
// nonzero length selects a fixed-size binary payload, a zero length selects
// newline-terminated text mode. Frames are emitted synchronously, in arrival
// order, via the handler.
//
// The only recovery mechanism from a corrupted length field is the length
// bound itself: a length byte >= MaxLineLength drops the frame and returns
// the framer to Idling. There is no timeout for a frame that stalls
// mid-payload; the framer waits indefinitely for the remaining bytes, so
// liveness is the caller's concern (cancel the session's read loop).
//
// A Framer is not safe for concurrent use. Each stream needs its own
// instance; the parse state must never be shared across streams.
type Framer struct {
	state      ParseState
	buf        [MaxLineLength]byte
	n          int
	payloadLen int
	handler    FrameHandler
}

// NewFramer returns a Framer that forwards complete frames to handler.
func NewFramer(handler FrameHandler) *Framer {
	return &Framer{handler: handler}
}

// State reports the framer's current parse state.
func (f *Framer) State() ParseState {
	return f.state
}

// Feed consumes a chunk of newly arrived bytes, emitting any frames they
// complete. The emitted frame sequence is independent of how the stream is
// chunked across Feed calls.
func (f *Framer) Feed(p []byte) {
	for _, c := range p {
		f.feedByte(c)
	}
}

func (f *Framer) feedByte(c byte) {
	switch f.state {
	case Idling:
		if c == StartByte {
			f.state = ReadingLength
		}

	case ReadingLength:
		switch {
		case int(c) >= MaxLineLength:
			// An oversized length is almost certainly a misread. Drop the
			// frame and go back to hunting for a start byte.
			f.reset()
		case c == 0:
			f.state = ReadingUntilNewline
		default:
			f.payloadLen = int(c)
			f.state = ReadingFixedPayload
		}

	case ReadingFixedPayload:
		f.buf[f.n] = c
		f.n++
		if f.n == f.payloadLen {
			f.emit()
		}

	case ReadingUntilNewline:
		if f.n == MaxLineLength {
			// The line overran the frame bound without a terminator.
			// Reject it outright; truncating would hand the interpreter a
			// command the sender never wrote.
			f.reset()
			return
		}
		f.buf[f.n] = c
		f.n++
		if c == '\n' {
			f.emit()
		}
	}
}

// emit forwards the accumulated frame, then clears the framer state. The
// handler runs synchronously; no further bytes are consumed until it
// returns.
func (f *Framer) emit() {
	frame := f.buf[:f.n]
	if f.handler != nil {
		f.handler(frame)
	}
	f.reset()
}

func (f *Framer) reset() {
	f.state = Idling
	f.n = 0
	f.payloadLen = 0
}
