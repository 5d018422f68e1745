package ascii

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Session ties one Transport to one Framer and one Interpreter. It owns the
// per-connection parse state: multiple concurrent streams each need their
// own Session.
//
// The read loop is the only goroutine touching the transport's read side.
// Frame processing is serialized with out-of-band command injection, so the
// interpreter only ever runs in one context at a time.
type Session struct {
	transport Transport
	interp    *Interpreter
	framer    *Framer
	logger    *slog.Logger

	// mu serializes frame processing with Inject.
	mu      sync.Mutex
	running bool
}

// NewSession creates a Session for an established transport.
func NewSession(transport Transport, interp *Interpreter, logger *slog.Logger) (*Session, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	if interp == nil {
		return nil, ErrNilInterpreter
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		transport: transport,
		interp:    interp,
		logger:    logger,
	}
	s.framer = NewFramer(s.process)
	return s, nil
}

// process executes one complete frame against the transport. Called
// synchronously from the framer.
func (s *Session) process(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interp.ProcessLine(frame, s.transport)
}

// Inject runs one command line out of band, bypassing the stream framing,
// and returns the raw response bytes. Used by the HTTP command bridge. The
// line is processed under the same lock as stream frames, preserving the
// single-writer discipline toward the axes.
func (s *Session) Inject(line string) []byte {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var buf bytes.Buffer
	s.interp.ProcessLine([]byte(line), &buf)
	return buf.Bytes()
}

// Run reads the transport until the context is cancelled or the transport
// fails, feeding every received chunk to the framer. Responses are written
// inline by the interpreter as frames complete. Run must be called at most
// once at a time per Session.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSessionRunning
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	chunks := make(chan []byte, 10)
	readErrs := make(chan error, 1)

	// The transport read blocks, so it lives on its own goroutine; the loop
	// below stays responsive to cancellation.
	go func() {
		defer close(chunks)
		buf := make([]byte, 256)
		for {
			n, err := s.transport.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				select {
				case readErrs <- err:
				case <-ctx.Done():
				}
				return
			}
		}
	}()

	s.logger.Debug("session started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case chunk, ok := <-chunks:
			if !ok {
				select {
				case err := <-readErrs:
					if err == io.EOF {
						s.logger.Debug("transport closed")
						return io.EOF
					}
					return fmt.Errorf("read error: %w", err)
				default:
					return io.EOF
				}
			}
			s.framer.Feed(chunk)
		}
	}
}
