package ascii

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"
)

//go:generate go tool mockgen -source=transport.go -destination=mock_transport_test.go -package=ascii

// Transport represents an established, bidirectional byte stream carrying
// the command protocol.
//
// A Transport is assumed to be already connected and ready for use. Typical
// implementations include serial ports, TCP bridges, or in-memory fakes used
// for testing. Command responses are written to the same transport the
// commands arrived on.
type Transport interface {
	io.ReadWriteCloser
}

// Dialer opens a Transport to the controller's command stream.
//
// Dialer abstracts how the connection is created and is intended to be used
// during session construction only. Once a Transport is obtained, the Dialer
// is no longer needed.
type Dialer interface {
	// Dial creates and returns a connected Transport. It may perform
	// blocking operations and should respect cancellation and deadlines
	// provided by the context.
	Dial(ctx context.Context) (Transport, error)
}

// SerialDialer opens the command stream on a local serial port.
type SerialDialer struct {
	// PortName is the device path of the serial port, e.g. "/dev/ttyUSB0".
	PortName string
	// Mode configures baud rate, parity and framing. A nil Mode selects
	// 115200 8N1.
	Mode *serial.Mode
}

// Dial opens the configured serial port.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("ascii: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("ascii: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		mode = &serial.Mode{
			BaudRate: 115200,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", d.PortName, err)
	}
	return port, nil
}
