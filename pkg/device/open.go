package device

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/pkg/term"
)

// DefaultUSBTMCPath is the character device the Linux usbtmc driver creates for the first instrument.
const DefaultUSBTMCPath = "/dev/usbtmc0"

// OpenUSBTMC opens a USBTMC character device for reading and writing.
func OpenUSBTMC(path string) (*Line, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open usbtmc device: %w", err)
	}
	return NewLine(path, f), nil
}

// DialTCP connects to an instrument's raw SCPI socket (usually port 5025, or 5555 on Rigol).
func DialTCP(ctx context.Context, address string) (*Line, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial instrument: %w", err)
	}
	return NewLine(address, conn), nil
}

// OpenSerial opens an RS-232 instrument port in raw mode at the given baud rate.
func OpenSerial(path string, baud int) (*Line, error) {
	t, err := term.Open(path, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("open serial device: %w", err)
	}
	return NewLine(path, t), nil
}
