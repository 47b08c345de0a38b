// This file is part of Gopherboard.
//
// Gopherboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopherboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopherboard.  If not, see <https://www.gnu.org/licenses/>.

// Package bridge connects the board's serial port to a serial device on the
// host. Bytes received from the device are sent to the board and the board's
// output can be written to the device.
package bridge

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/logger"
)

// Sentinal errors.
const (
	BridgeError = "bridge: %s: %v"
)

// readTimeout is the longest a read from the device blocks before the
// context is checked
const readTimeout = 100 * time.Millisecond

// Port is a host serial device.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Sender is the board's serial port.
type Sender interface {
	SendAsync(b byte)
}

// Bridge between a host device and the board.
type Bridge struct {
	device string
	port   Port
}

// Open the named device at the specified baud rate. The device is configured
// for eight data bits, no parity and one stop bit.
func Open(device string, baud int) (*Bridge, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, curated.Errorf(BridgeError, device, err)
	}

	logger.Logf(logger.Allow, "bridge", "opened %s at %d baud", device, baud)

	return NewBridge(device, port), nil
}

// NewBridge creates a bridge to an already opened port.
func NewBridge(device string, port Port) *Bridge {
	return &Bridge{
		device: device,
		port:   port,
	}
}

// Ports returns the list of serial devices on the host.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, curated.Errorf(BridgeError, "ports", err)
	}
	return ports, nil
}

func (b *Bridge) String() string {
	return b.device
}

// Write implements the io.Writer interface. Output from the board is written
// to the device.
func (b *Bridge) Write(p []byte) (int, error) {
	n, err := b.port.Write(p)
	if err != nil {
		return n, curated.Errorf(BridgeError, b.device, err)
	}
	return n, nil
}

// Forward bytes read from the device to the board until the context is
// cancelled or the device fails.
func (b *Bridge) Forward(ctx context.Context, dest Sender) error {
	if err := b.port.SetReadTimeout(readTimeout); err != nil {
		return curated.Errorf(BridgeError, b.device, err)
	}

	buf := make([]byte, 64)
	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := b.port.Read(buf)
		for _, c := range buf[:n] {
			dest.SendAsync(c)
		}
		if err != nil {
			if err == io.EOF {
				logger.Logf(logger.Allow, "bridge", "%s closed", b.device)
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return curated.Errorf(BridgeError, b.device, err)
		}
	}
}

// Close the device.
func (b *Bridge) Close() error {
	if err := b.port.Close(); err != nil {
		return curated.Errorf(BridgeError, b.device, err)
	}
	return nil
}

// Describe returns a description of the bridge suitable for the log.
func Describe(device string, baud int) string {
	if device == "" {
		return "no bridge"
	}
	return fmt.Sprintf("%s at %d baud", device, baud)
}
