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

// Package easyterm is a wrapper for "github.com/pkg/term". It opens the
// controlling terminal in raw mode, provides single key reads and restores
// the terminal on close.
//
// In raw mode the terminal does not translate newlines on output. Text
// written to the Terminal should use "\r\n" line endings.
package easyterm

import (
	"fmt"
	"sync"

	"github.com/pkg/term"
)

// DefaultDevice is the controlling terminal of the process.
const DefaultDevice = "/dev/tty"

// Terminal is the main container for posix terminals.
type Terminal struct {
	t *term.Term

	// writes from different goroutines are serialised so that escape
	// sequences and multi-byte output are not interleaved
	mu     sync.Mutex
	closed bool
}

// Open the named terminal device and put it into raw mode. An empty device
// name will use the DefaultDevice.
func Open(device string) (*Terminal, error) {
	if device == "" {
		device = DefaultDevice
	}

	t, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("easyterm: %w", err)
	}

	return &Terminal{t: t}, nil
}

// ReadKey blocks until a single byte is available from the terminal.
func (et *Terminal) ReadKey() (byte, error) {
	var b [1]byte
	for {
		n, err := et.t.Read(b[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return b[0], nil
		}
	}
}

// Write implements the io.Writer interface.
func (et *Terminal) Write(p []byte) (int, error) {
	et.mu.Lock()
	defer et.mu.Unlock()
	return et.t.Write(p)
}

// Print writes the formatted string to the terminal.
func (et *Terminal) Print(s string, a ...interface{}) {
	_, _ = et.Write([]byte(fmt.Sprintf(s, a...)))
}

// Close restores the terminal to the mode it was in before Open() and closes
// the device. A blocked ReadKey() will return with an error. Closing an
// already closed Terminal does nothing.
func (et *Terminal) Close() error {
	et.mu.Lock()
	defer et.mu.Unlock()
	if et.closed {
		return nil
	}
	et.closed = true
	if err := et.t.Restore(); err != nil {
		_ = et.t.Close()
		return fmt.Errorf("easyterm: %w", err)
	}
	return et.t.Close()
}
