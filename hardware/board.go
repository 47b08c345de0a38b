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

package hardware

import (
	"context"
	"io"
	"sync"

	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/hardware/cpu"
	"github.com/jetsetilly/gopherboard/hardware/serial"
	"github.com/jetsetilly/gopherboard/hardware/srecord"
	"github.com/jetsetilly/gopherboard/hardware/switches"
	"github.com/jetsetilly/gopherboard/logger"
)

// Board is the main container for the components of the simulated board.
//
// Every mutation of the board is a discrete operation guarded by a single
// critical section: Step(), ToggleSwitch(), LoadFromText() and Reset(). The
// serial port is synchronised by its own FIFO so Send() and SendAsync() do not
// need the critical section and will not contend with Step().
type Board struct {
	crit sync.Mutex

	CPU      *cpu.CPU
	Mem      *Memory
	Serial   *serial.Port
	Switches *switches.Register
}

// NewBoard creates a new board and everything associated with the hardware.
func NewBoard() *Board {
	brd := &Board{
		Mem:      &Memory{},
		Serial:   serial.NewPort("A", serial.DefaultFIFODepth),
		Switches: switches.NewRegister(0),
	}
	brd.CPU = cpu.NewCPU(brd.Mem, brd.Serial, brd.Switches)
	return brd
}

// Step the board by one clock pulse. Returns true if an instruction was
// retired.
func (brd *Board) Step() (bool, error) {
	brd.crit.Lock()
	defer brd.crit.Unlock()
	return brd.CPU.Step()
}

// Ticks returns the number of clock pulses since the board was created.
func (brd *Board) Ticks() uint64 {
	brd.crit.Lock()
	defer brd.crit.Unlock()
	return brd.CPU.Ticks
}

// PC returns the current program counter.
func (brd *Board) PC() uint16 {
	brd.crit.Lock()
	defer brd.crit.Unlock()
	return brd.CPU.PC
}

// ToggleSwitch toggles the switch at index (0 to 7).
func (brd *Board) ToggleSwitch(index int) error {
	brd.crit.Lock()
	defer brd.crit.Unlock()
	return brd.Switches.Toggle(index)
}

// SwitchValue returns the value of the switch register.
func (brd *Board) SwitchValue() uint8 {
	return brd.Switches.Value()
}

// Send a byte to the primary serial port, blocking while the port's FIFO is
// full.
func (brd *Board) Send(b byte) error {
	return brd.Serial.Send(b)
}

// SendContext is the same as Send() but gives up when the context is done.
func (brd *Board) SendContext(ctx context.Context, b byte) error {
	return brd.Serial.SendContext(ctx, b)
}

// SendAsync sends a byte to the primary serial port without blocking.
func (brd *Board) SendAsync(b byte) {
	brd.Serial.SendAsync(b)
}

// LoadFromText preloads memory from S-record text. If the text contains a
// start address the CPU is reset to that address.
func (brd *Board) LoadFromText(r io.Reader) error {
	brd.crit.Lock()
	defer brd.crit.Unlock()

	res, err := srecord.Load(r, loader{mem: brd.Mem})
	if err != nil {
		return curated.Errorf("board: %v", err)
	}

	if res.HasStart {
		brd.CPU.Reset(uint16(res.Start))
	}

	logger.Logf(logger.Allow, "board", "loaded %d bytes (start %#04x)", res.Bytes, brd.CPU.PC)

	return nil
}

// Reset the CPU to address zero. Memory and switches are not affected.
func (brd *Board) Reset() {
	brd.crit.Lock()
	defer brd.crit.Unlock()
	brd.CPU.Reset(0)
}

// Close releases goroutines blocked on the serial port.
func (brd *Board) Close() {
	brd.Serial.Close()
}
