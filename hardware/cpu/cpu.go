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

// Package cpu is a stand-in for the board's processor. It is not an
// instruction accurate model of any real processor. It exists so that the
// engine has something to drive: instructions take between one and four
// clock pulses depending on the opcode and on retirement the CPU services the
// serial port and latches the switch register into memory.
//
// The serial service is a simple echo, as a ROM monitor would provide when
// sitting at its prompt.
package cpu

// Bus is the CPU's view of memory.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, data uint8)
}

// Serial is the CPU's view of the serial port.
type Serial interface {
	Receive() (byte, bool)
	Transmit(byte)
}

// Switches is the CPU's view of the switch register.
type Switches interface {
	Value() uint8
}

// SwitchLatch is the address in memory that the switch register is latched
// to on every instruction.
const SwitchLatch = 0xfff0

// CPU is the stand-in processor.
type CPU struct {
	PC uint16

	mem      Bus
	serial   Serial
	switches Switches

	opcode uint8
	cycle  int
	cycles int

	// monotonic counters
	Ticks   uint64
	Retired uint64
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU(mem Bus, serial Serial, switches Switches) *CPU {
	return &CPU{
		mem:      mem,
		serial:   serial,
		switches: switches,
	}
}

// Reset the CPU to the specified program counter. Any instruction in progress
// is abandoned.
func (mc *CPU) Reset(pc uint16) {
	mc.PC = pc
	mc.cycle = 0
	mc.cycles = 0
}

// Step the CPU by one clock pulse. Returns true if the pulse retired an
// instruction. The error is always nil for this CPU but is part of the
// signature expected by the engine.
func (mc *CPU) Step() (bool, error) {
	mc.Ticks++

	if mc.cycle == 0 {
		mc.opcode = mc.mem.Read(mc.PC)
		mc.cycles = 1 + int(mc.opcode&0x03)
	}

	mc.cycle++
	if mc.cycle < mc.cycles {
		return false, nil
	}

	mc.cycle = 0
	mc.PC++
	mc.Retired++

	if b, ok := mc.serial.Receive(); ok {
		mc.serial.Transmit(b)
	}
	mc.mem.Write(SwitchLatch, mc.switches.Value())

	return true, nil
}
