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
	"github.com/jetsetilly/gopherboard/curated"
)

// Sentinal error returned by Memory.Write() for an address outside of the
// 16-bit address space.
const (
	AddressRange = "memory: address out of range (%#x)"
)

// MemorySize is the size of the board's address space.
const MemorySize = 0x10000

// Memory is the board's RAM. It is not safe for concurrent use on its own.
// Access is serialised by the Board type.
type Memory struct {
	data [MemorySize]uint8
}

// Read implements the cpu.Bus interface.
func (mem *Memory) Read(address uint16) uint8 {
	return mem.data[address]
}

// Write implements the cpu.Bus interface.
func (mem *Memory) Write(address uint16, data uint8) {
	mem.data[address] = data
}

// loader adapts Memory to the srecord.Memory interface, which uses 32-bit
// addressing.
type loader struct {
	mem *Memory
}

func (ld loader) Write(address uint32, data uint8) error {
	if address >= MemorySize {
		return curated.Errorf(AddressRange, address)
	}
	ld.mem.data[address] = data
	return nil
}
