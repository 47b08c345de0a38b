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

// Package switches implements the bank of eight parallel switches on the
// board. The switches are presented to the CPU as a single 8-bit register.
//
// Switches are indexed 0 to 7 from the left of the bank. Index 0 is the most
// significant bit of the register. Toggling a switch inverts bit (7-index).
package switches

import (
	"strings"
	"sync"

	"github.com/jetsetilly/gopherboard/curated"
)

// NumSwitches is the number of switches in the bank.
const NumSwitches = 8

// Sentinal error returned by Toggle() for an out of range index.
const (
	InvalidSwitch = "switches: invalid switch index (%d)"
)

// Register is the switch register. It is safe to use from multiple goroutines.
type Register struct {
	crit  sync.Mutex
	value uint8
}

// NewRegister is the preferred method of initialisation for the Register
// type.
func NewRegister(value uint8) *Register {
	return &Register{value: value}
}

// String returns the switch positions, leftmost first. A set switch is shown
// as 1.
func (r *Register) String() string {
	v := r.Value()
	s := strings.Builder{}
	for i := 0; i < NumSwitches; i++ {
		if v&mask(i) != 0 {
			s.WriteRune('1')
		} else {
			s.WriteRune('0')
		}
	}
	return s.String()
}

func mask(index int) uint8 {
	return 0x01 << (7 - index)
}

// Toggle the switch at index.
func (r *Register) Toggle(index int) error {
	if index < 0 || index >= NumSwitches {
		return curated.Errorf(InvalidSwitch, index)
	}
	r.crit.Lock()
	defer r.crit.Unlock()
	r.value ^= mask(index)
	return nil
}

// Value returns the entire register.
func (r *Register) Value() uint8 {
	r.crit.Lock()
	defer r.crit.Unlock()
	return r.value
}
