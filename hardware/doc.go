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


// Package hardware is the reference board. The Board type is the root of the
// board and contains references to all the sub-systems: memory, the
// stand-in CPU, the serial port and the switch register.
//
// The engine drives the board through Step(), one clock pulse at a time.
// Requesters from other goroutines use ToggleSwitch(), Send() and
// SendAsync(). Step and toggle take the board mutex. The serial port's
// receive queue is a channel and needs no further locking.
//
// The board's memory can be preloaded from an S-record file with
// LoadFromText(). See the srecord package.
package hardware
