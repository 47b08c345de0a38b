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

// Package console dispatches keystrokes from the user's terminal.
//
// A plain key is sent to the board's serial port without waiting for the
// board to consume it. A control-modified key begins a two key command:
//
//	Ctrl+T 1..8    toggle switch 1 to 8
//	Ctrl+A s       upload a file to the serial port
//	Ctrl+A p       pause or resume the engine
//	Ctrl+A n       step the engine by one instruction
//	Ctrl+A r       reset the CPU to address zero
//	Ctrl+A q       quit
//
// Ctrl+C quits immediately. Any other combination is ignored.
//
// The upload command prompts for a filename. The upload takes place in the
// background and the engine continues to run while it does so.
package console
