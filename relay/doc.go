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

// Package relay uploads a text file to the board's serial port, one byte at a
// time, as though the text was being typed at a terminal.
//
// Lines are sent as they appear in the file with the line terminator
// replaced by a single newline character. A carriage return at the end of a
// line, as found in files with DOS line endings, is sent as part of the line.
// A final line without a line terminator has a newline appended.
//
// Each byte is sent with a blocking send so the upload proceeds at the rate
// the board consumes the serial FIFO.
package relay
