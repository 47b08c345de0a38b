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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectFailure() and ExpectSuccess() functions test for failure and
// success under generic conditions. The nil type is considered a success. This
// may not be how we want to interpret nil in all situations but because of how
// errors usually work (nil to indicate no error) we need to interpret nil in
// this way.
//
// The Demand*() family of functions are the same as the Expect*() functions
// except that failure is fatal to the test.
//
// The CompareWriter type implements the io.Writer interface and should be used
// to capture output. Unlike a bytes.Buffer it is safe for concurrent use
// which makes it suitable for capturing the output of goroutines.
package test
