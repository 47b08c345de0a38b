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

// Package engine drives the board. The Run() function steps the board in a
// loop, as quickly as possible or throttled to a target rate, until the
// context is cancelled or Quit() is called.
//
// Each iteration of the loop is one full step: the board's step primitive is
// called repeatedly until it reports that an instruction has retired. Every
// call to the primitive increases the tick counter, which is the counter
// sampled by the rate governor.
//
// The execution state is changed with Pause(), Resume(), Step() and Quit().
// These can be called from any goroutine. While paused the engine blocks and
// does not consume CPU time.
//
// The throttle is a coarse proportional controller. The engine counts steps in
// a window and when the count reaches the window size the size is adjusted
// according to the most recent instantaneous rate published by the governor:
//
//	error = int(rate) - target
//	stepsPerSleep -= error / 10000
//
// The window size is clamped to the range 0 to 1,000,000 and the engine then
// sleeps for 5ms.
package engine
