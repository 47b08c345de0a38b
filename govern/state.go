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

// Package govern defines the execution state of the board. The state is owned
// by the engine but is requested by the console, the mailbox and the remote
// command interpreter.
package govern

// State indicates the engine's execution state.
type State int32

// List of possible engine states.
//
// Running is the default state. Paused causes the engine to wait without
// advancing the board. Stepping executes exactly one step and then moves to
// the Paused state. Ending is entered on shutdown and is never left.
const (
	Running State = iota
	Paused
	Stepping
	Ending
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Stepping:
		return "Stepping"
	case Ending:
		return "Ending"
	}

	return ""
}

// Advances returns true if the state allows the board to be stepped.
func (s State) Advances() bool {
	return s == Running || s == Stepping
}
