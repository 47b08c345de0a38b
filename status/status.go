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

// Package status formats the state of the engine and the measured clock
// rate for display on the console.
package status

import (
	"fmt"
	"io"
	"sync"

	"github.com/jetsetilly/gopherboard/govern"
	"github.com/jetsetilly/gopherboard/governor"
)

// Text returns the status without any terminal control characters. The
// percentage is omitted if the target is not positive.
func Text(state govern.State, rate float64, target int) string {
	if target <= 0 {
		return fmt.Sprintf("%s clock: %.3f MHz", state, rate/1e6)
	}
	return fmt.Sprintf("%s clock: %.3f MHz (%.1f%%)", state, rate/1e6, rate/float64(target)*100)
}

// Line returns the status formatted so that it overwrites the current line of
// the terminal.
func Line(state govern.State, rate float64, target int) string {
	return "\r" + Text(state, rate, target)
}

// StateSource is the origin of the execution state.
type StateSource interface {
	State() govern.State
}

// Display writes the status line to an io.Writer every time it is updated.
type Display struct {
	crit   sync.Mutex
	out    io.Writer
	state  StateSource
	target func() int

	// display is suspended while the console is prompting for input
	suspended bool
}

// NewDisplay is the preferred method of initialisation for the Display type.
func NewDisplay(out io.Writer, state StateSource, target func() int) *Display {
	return &Display{
		out:    out,
		state:  state,
		target: target,
	}
}

// Update the display with a new rate estimate. The smoothed rate is shown.
// Suitable for use as a governor observer.
func (d *Display) Update(est governor.RateEstimate) {
	d.crit.Lock()
	defer d.crit.Unlock()
	if d.suspended {
		return
	}
	_, _ = io.WriteString(d.out, Line(d.state.State(), est.Smoothed, d.target()))
}

// Suspend or resume the display.
func (d *Display) Suspend(suspend bool) {
	d.crit.Lock()
	defer d.crit.Unlock()
	d.suspended = suspend
}
