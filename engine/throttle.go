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

package engine

import (
	"math"
	"time"
)

// Limits and constants of the throttle controller.
const (
	MinStepsPerSleep = 0
	MaxStepsPerSleep = 1000000
	ErrorDivisor     = 10000
	ThrottleSleep    = 5 * time.Millisecond
)

// ThrottleWindow is the number of steps to execute between throttle sleeps.
type ThrottleWindow struct {
	StepsPerSleep int
	StepCounter   int
}

// Clamp a window size to the permitted range.
func Clamp(stepsPerSleep int) int {
	if stepsPerSleep < MinStepsPerSleep {
		return MinStepsPerSleep
	}
	if stepsPerSleep > MaxStepsPerSleep {
		return MaxStepsPerSleep
	}
	return stepsPerSleep
}

// RateError returns the difference between the measured rate and the target
// rate. The measured rate is truncated towards zero. Rates that cannot be
// represented by an int are saturated so that the subtraction cannot
// overflow.
func RateError(measured float64, target int) int {
	const limit = math.MaxInt64 / 4

	var m int
	switch {
	case math.IsNaN(measured):
		m = 0
	case measured >= limit:
		m = limit
	case measured <= -limit:
		m = -limit
	default:
		m = int(measured)
	}

	if target > limit {
		target = limit
	} else if target < -limit {
		target = -limit
	}

	return m - target
}

// Adjust the window size by the rate error. The result is always clamped,
// whatever the value of rateError or of the starting window size.
func Adjust(stepsPerSleep int, rateError int) int {
	return Clamp(Clamp(stepsPerSleep) - rateError/ErrorDivisor)
}

// next advances the window by one step and returns true if the window has
// expired. The window is adjusted and the counter reset on expiry.
func (w *ThrottleWindow) next(measured float64, target int) bool {
	w.StepCounter++
	if w.StepCounter < w.StepsPerSleep {
		return false
	}
	w.StepsPerSleep = Adjust(w.StepsPerSleep, RateError(measured, target))
	w.StepCounter = 0
	return true
}
