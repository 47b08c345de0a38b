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

package performance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/engine"
	"github.com/jetsetilly/gopherboard/governor"
	"github.com/jetsetilly/gopherboard/preferences"
)

// MaxLeadtime is the longest time the engine is run before measurement
// begins, allowing the throttle to settle.
const MaxLeadtime = 2 * time.Second

// Result of a performance check.
type Result struct {
	Ticks    uint64
	Duration time.Duration
	Rate     float64
	Accuracy float64
}

func (r Result) String() string {
	return fmt.Sprintf("%.3f MHz (%d ticks in %.2f seconds) %.1f%%", r.Rate/1e6, r.Ticks, r.Duration.Seconds(), r.Accuracy)
}

// CalcRate returns the measured rate and its accuracy as a percentage of the
// target rate. The accuracy is zero if the target is not positive.
func CalcRate(ticks uint64, seconds float64, target int) (float64, float64) {
	if seconds <= 0 {
		return 0, 0
	}
	rate := float64(ticks) / seconds
	if target <= 0 {
		return rate, 0
	}
	return rate, rate / float64(target) * 100
}

// Check the performance of the board. The board is run by an engine for the
// specified duration, after a leadtime of a quarter of the duration (up to
// MaxLeadtime). The throttle preferences are honoured.
func Check(ctx context.Context, output io.Writer, profile Profile, board engine.Stepper, prefs *preferences.Preferences, duration time.Duration) (Result, error) {
	if duration <= 0 {
		return Result{}, curated.Errorf(ProfileError, "duration must be greater than zero")
	}

	lead := duration / 4
	if lead > MaxLeadtime {
		lead = MaxLeadtime
	}

	target := prefs.TargetRate.Get().(int)
	gov := governor.NewGovernor(float64(target))
	eng := engine.NewEngine(board, gov, prefs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		_ = gov.Run(ctx, eng, func() time.Duration {
			return prefs.GovernorPeriod.Get().(time.Duration)
		})
	}()

	var res Result

	runner := func() error {
		done := make(chan error, 1)
		go func() {
			done <- eng.Run(ctx)
		}()

		var startTicks uint64
		var start time.Time

		timer := time.NewTimer(lead)
		defer timer.Stop()

		measuring := false
		for {
			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				eng.Quit()
				return <-done
			case now := <-timer.C:
				if !measuring {
					measuring = true
					startTicks = eng.Ticks()
					start = now
					timer.Reset(duration)
					continue
				}

				res.Ticks = eng.Ticks() - startTicks
				res.Duration = now.Sub(start)
				eng.Quit()
				return <-done
			}
		}
	}

	if err := RunProfiler(profile, "performance", runner); err != nil {
		return Result{}, err
	}

	res.Rate, res.Accuracy = CalcRate(res.Ticks, res.Duration.Seconds(), target)
	if output != nil {
		fmt.Fprintln(output, res.String())
	}

	return res, nil
}
