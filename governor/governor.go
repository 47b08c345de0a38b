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

// Package governor measures the rate at which the engine is stepping the
// board. On a fixed period the governor samples a tick counter and computes
// the instantaneous rate (ticks per second since the previous sample) and a
// smoothed rate, an exponential moving average with a weight of 0.5.
//
// The most recent rates are published atomically so they can be read from
// any goroutine without blocking the governor: the engine's throttle reads
// the instantaneous rate and the status display reads the smoothed rate.
package governor

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Weight of the exponential moving average.
const Weight = 0.5

// Counter is the source of ticks. The counter must be monotonic.
type Counter interface {
	Ticks() uint64
}

// ClockSample pairs a tick count with the time it was taken.
type ClockSample struct {
	Ticks uint64
	Time  time.Time
}

// RateEstimate is the result of a sample.
type RateEstimate struct {
	Instantaneous float64
	Smoothed      float64
}

// Smooth returns the next value of the exponential moving average.
func Smooth(smoothed, instantaneous float64) float64 {
	return smoothed*Weight + instantaneous*(1-Weight)
}

// Governor samples a Counter and maintains the rate estimate.
type Governor struct {
	// last sample. only accessed by Sample()
	crit sync.Mutex
	last ClockSample

	// published rate estimates. float64 values stored as bits
	instantaneous atomic.Uint64
	smoothed      atomic.Uint64

	// number of samples taken
	samples atomic.Uint64

	observer atomic.Value // func(RateEstimate)
}

// NewGovernor is the preferred method of initialisation for the Governor
// type. The smoothed rate is seeded with the target rate so that it is
// positive from the outset if the target is positive.
func NewGovernor(target float64) *Governor {
	gov := &Governor{}
	gov.smoothed.Store(math.Float64bits(target))
	return gov
}

// SetObserver sets a function that is called after every sample. The function
// is called from the governor's goroutine and should not block.
func (gov *Governor) SetObserver(f func(RateEstimate)) {
	gov.observer.Store(f)
}

// Baseline sets the sample that the next call to Sample() will measure from.
func (gov *Governor) Baseline(ticks uint64, now time.Time) {
	gov.crit.Lock()
	defer gov.crit.Unlock()
	gov.last = ClockSample{Ticks: ticks, Time: now}
}

// Sample computes and publishes a new rate estimate. The sample is ignored
// if no time has elapsed since the previous sample.
func (gov *Governor) Sample(ticks uint64, now time.Time) RateEstimate {
	gov.crit.Lock()
	elapsed := now.Sub(gov.last.Time).Seconds()
	if elapsed <= 0 {
		gov.crit.Unlock()
		return gov.Estimate()
	}

	// a counter that has gone backwards (a new counter or a reset board) is
	// treated as if it had not moved
	var delta uint64
	if ticks > gov.last.Ticks {
		delta = ticks - gov.last.Ticks
	}
	gov.last = ClockSample{Ticks: ticks, Time: now}
	gov.crit.Unlock()

	est := RateEstimate{
		Instantaneous: float64(delta) / elapsed,
	}
	est.Smoothed = Smooth(math.Float64frombits(gov.smoothed.Load()), est.Instantaneous)

	gov.instantaneous.Store(math.Float64bits(est.Instantaneous))
	gov.smoothed.Store(math.Float64bits(est.Smoothed))
	gov.samples.Add(1)

	if f, ok := gov.observer.Load().(func(RateEstimate)); ok && f != nil {
		f(est)
	}

	return est
}

// Instantaneous returns the most recently published instantaneous rate.
func (gov *Governor) Instantaneous() float64 {
	return math.Float64frombits(gov.instantaneous.Load())
}

// Smoothed returns the most recently published smoothed rate.
func (gov *Governor) Smoothed() float64 {
	return math.Float64frombits(gov.smoothed.Load())
}

// Estimate returns the most recently published rates.
func (gov *Governor) Estimate() RateEstimate {
	return RateEstimate{
		Instantaneous: gov.Instantaneous(),
		Smoothed:      gov.Smoothed(),
	}
}

// Samples returns the number of samples taken.
func (gov *Governor) Samples() uint64 {
	return gov.samples.Load()
}

// Run samples the Counter on every period until the context is cancelled. The
// period function is called before every wait so changes to the period take
// effect on the next sample.
func (gov *Governor) Run(ctx context.Context, counter Counter, period func() time.Duration) error {
	gov.Baseline(counter.Ticks(), time.Now())

	t := time.NewTimer(period())
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			gov.Sample(counter.Ticks(), now)
			t.Reset(period())
		}
	}
}
