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
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/govern"
	"github.com/jetsetilly/gopherboard/logger"
	"github.com/jetsetilly/gopherboard/preferences"
)

// Sentinal errors.
const (
	EngineFault    = "engine: fault: %v"
	StepPanic      = "step primitive panicked: %v"
	AlreadyRunning = "engine: already running"
)

// Stepper is the board's step primitive. Step() returns true when an
// instruction has been retired.
type Stepper interface {
	Step() (bool, error)
}

// RateSource is the origin of the measured rate used by the throttle.
type RateSource interface {
	Instantaneous() float64
}

// Engine drives a Stepper.
type Engine struct {
	board Stepper
	rate  RateSource
	prefs *preferences.Preferences

	// state is changed only while crit is held but it is read atomically by
	// the Run() loop at the top of every iteration
	crit  sync.Mutex
	cond  *sync.Cond
	state atomic.Int32

	running atomic.Bool

	// tick counter is increased for every call to the step primitive. steps
	// counts full steps (retired instructions)
	ticks atomic.Uint64
	steps atomic.Uint64

	// the throttle window is owned by the Run() goroutine. the size of the
	// window is mirrored so it can be observed from other goroutines
	window        ThrottleWindow
	stepsPerSleep atomic.Int64

	// the throttle sleep. replaced during testing
	sleep func(time.Duration)
}

// NewEngine is the preferred method of initialisation for the Engine type.
// The engine begins in the Running state.
func NewEngine(board Stepper, rate RateSource, prefs *preferences.Preferences) *Engine {
	eng := &Engine{
		board: board,
		rate:  rate,
		prefs: prefs,
		sleep: time.Sleep,
	}
	eng.cond = sync.NewCond(&eng.crit)
	eng.state.Store(int32(govern.Running))
	return eng
}

func (eng *Engine) String() string {
	return fmt.Sprintf("%s ticks=%d steps=%d window=%d", eng.State(), eng.Ticks(), eng.Steps(), eng.StepsPerSleep())
}

// Ticks implements the governor.Counter interface.
func (eng *Engine) Ticks() uint64 {
	return eng.ticks.Load()
}

// Steps returns the number of full steps taken.
func (eng *Engine) Steps() uint64 {
	return eng.steps.Load()
}

// StepsPerSleep returns the current size of the throttle window.
func (eng *Engine) StepsPerSleep() int {
	return int(eng.stepsPerSleep.Load())
}

// State returns the current execution state.
func (eng *Engine) State() govern.State {
	return govern.State(eng.state.Load())
}

// setState changes the state if the current state is one of the from states.
// an empty list of from states allows any change except out of the Ending
// state. returns true if the state was changed.
func (eng *Engine) setState(to govern.State, from ...govern.State) bool {
	eng.crit.Lock()
	defer eng.crit.Unlock()

	cur := govern.State(eng.state.Load())
	if cur == govern.Ending {
		return false
	}

	if len(from) > 0 {
		ok := false
		for _, f := range from {
			if cur == f {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	eng.state.Store(int32(to))
	eng.cond.Broadcast()
	return true
}

// Pause the engine. Has no effect if the engine is ending.
func (eng *Engine) Pause() {
	if eng.setState(govern.Paused, govern.Running, govern.Stepping) {
		logger.Log(logger.Allow, "engine", "paused")
	}
}

// Resume a paused engine.
func (eng *Engine) Resume() {
	if eng.setState(govern.Running, govern.Paused, govern.Stepping) {
		logger.Log(logger.Allow, "engine", "running")
	}
}

// Step the engine by exactly one full step. The engine will be paused after
// the step.
func (eng *Engine) Step() {
	eng.setState(govern.Stepping)
}

// Quit ends the Run() loop, releasing it if it is paused. Once quit the engine
// cannot be run again.
func (eng *Engine) Quit() {
	eng.crit.Lock()
	defer eng.crit.Unlock()
	eng.state.Store(int32(govern.Ending))
	eng.cond.Broadcast()
}

// wait blocks until the state allows the board to advance or until the
// engine is ending.
func (eng *Engine) wait() govern.State {
	eng.crit.Lock()
	defer eng.crit.Unlock()
	for {
		st := govern.State(eng.state.Load())
		if st.Advances() || st == govern.Ending {
			return st
		}
		eng.cond.Wait()
	}
}

// Run the engine until the context is cancelled, Quit() is called or the step
// primitive faults. A fault is returned as an EngineFault error and the engine
// is moved to the Ending state.
func (eng *Engine) Run(ctx context.Context) (err error) {
	if !eng.running.CompareAndSwap(false, true) {
		return curated.Errorf(AlreadyRunning)
	}
	defer eng.running.Store(false)

	stop := context.AfterFunc(ctx, eng.Quit)
	defer stop()

	defer func() {
		if err != nil {
			logger.Log(logger.Allow, "engine", err.Error())
			eng.Quit()
		}
	}()

	eng.window = ThrottleWindow{}
	eng.stepsPerSleep.Store(0)

	for {
		st := govern.State(eng.state.Load())
		if !st.Advances() {
			st = eng.wait()
			if st == govern.Ending {
				return nil
			}
		}

		if err := eng.step(); err != nil {
			return curated.Errorf(EngineFault, err)
		}

		if st == govern.Stepping {
			eng.setState(govern.Paused, govern.Stepping)
			continue
		}

		eng.throttle()
	}
}

// step calls the step primitive until an instruction has retired. panics in
// the primitive are returned as errors.
func (eng *Engine) step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = curated.Errorf(StepPanic, r)
		}
	}()

	for {
		retired, err := eng.board.Step()
		eng.ticks.Add(1)
		if err != nil {
			return err
		}
		if retired {
			eng.steps.Add(1)
			return nil
		}

		// an instruction that never retires must not prevent shutdown
		if govern.State(eng.state.Load()) == govern.Ending {
			return nil
		}
	}
}

func (eng *Engine) throttle() {
	if !eng.prefs.Throttle.Get().(bool) {
		return
	}

	target := eng.prefs.TargetRate.Get().(int)
	if target <= 0 {
		return
	}

	if eng.window.next(eng.rate.Instantaneous(), target) {
		eng.stepsPerSleep.Store(int64(eng.window.StepsPerSleep))
		eng.sleep(ThrottleSleep)
	}
}
