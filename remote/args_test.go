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

package remote_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/gopherboard/command"
	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/govern"
	"github.com/jetsetilly/gopherboard/governor"
	"github.com/jetsetilly/gopherboard/hardware"
	"github.com/jetsetilly/gopherboard/hardware/serial"
	"github.com/jetsetilly/gopherboard/logger"
	"github.com/jetsetilly/gopherboard/preferences"
	"github.com/jetsetilly/gopherboard/remote"
	"github.com/jetsetilly/gopherboard/test"
)

type engine struct {
	state govern.State
	ticks uint64
}

func (e *engine) Pause()              { e.state = govern.Paused }
func (e *engine) Resume()             { e.state = govern.Running }
func (e *engine) Step()               { e.state = govern.Stepping }
func (e *engine) State() govern.State { return e.state }
func (e *engine) Ticks() uint64       { return e.ticks }

type rate float64

func (r rate) Estimate() governor.RateEstimate {
	return governor.RateEstimate{Instantaneous: float64(r), Smoothed: float64(r)}
}

type fixture struct {
	eng    *engine
	board  *hardware.Board
	args   *remote.Args
	router *command.Router
	prefs  *preferences.Preferences
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences.toml"))
	test.DemandSuccess(t, err)

	f := &fixture{
		eng:   &engine{ticks: 12345},
		board: hardware.NewBoard(),
		prefs: p,
	}
	t.Cleanup(f.board.Close)

	f.router = command.NewRouter(context.Background(), f.board)
	f.args = remote.NewArgs(f.eng, rate(2000000), f.board, f.router, p)
	f.router.SetExecutor(f.args)
	return f
}

func (f *fixture) execute(t *testing.T, request string) string {
	t.Helper()
	out, err := f.args.Execute(context.Background(), request)
	test.ExpectSuccess(t, err, request)
	return out
}

func TestPing(t *testing.T) {
	f := newFixture(t)
	test.ExpectEquality(t, f.execute(t, "PING"), "PONG")
	test.ExpectEquality(t, f.execute(t, "ping\n"), "PONG")
	test.ExpectEquality(t, f.execute(t, "  Ping extra args"), "PONG")
}

func TestMalformed(t *testing.T) {
	f := newFixture(t)

	_, err := f.args.Execute(context.Background(), "")
	test.ExpectEquality(t, curated.Is(err, remote.MalformedRequest), true)

	_, err = f.args.Execute(context.Background(), "FROB")
	test.ExpectEquality(t, curated.Is(err, remote.UnknownCommand), true)

	for _, r := range []string{"SWITCH", "SWITCH 0", "SWITCH 9", "SWITCH x", "UPLOAD", "RATE fast", "RATE -1"} {
		_, err = f.args.Execute(context.Background(), r)
		test.ExpectEquality(t, curated.Is(err, remote.MalformedRequest), true, r)
	}
}

func TestRunState(t *testing.T) {
	f := newFixture(t)
	test.ExpectEquality(t, f.execute(t, "PAUSE"), "Paused")
	test.ExpectEquality(t, f.execute(t, "STEP"), "Stepping")
	test.ExpectEquality(t, f.execute(t, "RUN"), "Running")
	test.ExpectEquality(t, f.execute(t, "TICKS"), "12345")
	test.ExpectEquality(t, f.execute(t, "STATUS"), "Running clock: 2.000 MHz (50.0%)")
}

func TestSwitches(t *testing.T) {
	f := newFixture(t)
	test.ExpectEquality(t, f.execute(t, "SWITCHES"), "00000000")
	test.ExpectEquality(t, f.execute(t, "SWITCH 1"), "10000000")
	test.ExpectEquality(t, f.execute(t, "switch 8"), "10000001")
	test.ExpectEquality(t, f.execute(t, "SWITCH 1"), "00000001")
	test.ExpectEquality(t, f.board.SwitchValue(), uint8(0x01))
}

func TestSend(t *testing.T) {
	f := newFixture(t)
	test.ExpectEquality(t, f.execute(t, "SEND hi"), "sent 3 bytes")
	test.ExpectEquality(t, f.board.Serial.Pending(), 3)

	f.eng.Pause()
	_, err := f.args.Execute(context.Background(), "SEND hi")
	test.ExpectEquality(t, curated.Is(err, remote.EnginePaused), true)
}

func TestSendStalled(t *testing.T) {
	f := newFixture(t)

	// nothing empties the serial port so the FIFO fills and the remaining
	// bytes cannot be sent
	start := time.Now()
	_, err := f.args.Execute(context.Background(), "SEND "+strings.Repeat("x", 40))
	test.ExpectEquality(t, curated.Is(err, remote.SendStalled), true)
	test.ExpectSuccess(t, time.Since(start) < remote.SendStall+time.Second)
	test.ExpectEquality(t, f.board.Serial.Pending(), serial.DefaultFIFODepth)
}

func TestSendContextExpired(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error)
	go func() {
		_, err := f.args.Execute(ctx, "SEND "+strings.Repeat("x", 40))
		done <- err
	}()

	select {
	case err := <-done:
		test.ExpectEquality(t, curated.Is(err, remote.SendStalled), true)
	case <-time.After(remote.SendStall / 2):
		t.Fatalf("SEND still blocked after its context expired")
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 100 && f.board.PC() == 0; i++ {
		_, err := f.board.Step()
		test.DemandSuccess(t, err)
	}
	test.DemandEquality(t, f.board.PC() != 0, true)
	test.ExpectEquality(t, f.execute(t, "RESET"), "reset")
	test.ExpectEquality(t, f.board.PC(), uint16(0))
}

func TestLog(t *testing.T) {
	f := newFixture(t)
	test.ExpectEquality(t, f.execute(t, "LOG CLEAR"), "log cleared")
	test.ExpectEquality(t, f.execute(t, "LOG"), "")

	logger.Log(logger.Allow, "test", "first")
	logger.Log(logger.Allow, "test", "second")
	test.ExpectEquality(t, f.execute(t, "LOG 1"), "test: second")
	test.ExpectEquality(t, f.execute(t, "log all"), "test: first\ntest: second")

	_, err := f.args.Execute(context.Background(), "LOG many")
	test.ExpectEquality(t, curated.Is(err, remote.MalformedRequest), true)
}

func TestRate(t *testing.T) {
	f := newFixture(t)
	test.ExpectEquality(t, f.execute(t, "RATE"), "target rate 4000000 Hz")
	test.ExpectEquality(t, f.execute(t, "RATE 1_000_000"), "target rate 1000000 Hz")
	test.ExpectEquality(t, f.prefs.TargetRate.Get().(int), 1000000)
}

func TestHelp(t *testing.T) {
	f := newFixture(t)
	out := f.execute(t, "HELP")
	for _, w := range []string{"PING", "STATUS", "SWITCH", "UPLOAD", "RATE"} {
		test.ExpectEquality(t, strings.Contains(out, w), true, w)
	}
}

func TestRouterExternalRequest(t *testing.T) {
	f := newFixture(t)
	out, err := f.router.Submit(command.Pending{Kind: command.ExternalRequest, Text: "SWITCH 2"})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "01000000")
}
