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

package console_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/jetsetilly/gopherboard/command"
	"github.com/jetsetilly/gopherboard/console"
	"github.com/jetsetilly/gopherboard/govern"
	"github.com/jetsetilly/gopherboard/test"
)

// keys returns each byte of the string in turn and then io.EOF
type keys struct {
	s string
}

func (k *keys) ReadKey() (byte, error) {
	if len(k.s) == 0 {
		return 0, io.EOF
	}
	b := k.s[0]
	k.s = k.s[1:]
	return b, nil
}

type engine struct {
	state govern.State
	steps int
	quit  bool
}

func (e *engine) Pause()              { e.state = govern.Paused }
func (e *engine) Resume()             { e.state = govern.Running }
func (e *engine) Step()               { e.steps++ }
func (e *engine) Quit()               { e.quit = true }
func (e *engine) State() govern.State { return e.state }

type submitter struct {
	crit    sync.Mutex
	pending []command.Pending
}

func (s *submitter) Submit(p command.Pending) (string, error) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.pending = append(s.pending, p)
	return "", nil
}

func (s *submitter) sent() string {
	var b []byte
	for _, p := range s.pending {
		if p.Kind == command.SendChar {
			b = append(b, p.Char)
		}
	}
	return string(b)
}

func (s *submitter) of(kind command.Kind) []command.Pending {
	var r []command.Pending
	for _, p := range s.pending {
		if p.Kind == kind {
			r = append(r, p)
		}
	}
	return r
}

func runConsole(t *testing.T, input string) (*engine, *submitter, *test.CompareWriter) {
	t.Helper()
	eng := &engine{}
	sub := &submitter{}
	out := &test.CompareWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	con := console.NewConsole(&keys{s: input}, out, eng, sub)
	test.ExpectSuccess(t, con.Run(ctx))
	return eng, sub, out
}

func TestPlainKeys(t *testing.T) {
	eng, sub, _ := runConsole(t, "hello\r")
	test.ExpectEquality(t, sub.sent(), "hello\r")
	test.ExpectEquality(t, eng.quit, false)
}

func TestToggleSwitch(t *testing.T) {
	_, sub, _ := runConsole(t, "\x141\x148\x149x")
	toggles := sub.of(command.ToggleSwitch)
	test.DemandEquality(t, len(toggles), 2)
	test.ExpectEquality(t, toggles[0].Switch, 0)
	test.ExpectEquality(t, toggles[1].Switch, 7)

	// the key following an invalid digit is a plain key again
	test.ExpectEquality(t, sub.sent(), "x")
}

func TestIgnoredCombination(t *testing.T) {
	_, sub, _ := runConsole(t, "\x02a\x01zb")
	test.ExpectEquality(t, sub.sent(), "b")
	test.ExpectEquality(t, len(sub.pending), 1)
}

func TestUploadPrompt(t *testing.T) {
	_, sub, out := runConsole(t, "\x01sprog.bs\x7fas\rz")
	uploads := sub.of(command.UploadFile)
	test.DemandEquality(t, len(uploads), 1)
	test.ExpectEquality(t, uploads[0].Path, "prog.bas")

	// characters typed at the prompt are not sent to the board
	test.ExpectEquality(t, sub.sent(), "z")
	test.ExpectEquality(t, out.Compare("\r\n"+console.UploadPrompt+"prog.bs\b \bas\r\n"), true)
}

func TestPromptNotification(t *testing.T) {
	eng := &engine{}
	sub := &submitter{}
	con := console.NewConsole(&keys{s: "\x01sa\r\x01s\x1b"}, nil, eng, sub)

	var events []bool
	con.OnPrompt(func(p bool) {
		events = append(events, p)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	test.ExpectSuccess(t, con.Run(ctx))

	test.DemandEquality(t, len(events), 4)
	test.ExpectEquality(t, events[0], true)
	test.ExpectEquality(t, events[1], false)
	test.ExpectEquality(t, events[2], true)
	test.ExpectEquality(t, events[3], false)
}

func TestUploadAbandoned(t *testing.T) {
	_, sub, _ := runConsole(t, "\x01sfoo\x1bq\x01s\r")
	test.ExpectEquality(t, len(sub.of(command.UploadFile)), 0)
	test.ExpectEquality(t, sub.sent(), "q")
}

func TestPauseAndStep(t *testing.T) {
	eng, _, _ := runConsole(t, "\x01p")
	test.ExpectEquality(t, eng.state, govern.Paused)

	eng, _, _ = runConsole(t, "\x01p\x01p")
	test.ExpectEquality(t, eng.state, govern.Running)

	eng, _, _ = runConsole(t, "\x01n\x01n\x01n")
	test.ExpectEquality(t, eng.steps, 3)
}

func TestQuit(t *testing.T) {
	eng, sub, _ := runConsole(t, "ab\x01qcd")
	test.ExpectEquality(t, eng.quit, true)
	test.ExpectEquality(t, sub.sent(), "ab")

	eng, sub, _ = runConsole(t, "a\x03b")
	test.ExpectEquality(t, eng.quit, true)
	test.ExpectEquality(t, sub.sent(), "a")
}

func TestEndOfInput(t *testing.T) {
	eng, _, _ := runConsole(t, "")
	test.ExpectEquality(t, eng.quit, false)
}

func TestReset(t *testing.T) {
	_, sub, _ := runConsole(t, "a\x01rb")
	test.ExpectEquality(t, len(sub.of(command.ResetBoard)), 1)
	test.ExpectEquality(t, sub.sent(), "ab")
}
