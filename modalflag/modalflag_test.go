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

package modalflag_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/gopherboard/modalflag"
	"github.com/jetsetilly/gopherboard/prefs"
	"github.com/jetsetilly/gopherboard/test"
)

func TestNoModes(t *testing.T) {
	md := &modalflag.Modes{}
	md.NewArgs([]string{"a", "b"})
	r, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectEquality(t, len(md.RemainingArgs()), 2)
	test.ExpectEquality(t, md.GetArg(1), "b")
	test.ExpectEquality(t, md.GetArg(2), "")
}

func TestSubModes(t *testing.T) {
	md := &modalflag.Modes{}
	md.NewArgs([]string{"remote", "-timeout", "5s", "PING", "now"})
	md.AddSubModes("RUN", "REMOTE")

	r, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "REMOTE")

	md.NewMode()
	timeout := md.AddDuration("timeout", time.Second, "")
	r, err = md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, modalflag.ParseContinue)
	test.ExpectEquality(t, *timeout, 5*time.Second)
	test.ExpectEquality(t, strings.Join(md.RemainingArgs(), " "), "PING now")
	test.ExpectEquality(t, md.Path(), "REMOTE")
}

func TestDefaultMode(t *testing.T) {
	md := &modalflag.Modes{}
	md.NewArgs([]string{"program.srec"})
	md.AddSubModes("RUN", "REMOTE")

	_, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "RUN")

	md.NewMode()
	_, err = md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.GetArg(0), "program.srec")
}

func TestDefaultModeWithFlags(t *testing.T) {
	md := &modalflag.Modes{}
	md.NewArgs([]string{"-log", "program.srec"})
	md.AddSubModes("RUN", "REMOTE")

	r, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "RUN")

	md.NewMode()
	log := md.AddBool("log", false, "")
	_, err = md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *log, true)
	test.ExpectEquality(t, md.GetArg(0), "program.srec")
}

func TestBadFlag(t *testing.T) {
	md := &modalflag.Modes{}
	md.NewArgs([]string{"-frob"})
	md.AddBool("log", false, "")
	r, err := md.Parse()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, r, modalflag.ParseError)
}

func TestHelp(t *testing.T) {
	out := &test.CompareWriter{}
	md := &modalflag.Modes{Output: out}
	md.NewArgs([]string{"-help"})
	md.AddSubModes("RUN", "REMOTE")
	r, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, modalflag.ParseHelp)
	test.ExpectEquality(t, strings.Contains(out.String(), "available sub-modes: RUN, REMOTE"), true)
	test.ExpectEquality(t, strings.Contains(out.String(), "default: RUN"), true)
}

func TestNoHelp(t *testing.T) {
	out := &test.CompareWriter{}
	md := &modalflag.Modes{Output: out}
	md.NewArgs([]string{"-help"})
	r, _ := md.Parse()
	test.ExpectEquality(t, r, modalflag.ParseHelp)
	test.ExpectEquality(t, out.String(), "No help available\n")
}

func TestPrefFlags(t *testing.T) {
	var rate prefs.Int
	var throttle prefs.Bool
	var device prefs.String
	test.DemandSuccess(t, rate.Set(4000000))
	test.DemandSuccess(t, throttle.Set(true))
	rate.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return errors.New("negative value")
		}
		return nil
	})

	md := &modalflag.Modes{}
	md.NewArgs([]string{"-rate", "1_000", "-throttle=false"})
	md.AddPref("rate", &rate, "target rate")
	md.AddPref("throttle", &throttle, "throttle")
	md.AddPref("device", &device, "device")
	_, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, rate.Get().(int), 1000)
	test.ExpectEquality(t, throttle.Get().(bool), false)
	test.ExpectEquality(t, device.Get().(string), "")

	var visited []string
	md.Visit(func(f string) { visited = append(visited, f) })
	test.ExpectEquality(t, strings.Join(visited, ","), "rate,throttle")

	// validation hooks reject the value and the parse
	md.NewArgs([]string{"-rate", "-5"})
	md.AddPref("rate", &rate, "target rate")
	r, err := md.Parse()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, r, modalflag.ParseError)
	test.ExpectEquality(t, rate.Get().(int), 1000)
}
