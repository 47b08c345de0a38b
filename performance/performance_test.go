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

package performance_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/hardware"
	"github.com/jetsetilly/gopherboard/performance"
	"github.com/jetsetilly/gopherboard/preferences"
	"github.com/jetsetilly/gopherboard/test"
)

func TestParseProfile(t *testing.T) {
	p, err := performance.ParseProfile("cpu,TRACE")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileCPU|performance.ProfileTrace)
	test.ExpectEquality(t, p.String(), "cpu,trace")

	p, err = performance.ParseProfile("none")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileNone)
	test.ExpectEquality(t, p.String(), "none")

	p, err = performance.ParseProfile("all")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileAll)

	_, err = performance.ParseProfile("cpu,disk")
	test.ExpectEquality(t, curated.Is(err, performance.UnknownProfile), true)
}

func TestCalcRate(t *testing.T) {
	rate, acc := performance.CalcRate(2000000, 0.5, 4000000)
	test.ExpectEquality(t, rate, 4000000.0)
	test.ExpectEquality(t, acc, 100.0)

	rate, acc = performance.CalcRate(1000, 1, 0)
	test.ExpectEquality(t, rate, 1000.0)
	test.ExpectEquality(t, acc, 0.0)

	rate, _ = performance.CalcRate(1000, 0, 100)
	test.ExpectEquality(t, rate, 0.0)
}

func TestRunProfilerNone(t *testing.T) {
	ran := false
	err := performance.RunProfiler(performance.ProfileNone, "test", func() error {
		ran = true
		return nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ran, true)
}

func TestCheck(t *testing.T) {
	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences.toml"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.Throttle.Set(false))

	brd := hardware.NewBoard()
	defer brd.Close()

	out := &test.CompareWriter{}
	res, err := performance.Check(context.Background(), out, performance.ProfileNone, brd, p, 40*time.Millisecond)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, res.Ticks > 0, true)
	test.ExpectEquality(t, res.Duration >= 40*time.Millisecond, true)
	test.ExpectEquality(t, strings.Contains(out.String(), "MHz"), true)
}

func TestCheckBadDuration(t *testing.T) {
	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences.toml"))
	test.DemandSuccess(t, err)
	_, err = performance.Check(context.Background(), nil, performance.ProfileNone, hardware.NewBoard(), p, 0)
	test.ExpectFailure(t, err)
}
