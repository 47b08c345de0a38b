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

package command_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jetsetilly/gopherboard/command"
	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/hardware"
	"github.com/jetsetilly/gopherboard/relay"
	"github.com/jetsetilly/gopherboard/test"
)

type board struct {
	crit     sync.Mutex
	switches []int
	sent     []byte
	resets   int
}

func (b *board) ToggleSwitch(index int) error {
	if index < 0 || index > 7 {
		return errors.New("bad switch")
	}
	b.crit.Lock()
	defer b.crit.Unlock()
	b.switches = append(b.switches, index)
	return nil
}

func (b *board) Send(c byte) error {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.sent = append(b.sent, c)
	return nil
}

func (b *board) Reset() {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.resets++
}

func (b *board) SendContext(_ context.Context, c byte) error {
	return b.Send(c)
}

func (b *board) SendAsync(c byte) {
	_ = b.Send(c)
}

type echo struct{}

func (echo) Execute(_ context.Context, request string) (string, error) {
	return "echo " + request, nil
}

func TestToggleAndSend(t *testing.T) {
	brd := &board{}
	r := command.NewRouter(context.Background(), brd)

	_, err := r.Submit(command.Pending{Kind: command.ToggleSwitch, Switch: 3})
	test.ExpectSuccess(t, err)
	_, err = r.Submit(command.Pending{Kind: command.ToggleSwitch, Switch: 9})
	test.ExpectFailure(t, err)
	_, err = r.Submit(command.Pending{Kind: command.SendChar, Char: 'x'})
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, len(brd.switches), 1)
	test.ExpectEquality(t, brd.switches[0], 3)
	test.ExpectEquality(t, string(brd.sent), "x")
}

func TestExternalRequest(t *testing.T) {
	r := command.NewRouter(context.Background(), &board{})

	_, err := r.Submit(command.Pending{Kind: command.ExternalRequest, Text: "PING"})
	test.ExpectEquality(t, curated.Is(err, command.NoExecutor), true)

	r.SetExecutor(echo{})
	out, err := r.Execute(context.Background(), "PING")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "echo PING")
}

func TestUnsupported(t *testing.T) {
	r := command.NewRouter(context.Background(), &board{})
	_, err := r.Submit(command.Pending{Kind: command.Kind(99)})
	test.ExpectEquality(t, curated.Is(err, command.UnsupportedCommand), true)
}

func TestUpload(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "prog.bas")
	test.DemandSuccess(t, os.WriteFile(pth, []byte("10 REM\n"), 0o600))

	brd := &board{}
	r := command.NewRouter(context.Background(), brd)

	var result int
	r.OnUpload(func(_ string, n int, err error) {
		test.ExpectSuccess(t, err)
		result = n
	})

	_, err := r.Submit(command.Pending{Kind: command.UploadFile, Path: pth})
	test.ExpectSuccess(t, err)
	r.Wait()

	test.ExpectEquality(t, result, 7)
	test.ExpectEquality(t, string(brd.sent), "10 REM\n")
}

func TestUploadMissing(t *testing.T) {
	brd := &board{}
	r := command.NewRouter(context.Background(), brd)

	var uploadErr error
	r.OnUpload(func(_ string, _ int, err error) {
		uploadErr = err
	})

	_, err := r.Submit(command.Pending{Kind: command.UploadFile, Path: filepath.Join(t.TempDir(), "none")})
	test.ExpectSuccess(t, err)
	r.Wait()

	test.ExpectEquality(t, curated.Is(uploadErr, relay.MissingUploadFile), true)
	test.ExpectEquality(t, len(brd.sent), 0)
}

func TestRealBoard(t *testing.T) {
	brd := hardware.NewBoard()
	defer brd.Close()
	r := command.NewRouter(context.Background(), brd)

	for _, sw := range []int{0, 7, 0} {
		_, err := r.Submit(command.Pending{Kind: command.ToggleSwitch, Switch: sw})
		test.ExpectSuccess(t, err)
	}
	test.ExpectEquality(t, brd.SwitchValue(), uint8(0x01))

	_, err := r.Submit(command.Pending{Kind: command.SendChar, Char: 'A'})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, brd.Serial.Pending(), 1)
}

func TestResetBoard(t *testing.T) {
	brd := &board{}
	r := command.NewRouter(context.Background(), brd)
	_, err := r.Submit(command.Pending{Kind: command.ResetBoard})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, brd.resets, 1)

	hw := hardware.NewBoard()
	defer hw.Close()
	for i := 0; i < 100 && hw.PC() == 0; i++ {
		_, err := hw.Step()
		test.DemandSuccess(t, err)
	}
	test.DemandEquality(t, hw.PC() != 0, true)

	r = command.NewRouter(context.Background(), hw)
	_, err = r.Submit(command.Pending{Kind: command.ResetBoard})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, hw.PC(), uint16(0))
}
