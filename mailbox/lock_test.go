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

//go:build !windows

package mailbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/test"
)

type pong struct{}

func (pong) Execute(_ context.Context, _ string) (string, error) {
	return "PONG", nil
}

func TestLockTimeout(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "locked.mailbox")
	test.DemandSuccess(t, os.WriteFile(pth, []byte("PING"), 0o600))

	// a lock held through a separate open file
	f, err := os.OpenFile(pth, os.O_RDWR, 0)
	test.DemandSuccess(t, err)
	defer f.Close()
	ok, err := tryLock(f)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, ok, true)

	mb := NewMailbox(Config{Path: pth, LockTimeout: 50 * time.Millisecond}, pong{})
	start := time.Now()
	err = mb.Handle(context.Background())
	test.ExpectEquality(t, curated.Is(err, MailboxLocked), true)
	test.ExpectEquality(t, time.Since(start) >= 50*time.Millisecond, true)

	// contents are untouched
	content, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(content), "PING")

	// released lock allows the request to be handled
	test.DemandSuccess(t, unlock(f))
	test.ExpectSuccess(t, mb.Handle(context.Background()))
	content, err = os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(content), "PONG")
}

func TestLockReleasedDuringRetry(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "locked.mailbox")
	test.DemandSuccess(t, os.WriteFile(pth, []byte("PING"), 0o600))

	f, err := os.OpenFile(pth, os.O_RDWR, 0)
	test.DemandSuccess(t, err)
	defer f.Close()
	ok, err := tryLock(f)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, ok, true)

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = unlock(f)
	}()

	mb := NewMailbox(Config{Path: pth, LockTimeout: 2 * time.Second}, pong{})
	test.ExpectSuccess(t, mb.Handle(context.Background()))
}
