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

package relay_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/hardware/serial"
	"github.com/jetsetilly/gopherboard/relay"
	"github.com/jetsetilly/gopherboard/test"
)

type recorder struct {
	sent  []byte
	limit int
	err   error
}

func (r *recorder) SendContext(_ context.Context, b byte) error {
	if r.limit > 0 && len(r.sent) >= r.limit {
		return r.err
	}
	r.sent = append(r.sent, b)
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	pth := filepath.Join(t.TempDir(), "upload.txt")
	test.DemandSuccess(t, os.WriteFile(pth, []byte(content), 0o600))
	return pth
}

func TestRelayLines(t *testing.T) {
	rec := &recorder{}
	n, err := relay.Relay(context.Background(), writeFile(t, "ab\nc\n\n"), rec)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 5)
	test.ExpectEquality(t, string(rec.sent), "ab\nc\n\n")
}

func TestRelayNoFinalNewline(t *testing.T) {
	rec := &recorder{}
	n, err := relay.Relay(context.Background(), writeFile(t, "10 PRINT\n20 GOTO 10"), rec)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 20)
	test.ExpectEquality(t, string(rec.sent), "10 PRINT\n20 GOTO 10\n")
}

func TestRelayCarriageReturn(t *testing.T) {
	rec := &recorder{}
	_, err := relay.Relay(context.Background(), writeFile(t, "a\r\nb\r\n"), rec)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(rec.sent), "a\r\nb\r\n")
}

func TestRelayEmptyFile(t *testing.T) {
	rec := &recorder{}
	n, err := relay.Relay(context.Background(), writeFile(t, ""), rec)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 0)
}

func TestRelayMissingFile(t *testing.T) {
	rec := &recorder{}
	n, err := relay.Relay(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), rec)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, relay.MissingUploadFile), true)
	test.ExpectEquality(t, n, 0)
	test.ExpectEquality(t, len(rec.sent), 0)
}

func TestRelaySendError(t *testing.T) {
	rec := &recorder{limit: 3, err: errors.New("port closed")}
	n, err := relay.Relay(context.Background(), writeFile(t, "abcdef\n"), rec)
	test.ExpectEquality(t, curated.Is(err, relay.UploadFailed), true)
	test.ExpectEquality(t, n, 3)
}

func TestCopyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	n, err := relay.Copy(ctx, strings.NewReader("abc\n"), rec)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 0)
}

func TestCopyBlockedCancelled(t *testing.T) {
	// a port that is never read fills after the first byte
	p := serial.NewPort("A", 1)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	var n int
	var err error
	go func() {
		defer close(done)
		n, err = relay.Copy(ctx, strings.NewReader("abc\n"), p)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("copy still blocked after its context expired")
	}
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 1)
	test.ExpectEquality(t, p.Pending(), 1)
}
