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

package relay

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/logger"
)

// Sentinal errors.
const (
	MissingUploadFile = "relay: upload file does not exist: %s"
	UploadFailed      = "relay: %v"
)

// Sender is the serial port of the board. SendContext must block while the
// port is full and return the context error when the context is done.
type Sender interface {
	SendContext(ctx context.Context, b byte) error
}

// Relay the contents of the named file to the Sender. Returns the number of
// bytes sent.
//
// A long upload can be abandoned by cancelling the context, including when the
// upload is blocked on a full serial port. Cancellation is not an error.
func Relay(ctx context.Context, path string, dest Sender) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, curated.Errorf(MissingUploadFile, path)
		}
		return 0, curated.Errorf(UploadFailed, err)
	}
	defer f.Close()

	logger.Logf(logger.Allow, "relay", "uploading %s", path)

	n, err := Copy(ctx, f, dest)
	if err != nil {
		return n, curated.Errorf(UploadFailed, err)
	}

	logger.Logf(logger.Allow, "relay", "sent %d bytes from %s", n, path)

	return n, nil
}

// Copy the text from the reader to the Sender, line by line.
func Copy(ctx context.Context, r io.Reader, dest Sender) (int, error) {
	var n int

	send := func(b byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := dest.SendContext(ctx, b); err != nil {
			return err
		}
		n++
		return nil
	}

	rdr := bufio.NewReader(r)
	for {
		line, err := rdr.ReadBytes('\n')
		if len(line) > 0 {
			if line[len(line)-1] == '\n' {
				line = line[:len(line)-1]
			}
			for _, b := range line {
				if err := send(b); err != nil {
					return n, cancelled(err)
				}
			}
			if err := send('\n'); err != nil {
				return n, cancelled(err)
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
	}
}

// cancellation of the context is not an error
func cancelled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
