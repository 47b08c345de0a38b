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

package mailbox

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/jetsetilly/gopherboard/curated"
)

// Request makes a request of the mailbox at path and waits for the response.
// The mailbox file is removed before returning.
//
// The context should carry a deadline. Without one Request() will wait
// forever for a response.
func Request(ctx context.Context, path string, request string) (string, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", curated.Errorf(MailboxBusy, path)
		}
		return "", curated.Errorf(MailboxError, err)
	}
	defer os.Remove(path)

	// the file was created by this process and nobody else can hold the
	// lock yet. the retry is only a formality
	written, err := func() (time.Time, error) {
		defer f.Close()
		for {
			ok, err := tryLock(f)
			if err != nil {
				return time.Time{}, err
			}
			if ok {
				break
			}
			time.Sleep(LockRetry)
		}
		defer unlock(f)

		if _, err := io.WriteString(f, request); err != nil {
			return time.Time{}, err
		}
		if err := f.Sync(); err != nil {
			return time.Time{}, err
		}
		fi, err := f.Stat()
		if err != nil {
			return time.Time{}, err
		}
		return fi.ModTime(), nil
	}()
	if err != nil {
		return "", curated.Errorf(MailboxError, err)
	}

	for {
		if !sleep(ctx, LockRetry) {
			return "", curated.Errorf(MailboxTimeout, path)
		}

		resp, ok, err := poll(path, []byte(request), written)
		if err != nil {
			return "", err
		}
		if ok {
			return resp, nil
		}
	}
}

// poll the mailbox for a response. a response is recognised by a change of
// content or modification time
func poll(path string, request []byte, written time.Time) (string, bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, curated.Errorf(MailboxMissing, path)
		}
		return "", false, curated.Errorf(MailboxError, err)
	}
	defer f.Close()

	ok, err := tryLock(f)
	if err != nil {
		return "", false, curated.Errorf(MailboxError, err)
	}
	if !ok {
		return "", false, nil
	}
	defer unlock(f)

	content, err := io.ReadAll(f)
	if err != nil {
		return "", false, curated.Errorf(MailboxError, err)
	}
	fi, err := f.Stat()
	if err != nil {
		return "", false, curated.Errorf(MailboxError, err)
	}

	if bytes.Equal(content, request) && fi.ModTime().Equal(written) {
		return "", false, nil
	}

	return string(content), true, nil
}
