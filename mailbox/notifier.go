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
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jetsetilly/gopherboard/logger"
)

// Notifier calls the notify function whenever the file at path is created.
// Watch() blocks until the context is cancelled or the notifier fails.
//
// A file that already exists when Watch() is called does not cause a
// notification.
type Notifier interface {
	Watch(ctx context.Context, path string, notify func()) error
}

// FSNotify uses filesystem notifications on the directory containing the
// mailbox.
type FSNotify struct{}

// Watch implements the Notifier interface.
func (FSNotify) Watch(ctx context.Context, path string, notify func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && filepath.Clean(ev.Name) == path {
				notify()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Logf(logger.Allow, "mailbox", "notifier: %v", err)
		}
	}
}

// Poller checks for the existence of the mailbox file at a fixed period. For
// use on filesystems that do not provide reliable notifications.
//
// A mailbox that is removed and recreated within one period may be missed if
// the filesystem reuses the file's identity.
type Poller struct {
	Period time.Duration
}

// DefaultPollPeriod is used if the Poller's Period is zero.
const DefaultPollPeriod = 50 * time.Millisecond

// Watch implements the Notifier interface.
func (p Poller) Watch(ctx context.Context, path string, notify func()) error {
	period := p.Period
	if period <= 0 {
		period = DefaultPollPeriod
	}

	stat := func() os.FileInfo {
		fi, err := os.Stat(path)
		if err != nil {
			return nil
		}
		return fi
	}

	// a file that is replaced between polls is noticed because it is no
	// longer the same file
	prev := stat()

	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			cur := stat()
			if cur != nil && (prev == nil || !os.SameFile(prev, cur)) {
				notify()
			}
			prev = cur
		}
	}
}
