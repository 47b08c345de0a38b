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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/logger"
)

// Sentinal errors.
const (
	MailboxLocked  = "mailbox: %s is locked"
	MailboxMissing = "mailbox: %s has been removed"
	MailboxBusy    = "mailbox: %s is busy"
	MailboxTimeout = "mailbox: no response from %s"
	MailboxError   = "mailbox: %v"
)

// LockRetry is the delay between attempts to lock the mailbox file.
const LockRetry = 10 * time.Millisecond

// Default values for Config fields.
const (
	DefaultSettle      = 20 * time.Millisecond
	DefaultLockTimeout = 2 * time.Second
)

// the number of notifications that can be waiting for the handler
const queueDepth = 16

// Executor interprets a request and returns the output to be written to the
// mailbox.
type Executor interface {
	Execute(ctx context.Context, request string) (string, error)
}

// Config for a Mailbox.
type Config struct {
	Path string

	// delay after a notification before the file is opened
	Settle time.Duration

	// maximum time to wait for the lock. a zero value will use the
	// DefaultLockTimeout
	LockTimeout time.Duration

	// nil will use FSNotify
	Notifier Notifier
}

// Mailbox handles requests from external processes.
type Mailbox struct {
	cfg  Config
	exec Executor

	// serialises calls to Handle()
	crit sync.Mutex
}

// NewMailbox is the preferred method of initialisation for the Mailbox type.
func NewMailbox(cfg Config, exec Executor) *Mailbox {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = DefaultLockTimeout
	}
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}
	if cfg.Notifier == nil {
		cfg.Notifier = FSNotify{}
	}
	return &Mailbox{
		cfg:  cfg,
		exec: exec,
	}
}

func (mb *Mailbox) String() string {
	return mb.cfg.Path
}

// Run the mailbox until the context is cancelled or the notifier fails.
func (mb *Mailbox) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan bool, queueDepth)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-queue:
				if err := mb.Handle(ctx); err != nil {
					logger.Log(logger.Allow, "mailbox", err.Error())
				}
			}
		}
	}()

	logger.Logf(logger.Allow, "mailbox", "watching %s", mb.cfg.Path)

	err := mb.cfg.Notifier.Watch(ctx, mb.cfg.Path, func() {
		select {
		case queue <- true:
		default:
			// the mailbox has only one slot. a queue full of notifications
			// will read the most recent request anyway
			logger.Log(logger.Allow, "mailbox", "notification queue full")
		}
	})

	cancel()
	wg.Wait()

	if err != nil {
		return curated.Errorf(MailboxError, err)
	}
	return nil
}

// Handle the request currently in the mailbox. The settle delay is observed
// before the file is opened.
func (mb *Mailbox) Handle(ctx context.Context) error {
	mb.crit.Lock()
	defer mb.crit.Unlock()

	id := uuid.New().String()[:8]

	if !sleep(ctx, mb.cfg.Settle) {
		return nil
	}

	f, err := mb.open(ctx)
	if err != nil {
		return err
	}
	if f == nil {
		return nil
	}
	defer f.Close()
	defer unlock(f)

	req, err := io.ReadAll(f)
	if err != nil {
		return curated.Errorf(MailboxError, err)
	}

	logger.Logf(logger.Allow, "mailbox", "[%s] request: %q", id, req)

	out := mb.execute(ctx, string(req))

	if err := f.Truncate(int64(len(out))); err != nil {
		return curated.Errorf(MailboxError, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return curated.Errorf(MailboxError, err)
	}
	if _, err := io.WriteString(f, out); err != nil {
		return curated.Errorf(MailboxError, err)
	}

	logger.Logf(logger.Allow, "mailbox", "[%s] response: %d bytes", id, len(out))

	return nil
}

// open the mailbox file with an exclusive lock. the lock is retried until the
// lock timeout expires. returns nil and no error if the context is cancelled
func (mb *Mailbox) open(ctx context.Context) (*os.File, error) {
	f, err := os.OpenFile(mb.cfg.Path, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, curated.Errorf(MailboxMissing, mb.cfg.Path)
		}
		return nil, curated.Errorf(MailboxError, err)
	}

	deadline := time.Now().Add(mb.cfg.LockTimeout)
	for {
		ok, err := tryLock(f)
		if err != nil {
			f.Close()
			return nil, curated.Errorf(MailboxError, err)
		}
		if ok {
			return f, nil
		}
		if time.Now().After(deadline) {
			f.Close()
			return nil, curated.Errorf(MailboxLocked, mb.cfg.Path)
		}
		if !sleep(ctx, LockRetry) {
			f.Close()
			return nil, nil
		}
	}
}

// execute the request, converting errors and panics into output
func (mb *Mailbox) execute(ctx context.Context, req string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("error: %v", r)
		}
	}()

	out, err := mb.exec.Execute(ctx, req)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return out
}

// sleep for the duration. returns false if the context was cancelled first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
