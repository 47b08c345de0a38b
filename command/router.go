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

package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/logger"
	"github.com/jetsetilly/gopherboard/relay"
)

// Kind of command.
type Kind int

// List of valid Kinds.
const (
	ToggleSwitch Kind = iota
	SendChar
	UploadFile
	ExternalRequest
	ResetBoard
)

func (k Kind) String() string {
	switch k {
	case ToggleSwitch:
		return "ToggleSwitch"
	case SendChar:
		return "SendChar"
	case UploadFile:
		return "UploadFile"
	case ExternalRequest:
		return "ExternalRequest"
	case ResetBoard:
		return "ResetBoard"
	}
	return "unknown command"
}

// Pending is a request to mutate the board. Only the field relevant to the
// Kind is used.
type Pending struct {
	Kind

	// switch index (0 to 7) for ToggleSwitch
	Switch int

	// byte for SendChar
	Char byte

	// file for UploadFile
	Path string

	// request text for ExternalRequest
	Text string
}

func (p Pending) String() string {
	switch p.Kind {
	case ToggleSwitch:
		return fmt.Sprintf("%s %d", p.Kind, p.Switch)
	case SendChar:
		return fmt.Sprintf("%s %q", p.Kind, p.Char)
	case UploadFile:
		return fmt.Sprintf("%s %s", p.Kind, p.Path)
	case ExternalRequest:
		return fmt.Sprintf("%s %q", p.Kind, p.Text)
	}
	return p.Kind.String()
}

// Sentinal errors.
const (
	UnsupportedCommand = "command: unsupported command: %v"
	NoExecutor         = "command: no executor for external requests"
)

// Board is the part of the board mutated by commands.
type Board interface {
	ToggleSwitch(index int) error
	SendContext(ctx context.Context, b byte) error
	SendAsync(b byte)
	Reset()
}

// Executor handles ExternalRequest commands.
type Executor interface {
	Execute(ctx context.Context, request string) (string, error)
}

// Router applies Pending commands to the board.
type Router struct {
	ctx   context.Context
	board Board

	crit     sync.Mutex
	executor Executor

	uploads sync.WaitGroup

	// called with the result of every upload. may be nil
	onUpload func(path string, n int, err error)
}

// NewRouter is the preferred method of initialisation for the Router type.
// The context bounds the lifetime of any uploads started by the router.
func NewRouter(ctx context.Context, board Board) *Router {
	return &Router{
		ctx:   ctx,
		board: board,
	}
}

// SetExecutor sets the handler for ExternalRequest commands.
func (r *Router) SetExecutor(e Executor) {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.executor = e
}

// OnUpload sets the function called when an upload completes.
func (r *Router) OnUpload(f func(path string, n int, err error)) {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.onUpload = f
}

// Submit a command. The string result is only meaningful for an
// ExternalRequest command.
//
// UploadFile commands return immediately. The upload continues in the
// background.
func (r *Router) Submit(p Pending) (string, error) {
	switch p.Kind {
	case ToggleSwitch:
		if err := r.board.ToggleSwitch(p.Switch); err != nil {
			return "", err
		}
		logger.Logf(logger.Allow, "command", "toggled switch %d", p.Switch+1)
		return "", nil

	case SendChar:
		r.board.SendAsync(p.Char)
		return "", nil

	case UploadFile:
		r.upload(p.Path)
		return "", nil

	case ExternalRequest:
		return r.external(r.ctx, p.Text)

	case ResetBoard:
		r.board.Reset()
		logger.Log(logger.Allow, "command", "board reset")
		return "", nil
	}

	return "", curated.Errorf(UnsupportedCommand, p.Kind)
}

func (r *Router) external(ctx context.Context, request string) (string, error) {
	r.crit.Lock()
	e := r.executor
	r.crit.Unlock()
	if e == nil {
		return "", curated.Errorf(NoExecutor)
	}
	return e.Execute(ctx, request)
}

// Execute implements the Executor interface. The request is handled as an
// ExternalRequest command bounded by the supplied context.
func (r *Router) Execute(ctx context.Context, request string) (string, error) {
	return r.external(ctx, request)
}

func (r *Router) upload(path string) {
	r.crit.Lock()
	done := r.onUpload
	r.crit.Unlock()

	r.uploads.Add(1)
	go func() {
		defer r.uploads.Done()
		n, err := relay.Relay(r.ctx, path, r.board)
		if err != nil {
			logger.Log(logger.Allow, "command", err.Error())
		}
		if done != nil {
			done(path, n, err)
		}
	}()
}

// Wait for all uploads to complete.
func (r *Router) Wait() {
	r.uploads.Wait()
}
