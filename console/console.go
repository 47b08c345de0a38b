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

package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jetsetilly/gopherboard/command"
	"github.com/jetsetilly/gopherboard/console/easyterm"
	"github.com/jetsetilly/gopherboard/govern"
	"github.com/jetsetilly/gopherboard/logger"
)

// KeySource is the origin of keystrokes. ReadKey() blocks until a key is
// available.
type KeySource interface {
	ReadKey() (byte, error)
}

// Engine is the run state control of the execution engine.
type Engine interface {
	Pause()
	Resume()
	Step()
	Quit()
	State() govern.State
}

// Submitter applies commands to the board.
type Submitter interface {
	Submit(command.Pending) (string, error)
}

type mode int

const (
	modeNormal mode = iota
	modeSwitch
	modeCommand
	modeOther
	modePrompt
)

// UploadPrompt is shown when asking for the name of the file to upload.
const UploadPrompt = "upload: "

// Console dispatches keystrokes.
type Console struct {
	keys KeySource
	out  io.Writer
	eng  Engine
	cmds Submitter

	mode   mode
	prompt strings.Builder

	// called with true when the upload prompt is shown and with false when
	// it is dismissed. may be nil
	onPrompt func(bool)
}

// NewConsole is the preferred method of initialisation for the Console type.
func NewConsole(keys KeySource, out io.Writer, eng Engine, cmds Submitter) *Console {
	return &Console{
		keys: keys,
		out:  out,
		eng:  eng,
		cmds: cmds,
	}
}

// OnPrompt sets the function to be called when the upload prompt is shown
// and when it is dismissed. Must be called before Run().
func (con *Console) OnPrompt(f func(prompting bool)) {
	con.onPrompt = f
}

// Run the console until the context is cancelled, the key source fails or the
// user quits. The engine is told to quit when the user quits.
func (con *Console) Run(ctx context.Context) error {
	keys := make(chan byte)
	fail := make(chan error, 1)

	go func() {
		for {
			k, err := con.keys.ReadKey()
			if err != nil {
				fail <- err
				return
			}
			select {
			case keys <- k:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-fail:
			if !errors.Is(err, io.EOF) {
				logger.Logf(logger.Allow, "console", "key source: %v", err)
			}
			return nil
		case k := <-keys:
			if con.handle(k) {
				logger.Log(logger.Allow, "console", "quit")
				con.eng.Quit()
				return nil
			}
		}
	}
}

// handle a single key. returns true if the user has asked to quit.
func (con *Console) handle(key byte) bool {
	switch con.mode {
	case modeNormal:
		if key == easyterm.KeyInterrupt {
			return true
		}
		if easyterm.IsControl(key) {
			switch key {
			case easyterm.KeyCtrlT:
				con.mode = modeSwitch
			case easyterm.KeyCtrlA:
				con.mode = modeCommand
			default:
				con.mode = modeOther
			}
			return false
		}
		con.submit(command.Pending{Kind: command.SendChar, Char: key})

	case modeSwitch:
		con.mode = modeNormal
		if key >= '1' && key <= '8' {
			con.submit(command.Pending{Kind: command.ToggleSwitch, Switch: int(key - '1')})
		}

	case modeCommand:
		con.mode = modeNormal
		switch key {
		case 's', 'S':
			con.mode = modePrompt
			con.prompt.Reset()
			con.prompting(true)
			con.print("\r\n%s", UploadPrompt)
		case 'p', 'P':
			if con.eng.State() == govern.Paused {
				con.eng.Resume()
			} else {
				con.eng.Pause()
			}
		case 'n', 'N':
			con.eng.Step()
		case 'r', 'R':
			con.submit(command.Pending{Kind: command.ResetBoard})
		case 'q', 'Q':
			return true
		}

	case modeOther:
		// the second key of an undefined combination is discarded
		con.mode = modeNormal

	case modePrompt:
		con.edit(key)
	}

	return false
}

// edit the filename at the upload prompt
func (con *Console) edit(key byte) {
	switch key {
	case easyterm.KeyCarriageReturn, easyterm.KeyLineFeed:
		con.mode = modeNormal
		con.print("\r\n")
		con.prompting(false)
		path := strings.TrimSpace(con.prompt.String())
		con.prompt.Reset()
		if path != "" {
			con.submit(command.Pending{Kind: command.UploadFile, Path: path})
		}

	case easyterm.KeyEsc, easyterm.KeyInterrupt:
		con.mode = modeNormal
		con.prompt.Reset()
		con.print("\r\n")
		con.prompting(false)

	case easyterm.KeyBackspace, easyterm.KeyDelete:
		s := con.prompt.String()
		if len(s) > 0 {
			con.prompt.Reset()
			con.prompt.WriteString(s[:len(s)-1])
			con.print("\b \b")
		}

	default:
		if key >= ' ' && key < easyterm.KeyDelete {
			con.prompt.WriteByte(key)
			con.print("%c", key)
		}
	}
}

func (con *Console) prompting(p bool) {
	if con.onPrompt != nil {
		con.onPrompt(p)
	}
}

// errors from commands are logged and otherwise ignored
func (con *Console) submit(p command.Pending) {
	if _, err := con.cmds.Submit(p); err != nil {
		logger.Log(logger.Allow, "console", err.Error())
	}
}

func (con *Console) print(s string, a ...interface{}) {
	if con.out == nil {
		return
	}
	_, _ = io.WriteString(con.out, fmt.Sprintf(s, a...))
}
