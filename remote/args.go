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

// Package remote interprets the requests made through the mailbox. A request
// is a single line of text: a command word, which is not case sensitive,
// followed by any arguments.
//
// The HELP command lists the available commands.
package remote

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jetsetilly/gopherboard/command"
	"github.com/jetsetilly/gopherboard/curated"
	"github.com/jetsetilly/gopherboard/govern"
	"github.com/jetsetilly/gopherboard/governor"
	"github.com/jetsetilly/gopherboard/logger"
	"github.com/jetsetilly/gopherboard/preferences"
	"github.com/jetsetilly/gopherboard/relay"
	"github.com/jetsetilly/gopherboard/status"
)

// Sentinal errors.
const (
	UnknownCommand   = "remote: unknown command: %s"
	MalformedRequest = "remote: malformed request: %s"
	EnginePaused     = "remote: cannot send while the engine is paused"
	SendStalled      = "remote: send stalled after %d bytes"
)

// SendStall is the longest SEND will wait for a single byte to be accepted by
// the serial port. A port that is not being emptied, because the engine has
// been paused during the SEND for example, will not hold up the request for
// longer than this.
const SendStall = 500 * time.Millisecond

// DefaultLogLines is the number of log entries returned by LOG without an
// argument.
const DefaultLogLines = 10

// Engine is the part of the execution engine controlled by requests.
type Engine interface {
	Pause()
	Resume()
	Step()
	State() govern.State
	Ticks() uint64
}

// Rate is the origin of the measured clock rate.
type Rate interface {
	Estimate() governor.RateEstimate
}

// Board is the part of the board inspected or written to by requests.
type Board interface {
	SwitchValue() uint8
	SendContext(ctx context.Context, b byte) error
}

// Submitter applies commands to the board.
type Submitter interface {
	Submit(command.Pending) (string, error)
}

// Args executes requests. It implements the mailbox.Executor interface.
type Args struct {
	eng   Engine
	rate  Rate
	board Board
	cmds  Submitter
	prefs *preferences.Preferences
}

// NewArgs is the preferred method of initialisation for the Args type.
func NewArgs(eng Engine, rate Rate, board Board, cmds Submitter, prefs *preferences.Preferences) *Args {
	return &Args{
		eng:   eng,
		rate:  rate,
		board: board,
		cmds:  cmds,
		prefs: prefs,
	}
}

type handler struct {
	help string
	fn   func(a *Args, ctx context.Context, args string) (string, error)
}

var commands map[string]handler

func init() {
	commands = map[string]handler{
		"PING": {"check the mailbox is being served", func(_ *Args, _ context.Context, _ string) (string, error) {
			return "PONG", nil
		}},
		"STATUS":   {"execution state and clock rate", (*Args).status},
		"PAUSE":    {"pause the engine", (*Args).pause},
		"RUN":      {"resume the engine", (*Args).run},
		"STEP":     {"step a paused engine by one instruction", (*Args).step},
		"SWITCH":   {"SWITCH n: toggle switch n (1 to 8)", (*Args).toggle},
		"SWITCHES": {"value of the switch register", (*Args).switches},
		"SEND":     {"SEND text: send a line of text to the serial port", (*Args).send},
		"UPLOAD":   {"UPLOAD file: upload a file to the serial port", (*Args).upload},
		"RATE":     {"RATE [hz]: show or set the target clock rate", (*Args).rateCmd},
		"TICKS":    {"number of clock ticks since start", (*Args).ticks},
		"RESET":    {"reset the CPU to address zero", (*Args).reset},
		"LOG":      {"LOG [n|ALL|CLEAR]: recent log entries", (*Args).log},
		"HELP":     {"list commands", (*Args).help},
	}
}

// Execute implements the mailbox.Executor interface.
func (a *Args) Execute(ctx context.Context, request string) (string, error) {
	request = strings.TrimRight(request, "\r\n")
	request = strings.TrimLeft(request, " \t")

	word, args := request, ""
	if i := strings.IndexAny(request, " \t"); i >= 0 {
		word, args = request[:i], request[i+1:]
	}
	word = strings.ToUpper(word)
	if word == "" {
		return "", curated.Errorf(MalformedRequest, "empty request")
	}

	h, ok := commands[word]
	if !ok {
		return "", curated.Errorf(UnknownCommand, word)
	}

	out, err := h.fn(a, ctx, args)
	if err != nil {
		logger.Logf(logger.Allow, "remote", "%s: %v", word, err)
		return "", err
	}
	return out, nil
}

func (a *Args) status(_ context.Context, _ string) (string, error) {
	return status.Text(a.eng.State(), a.rate.Estimate().Smoothed, a.prefs.TargetRate.Get().(int)), nil
}

func (a *Args) pause(_ context.Context, _ string) (string, error) {
	a.eng.Pause()
	return a.eng.State().String(), nil
}

func (a *Args) run(_ context.Context, _ string) (string, error) {
	a.eng.Resume()
	return a.eng.State().String(), nil
}

func (a *Args) step(_ context.Context, _ string) (string, error) {
	a.eng.Step()
	return a.eng.State().String(), nil
}

func (a *Args) toggle(ctx context.Context, args string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 1 || n > 8 {
		return "", curated.Errorf(MalformedRequest, "SWITCH requires a number from 1 to 8")
	}
	if _, err := a.cmds.Submit(command.Pending{Kind: command.ToggleSwitch, Switch: n - 1}); err != nil {
		return "", err
	}
	return a.switches(ctx, "")
}

func (a *Args) switches(_ context.Context, _ string) (string, error) {
	return fmt.Sprintf("%08b", a.board.SwitchValue()), nil
}

// stallSender gives each byte SendStall to reach the serial port
type stallSender struct {
	board   Board
	stalled bool
}

func (s *stallSender) SendContext(ctx context.Context, b byte) error {
	sctx, cancel := context.WithTimeout(ctx, SendStall)
	defer cancel()
	err := s.board.SendContext(sctx, b)
	if err != nil && ctx.Err() == nil && sctx.Err() != nil {
		s.stalled = true
	}
	return err
}

// the text is sent with a blocking send so the bytes arrive in order. a paused
// engine would never consume a long line so sending is refused
func (a *Args) send(ctx context.Context, args string) (string, error) {
	if a.eng.State() == govern.Paused {
		return "", curated.Errorf(EnginePaused)
	}
	snd := &stallSender{board: a.board}
	n, err := relay.Copy(ctx, strings.NewReader(args), snd)
	if err != nil {
		return "", err
	}
	if snd.stalled || ctx.Err() != nil {
		return "", curated.Errorf(SendStalled, n)
	}
	return fmt.Sprintf("sent %d bytes", n), nil
}

func (a *Args) reset(_ context.Context, _ string) (string, error) {
	if _, err := a.cmds.Submit(command.Pending{Kind: command.ResetBoard}); err != nil {
		return "", err
	}
	return "reset", nil
}

func (a *Args) log(_ context.Context, args string) (string, error) {
	w := &strings.Builder{}
	switch arg := strings.ToUpper(strings.TrimSpace(args)); arg {
	case "":
		logger.Tail(w, DefaultLogLines)
	case "ALL":
		logger.Write(w)
	case "CLEAR":
		logger.Clear()
		return "log cleared", nil
	default:
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return "", curated.Errorf(MalformedRequest, "LOG requires a number, ALL or CLEAR")
		}
		logger.Tail(w, n)
	}
	return strings.TrimRight(w.String(), "\n"), nil
}

func (a *Args) upload(_ context.Context, args string) (string, error) {
	path := strings.TrimSpace(args)
	if path == "" {
		return "", curated.Errorf(MalformedRequest, "UPLOAD requires a filename")
	}
	if _, err := a.cmds.Submit(command.Pending{Kind: command.UploadFile, Path: path}); err != nil {
		return "", err
	}
	return fmt.Sprintf("uploading %s", path), nil
}

func (a *Args) rateCmd(_ context.Context, args string) (string, error) {
	args = strings.TrimSpace(args)
	if args != "" {
		if err := a.prefs.TargetRate.Set(args); err != nil {
			return "", curated.Errorf(MalformedRequest, err)
		}
	}
	return fmt.Sprintf("target rate %d Hz", a.prefs.TargetRate.Get().(int)), nil
}

func (a *Args) ticks(_ context.Context, _ string) (string, error) {
	return strconv.FormatUint(a.eng.Ticks(), 10), nil
}

func (a *Args) help(_ context.Context, _ string) (string, error) {
	words := make([]string, 0, len(commands))
	for w := range commands {
		words = append(words, w)
	}
	sort.Strings(words)

	var s strings.Builder
	for _, w := range words {
		s.WriteString(fmt.Sprintf("%-9s %s\n", w, commands[w].help))
	}
	return s.String(), nil
}
