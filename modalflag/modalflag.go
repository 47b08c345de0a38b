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

package modalflag

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jetsetilly/gopherboard/prefs"
)

// ParseResult is returned by the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// parsing was successful and the program should continue
	ParseContinue ParseResult = iota

	// help has been printed to the Output writer. the program should stop
	// without printing anything else
	ParseHelp

	// parsing failed. the error is returned alongside the result
	ParseError
)

// Modes is the command line parser.
type Modes struct {
	// help messages are written to Output. if Output is nil then help
	// messages are discarded
	Output io.Writer

	args []string
	next int

	flags    *flag.FlagSet
	subModes []string
	help     string
	parsed   bool

	// the modes selected by all calls to Parse() so far
	path []string
}

func (md *Modes) String() string {
	return md.Path()
}

// NewArgs sets the arguments to be parsed and begins a new mode.
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.next = 0
	md.NewMode()
}

// NewMode discards the flags and sub-modes of the previous mode. Arguments
// not yet consumed by Parse() are carried over.
func (md *Modes) NewMode() {
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.subModes = nil
	md.help = ""
	md.parsed = false
}

// Mode returns the most recently selected mode.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns all selected modes, separated by a slash.
func (md *Modes) Path() string {
	return strings.Join(md.path, "/")
}

// Parsed returns true if Parse() has been called since the most recent call
// to NewMode(), whether or not parsing was successful.
func (md *Modes) Parsed() bool {
	return md.parsed
}

// AdditionalHelp is printed after the list of flags and sub-modes.
func (md *Modes) AdditionalHelp(help string) {
	md.help = help
}

// AddSubModes adds to the list of sub-modes for the next Parse(). The first
// sub-mode becomes the default mode. Sub-modes are not case sensitive.
func (md *Modes) AddSubModes(subModes ...string) {
	for _, m := range subModes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// Parse the arguments for the current mode.
func (md *Modes) Parse() (ParseResult, error) {
	md.parsed = true

	hw := &helpWriter{}
	md.flags.SetOutput(hw)

	err := md.flags.Parse(md.args[md.next:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			hw.write(md.Output, md.Path(), md.subModes, md.help)
			return ParseHelp, nil
		}

		// flags that are not recognised at this level may belong to the
		// default sub-mode. the arguments are left for that mode to parse
		if len(md.subModes) > 0 {
			md.path = append(md.path, md.subModes[0])
			return ParseContinue, nil
		}

		return ParseError, err
	}

	// the remaining arguments of the current mode become the arguments
	// for the next mode
	md.next = len(md.args) - md.flags.NArg()

	if len(md.subModes) > 0 {
		mode := md.subModes[0]
		arg := strings.ToUpper(md.flags.Arg(0))
		for _, m := range md.subModes {
			if m == arg {
				mode = m
				md.next++
				break
			}
		}
		md.path = append(md.path, mode)
	}

	return ParseContinue, nil
}

// RemainingArgs returns the arguments that are not flags or a sub-mode.
func (md *Modes) RemainingArgs() []string {
	if len(md.subModes) > 0 && md.flags.NArg() > 0 && strings.ToUpper(md.flags.Arg(0)) == md.Mode() {
		return md.flags.Args()[1:]
	}
	return md.flags.Args()
}

// GetArg returns the numbered argument from the RemainingArgs() list. An
// empty string is returned if there is no such argument.
func (md *Modes) GetArg(i int) string {
	r := md.RemainingArgs()
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// AddBool flag for the next Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddDuration flag for the next Parse().
func (md *Modes) AddDuration(name string, value time.Duration, usage string) *time.Duration {
	return md.flags.Duration(name, value, usage)
}

// AddInt flag for the next Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddString flag for the next Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}

// Pref is a preference value that can be bound to a flag.
type Pref interface {
	fmt.Stringer
	Set(prefs.Value) error
}

// prefValue implements the flag.Value interface for a preference
type prefValue struct {
	p Pref
}

func (v prefValue) String() string {
	if v.p == nil {
		return ""
	}
	return v.p.String()
}

func (v prefValue) Set(s string) error {
	return v.p.Set(s)
}

// boolean preferences do not require a value on the command line
func (v prefValue) IsBoolFlag() bool {
	_, ok := v.p.(*prefs.Bool)
	return ok
}

// AddPref binds a flag to a preference value for the next Parse(). The
// default shown in the help message is the current value of the preference.
func (md *Modes) AddPref(name string, p Pref, usage string) {
	md.flags.Var(prefValue{p: p}, name, usage)
}

// Visit calls fn for every flag that was set on the command line, in
// lexicographical order.
func (md *Modes) Visit(fn func(flag string)) {
	md.flags.Visit(func(f *flag.Flag) {
		fn(f.Name)
	})
}
