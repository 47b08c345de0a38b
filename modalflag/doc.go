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

// Package modalflag handles command lines made up of modes, each mode with
// its own set of flags. For example:
//
//	gopherboard REMOTE -timeout 5s PING
//
// The first word that is not a flag selects the mode. If the word does not
// match any of the listed sub-modes then the default sub-mode is selected and
// the word is left for the mode to use as an ordinary argument.
//
// Typical use:
//
//	md := &modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "REMOTE")
//
//	r, err := md.Parse()
//	switch r {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		log := md.AddBool("log", false, "echo log to stdout")
//		...
//	}
//
// Flags can also be bound to a preference value with AddPref(). The
// preference is changed only if the flag is present on the command line and
// the change is made through the preference's Set() function, so any
// validation hooks are honoured.
package modalflag
