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

// Package version reports the version of the application. A release build
// sets the version number with the linker:
//
//	go build -ldflags "-X github.com/jetsetilly/gopherboard/version.number=v0.1.0"
//
// Builds without a version number report "unreleased" if vcs information is
// available and "local" if it is not.
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name to use when referring to the application.
const ApplicationName = "Gopherboard"

// set by the linker for release builds
var number string

var (
	version  string
	revision string
)

// Version returns the version string, the vcs revision and whether the build
// is a numbered release.
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

// String returns the application name and version in a form suitable for
// display.
func String() string {
	v, r, release := Version()
	if release {
		return fmt.Sprintf("%s %s", ApplicationName, v)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, v, r)
}

func init() {
	version, revision = describe(number, readSettings())
}

func readSettings() map[string]string {
	settings := make(map[string]string)
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}
	}
	return settings
}

// describe the build from the version number and the build settings
func describe(number string, settings map[string]string) (string, string) {
	rev := settings["vcs.revision"]
	if rev == "" {
		rev = "no revision information"
	} else if settings["vcs.modified"] == "true" {
		rev = fmt.Sprintf("%s+dirty", rev)
	}

	if number != "" {
		return number, rev
	}
	if _, ok := settings["vcs"]; ok {
		return "unreleased", rev
	}
	return "local", rev
}
