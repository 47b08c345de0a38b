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

// Package paths contains functions to prepare paths for resources: the
// preferences file and anything else that should persist between sessions.
//
// If a directory named ".gopherboard" exists in the current working
// directory then that is used as the base path. Otherwise the base path is a
// "gopherboard" directory in the user's configuration directory, as returned
// by os.UserConfigDir().
//
// ResourcePath() does not create any files or directories.
package paths

import (
	"os"
	"path/filepath"
)

// the base path for all resources. note that we don't use this value directly
// except in the basePath() function. that function should be used instead.
const baseResourcePath = ".gopherboard"

// ResourcePath returns the resource string (representing the resource to be
// loaded) prepended with operating system specific details.
func ResourcePath(resource ...string) string {
	p := make([]string, 0, len(resource)+1)
	p = append(p, basePath())
	p = append(p, resource...)
	return filepath.Join(p...)
}

func basePath() string {
	if fi, err := os.Stat(baseResourcePath); err == nil && fi.IsDir() {
		return baseResourcePath
	}

	home, err := os.UserConfigDir()
	if err != nil {
		return baseResourcePath
	}
	return filepath.Join(home, baseResourcePath[1:])
}

// MailboxPath returns the default location of the mailbox file. The
// mailbox is shared with other processes so it lives in the system's
// temporary directory and not in the resource directory.
func MailboxPath() string {
	return filepath.Join(os.TempDir(), "gopherboard.mailbox")
}
