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

// Package mailbox implements a single slot request channel for external
// processes, over a file at a well-known path.
//
// The protocol is:
//
//  1. The external process creates the mailbox file and writes its request
//     while holding an exclusive lock on the file.
//  2. The Mailbox is notified of the file's creation. After a short settle
//     delay it opens the file and takes an exclusive lock, retrying for a
//     limited time if the external process still holds its lock.
//  3. The contents of the file are passed to the Executor and the file is
//     replaced with the Executor's output. Errors from the Executor are
//     written as output in the form "error: ...".
//  4. The lock is released and the file is left for the external process to
//     read and remove.
//
// Notifications are queued and processed by a single goroutine so requests
// are handled strictly in the order of creation. A second request made before
// the first has been handled will overwrite the first on disk.
//
// The Request() function implements the external side of the protocol.
//
// Locking uses flock() on posix systems. On Windows the lock is a no-op and
// the protocol relies on the settle delay.
package mailbox
