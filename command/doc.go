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

// Package command routes the requests that mutate the board. Requests
// originate from the console, from the mailbox and from the remote executor
// but they are all expressed as a Pending command and applied by the Router.
//
// The board synchronises each mutation itself so the Router can be used from
// any goroutine while the engine is running. File uploads are performed in a
// goroutine of their own and can be waited for with the Wait() function.
package command
