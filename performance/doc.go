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

// Package performance measures the rate at which the board can be run and
// optionally profiles the program while doing so.
//
// Profiles are written to files in the current directory, with names made
// unique by the time of creation. The profiles can be inspected with the
// pprof tool:
//
//	go tool pprof gopherboard performance_cpu_<timestamp>.profile
package performance
