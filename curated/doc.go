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

// Package curated is a helper package for the plain Go language error type.
// Curated errors are created with the Errorf() function, which takes a
// formatting pattern and placeholder values in the same way as fmt.Errorf().
// The pattern is retained and is what differentiates one curated error from
// another:
//
//	const MissingFile = "relay: no such file: %s"
//
//	err := curated.Errorf(MissingFile, path)
//	if curated.Is(err, MissingFile) {
//		fmt.Println("true")
//	}
//
// Has() is similar to Is() but walks the error chain (any value in the
// chain that is itself a curated error):
//
//	f := curated.Errorf("engine: %v", err)
//	curated.Has(f, MissingFile) // true
//	curated.Is(f, MissingFile)  // false
//
// Sentinel patterns should be declared as const strings next to the code that
// returns them.
//
// The Error() function normalises the message so that duplicate adjacent
// parts of the chain are removed. For our purposes a chain is composed of parts
// separated by ": ". For example, the error "mailbox: mailbox: locked" will be
// printed as "mailbox: locked".
//
// Curated errors also implement Unwrap(). The first value in the list of
// values that is an error of any kind is returned, meaning that the standard
// library's errors.Is() and errors.As() will see through a curated error.
package curated
