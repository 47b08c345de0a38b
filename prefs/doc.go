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

// Package prefs facilitates the storage of user preferences. Values are
// stored in types that can be read and written safely from any goroutine
// (Bool, Int, Float, String and Duration) and are bound to a key in a Disk
// instance so that they can be loaded from and saved to a TOML file.
//
// Keys are dotted paths. The key "engine.targetRate" is written to the file
// as:
//
//	[engine]
//	targetRate = 4000000
//
// Each type can have a hook function that is called before or after a new
// value is set. A pre-hook can veto the new value by returning an error.
package prefs
