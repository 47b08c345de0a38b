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

package easyterm

// list of ASCII codes for keys with special meaning to the console
const (
	KeyCtrlA          = 1
	KeyInterrupt      = 3 // end-of-text character
	KeyBackspace      = 8
	KeyTab            = 9
	KeyLineFeed       = 10
	KeyCarriageReturn = 13
	KeyCtrlT          = 20
	KeySuspend        = 26 // substitute character
	KeyEsc            = 27
	KeyDelete         = 127
)

// IsControl returns true if the key is a control-modified key. Keys with
// their own meaning on a terminal (tab, backspace, line endings and escape)
// are not considered to be control-modified.
func IsControl(key byte) bool {
	switch key {
	case KeyBackspace, KeyTab, KeyLineFeed, KeyCarriageReturn:
		return false
	}
	return key >= KeyCtrlA && key <= KeySuspend
}
