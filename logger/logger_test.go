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

package logger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/jetsetilly/gopherboard/test"
)

func TestLogger(t *testing.T) {
	l := newLogger(3)
	tw := &test.CompareWriter{}

	l.write(tw)
	test.ExpectSuccess(t, tw.Compare(""))

	l.log("test", "this is a test")
	l.write(tw)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\n"))
	tw.Clear()

	// repeated entries are folded
	l.log("test", "this is a test")
	l.write(tw)
	test.ExpectSuccess(t, tw.Compare("test: this is a test (repeat x2)\n"))
	tw.Clear()

	l.log("test2", "this is another test")
	l.tail(tw, 1)
	test.ExpectSuccess(t, tw.Compare("test2: this is another test\n"))
	tw.Clear()

	// asking for too many entries in a tail should be okay
	l.tail(tw, 100)
	test.ExpectSuccess(t, tw.Compare("test: this is a test (repeat x2)\ntest2: this is another test\n"))
	tw.Clear()

	l.tail(tw, 0)
	test.ExpectSuccess(t, tw.Compare(""))

	// maximum length is maintained
	l.log("a", "1")
	l.log("b", "2")
	l.write(tw)
	test.ExpectSuccess(t, tw.Compare("test2: this is another test\na: 1\nb: 2\n"))
	tw.Clear()

	l.clear()
	l.write(tw)
	test.ExpectSuccess(t, tw.Compare(""))
}

func TestEcho(t *testing.T) {
	l := newLogger(10)
	tw := &test.CompareWriter{}
	l.setEcho(tw)
	l.logf("engine", "fault: %d", 10)
	test.ExpectSuccess(t, tw.Compare("engine: fault: 10\r\n"))

	l.setEcho(nil)
	l.log("engine", "quiet")
	test.ExpectSuccess(t, tw.Compare("engine: fault: 10\r\n"))
}

func TestConcurrentLogging(t *testing.T) {
	l := newLogger(maxCentral)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.log(fmt.Sprintf("tag%d", i), fmt.Sprintf("%d", j))
			}
		}(i)
	}
	wg.Wait()
	test.ExpectEquality(t, len(l.entries), maxCentral)
}
