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

// Package serial implements the board's serial port. The port has a receive
// FIFO, filled by the host side with Send() or SendAsync() and emptied by the
// CPU with Receive(), and a transmit buffer filled by the CPU with Transmit()
// and emptied on the host side with Drain().
//
// Send() blocks while the receive FIFO is full. SendContext() is the same but
// also gives up when the context is done. SendAsync() never blocks. Bytes that
// do not fit in the FIFO are held in a backlog and moved to the FIFO, in
// order, by a single goroutine.
//
// All functions are safe to call from any goroutine. The receive FIFO is
// shared between all senders. Bytes from one goroutine arrive in the order
// they were sent. No ordering is imposed between bytes arriving from
// different goroutines.
package serial

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/gopherboard/curated"
)

// Sentinal errors.
const (
	PortClosed = "serial: port %s is closed"
)

// default sizes of the receive FIFO and the transmit buffer.
const (
	DefaultFIFODepth = 16
	transmitDepth    = 4096
)

// Port represents a single serial port.
type Port struct {
	name string

	rx chan byte
	tx chan byte

	closed    chan struct{}
	closeOnce sync.Once

	// bytes from SendAsync() waiting for room in the FIFO. the backlog is
	// drained by a single goroutine which is running while flushing is true
	crit     sync.Mutex
	backlog  []byte
	flushing bool

	// number of bytes transmitted by the CPU that were lost because the
	// transmit buffer was full
	overrun atomic.Uint64
}

// NewPort is the preferred method of initialisation for the Port type. A
// depth of zero or less will use DefaultFIFODepth.
func NewPort(name string, depth int) *Port {
	if depth <= 0 {
		depth = DefaultFIFODepth
	}
	return &Port{
		name:   name,
		rx:     make(chan byte, depth),
		tx:     make(chan byte, transmitDepth),
		closed: make(chan struct{}),
	}
}

func (p *Port) String() string {
	return p.name
}

// Send a byte to the receive FIFO. Blocks until there is room in the FIFO or
// until the port is closed.
func (p *Port) Send(b byte) error {
	return p.SendContext(context.Background(), b)
}

// SendContext sends a byte to the receive FIFO. Blocks until there is room in
// the FIFO, the port is closed or the context is done. The context error is
// returned in the last case.
func (p *Port) SendContext(ctx context.Context, b byte) error {
	select {
	case <-p.closed:
		return curated.Errorf(PortClosed, p.name)
	default:
	}

	select {
	case p.rx <- b:
		return nil
	case <-p.closed:
		return curated.Errorf(PortClosed, p.name)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendAsync sends a byte to the receive FIFO without blocking. If the FIFO is
// full, or earlier bytes are still waiting, then the byte is added to the
// backlog and delivered later.
//
// Bytes sent to a closed port are discarded.
func (p *Port) SendAsync(b byte) {
	p.crit.Lock()
	defer p.crit.Unlock()

	if len(p.backlog) == 0 {
		select {
		case p.rx <- b:
			return
		case <-p.closed:
			return
		default:
		}
	}

	p.backlog = append(p.backlog, b)
	if !p.flushing {
		p.flushing = true
		go p.flush()
	}
}

// flush moves the backlog to the FIFO. the byte at the head of the backlog is
// only removed once it is in the FIFO so that SendAsync() cannot overtake it
func (p *Port) flush() {
	for {
		p.crit.Lock()
		if len(p.backlog) == 0 {
			p.flushing = false
			p.crit.Unlock()
			return
		}
		b := p.backlog[0]
		p.crit.Unlock()

		select {
		case p.rx <- b:
		case <-p.closed:
			p.crit.Lock()
			p.backlog = nil
			p.flushing = false
			p.crit.Unlock()
			return
		}

		p.crit.Lock()
		p.backlog = p.backlog[1:]
		p.crit.Unlock()
	}
}

// Backlog returns the number of bytes from SendAsync() waiting for room in
// the receive FIFO.
func (p *Port) Backlog() int {
	p.crit.Lock()
	defer p.crit.Unlock()
	return len(p.backlog)
}

// Receive is called by the CPU to take the next byte from the FIFO. Returns
// false if the FIFO is empty.
func (p *Port) Receive() (byte, bool) {
	select {
	case b := <-p.rx:
		return b, true
	default:
		return 0, false
	}
}

// Pending returns the number of bytes waiting in the receive FIFO.
func (p *Port) Pending() int {
	return len(p.rx)
}

// Transmit is called by the CPU to send a byte to the host. It never blocks. If
// the transmit buffer is full the byte is lost and the overrun count is
// increased.
func (p *Port) Transmit(b byte) {
	select {
	case p.tx <- b:
	default:
		p.overrun.Add(1)
	}
}

// Overrun returns the number of transmitted bytes that have been lost.
func (p *Port) Overrun() uint64 {
	return p.overrun.Load()
}

// Drain copies transmitted bytes to the io.Writer until the context is
// cancelled, the port is closed or the writer returns an error. Only one
// goroutine should drain a port.
func (p *Port) Drain(ctx context.Context, w io.Writer) error {
	buf := make([]byte, 0, 256)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.closed:
			return nil
		case b := <-p.tx:
			// collect everything else that is immediately available
			buf = append(buf[:0], b)
		collect:
			for len(buf) < cap(buf) {
				select {
				case b := <-p.tx:
					buf = append(buf, b)
				default:
					break collect
				}
			}
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
}

// Close the port. Blocked senders are released with the PortClosed error.
func (p *Port) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
	})
}
