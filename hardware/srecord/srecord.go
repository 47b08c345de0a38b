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

// Package srecord loads Motorola S-record text into a memory. Only the
// record types needed to preload a ROM image are acted upon: S1, S2 and S3
// data records and S7, S8 and S9 start address records. Header and count
// records are checked but otherwise ignored.
package srecord

import (
	"bufio"
	"encoding/hex"
	"io"
	"strings"

	"github.com/jetsetilly/gopherboard/curated"
)

// Sentinal errors.
const (
	MalformedRecord = "srecord: line %d: %v"
	BadChecksum     = "srecord: line %d: checksum (%02x, wanted %02x)"
)

// Memory is the destination of data records.
type Memory interface {
	Write(address uint32, data uint8) error
}

// Result summarises a successful load.
type Result struct {
	// number of data bytes written to memory
	Bytes int

	// start address given by a termination record. only valid if HasStart is
	// true
	Start    uint32
	HasStart bool
}

// Load records from io.Reader into Memory. Blank lines are ignored.
func Load(r io.Reader, mem Memory) (Result, error) {
	var res Result

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		s := strings.TrimSpace(scanner.Text())
		if len(s) == 0 {
			continue
		}

		if len(s) < 4 || s[0] != 'S' && s[0] != 's' {
			return res, curated.Errorf(MalformedRecord, line, "not an s-record")
		}

		data, err := hex.DecodeString(s[2:])
		if err != nil {
			return res, curated.Errorf(MalformedRecord, line, err)
		}

		// first byte is the count of remaining bytes, including the checksum
		if len(data) < 2 || int(data[0]) != len(data)-1 {
			return res, curated.Errorf(MalformedRecord, line, "byte count does not match record length")
		}

		var sum uint8
		for _, b := range data[:len(data)-1] {
			sum += b
		}
		sum = ^sum
		if sum != data[len(data)-1] {
			return res, curated.Errorf(BadChecksum, line, data[len(data)-1], sum)
		}

		// address and payload without the count and checksum
		body := data[1 : len(data)-1]

		var addrLen int
		switch s[1] {
		case '0', '1', '5', '9':
			addrLen = 2
		case '2', '6', '8':
			addrLen = 3
		case '3', '7':
			addrLen = 4
		default:
			return res, curated.Errorf(MalformedRecord, line, "unsupported record type")
		}

		if len(body) < addrLen {
			return res, curated.Errorf(MalformedRecord, line, "record too short for address")
		}

		var address uint32
		for _, b := range body[:addrLen] {
			address = address<<8 | uint32(b)
		}

		switch s[1] {
		case '1', '2', '3':
			for i, b := range body[addrLen:] {
				if err := mem.Write(address+uint32(i), b); err != nil {
					return res, curated.Errorf(MalformedRecord, line, err)
				}
				res.Bytes++
			}
		case '7', '8', '9':
			res.Start = address
			res.HasStart = true
		}
	}

	if err := scanner.Err(); err != nil {
		return res, curated.Errorf(MalformedRecord, line, err)
	}

	return res, nil
}
