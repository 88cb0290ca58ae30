// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"encoding/binary"
	"fmt"
)

// cursor is a bounds-checked reader over a DNS message buffer.
//
// The cursor always retains the whole backing buffer: name decoding must
// be able to follow compression pointers to earlier offsets even while
// the cursor itself is clamped to a record's RDATA window. Reads advance
// off and fail with [ErrTruncated] instead of running past end.
type cursor struct {
	buf []byte
	off int
	end int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf, off: 0, end: len(buf)}
}

// sub returns a cursor over the same backing buffer clamped to
// [c.off, c.off+length). The window never extends past the parent's
// own end, so nested windows stay properly contained. The parent
// cursor is not advanced.
func (c *cursor) sub(length int) *cursor {
	start := min(c.off, c.end)
	end := min(start+length, c.end)
	return &cursor{buf: c.buf, off: start, end: end}
}

// remaining returns the number of bytes left in the cursor's window.
func (c *cursor) remaining() int {
	return c.end - c.off
}

func (c *cursor) readUint8() (uint8, error) {
	if c.remaining() < 1 {
		return 0, fmt.Errorf("%w: need 1 byte at offset %d", ErrTruncated, c.off)
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

func (c *cursor) readUint16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, fmt.Errorf("%w: need 2 bytes at offset %d", ErrTruncated, c.off)
	}
	v := binary.BigEndian.Uint16(c.buf[c.off : c.off+2])
	c.off += 2
	return v, nil
}

func (c *cursor) readUint32() (uint32, error) {
	if c.remaining() < 4 {
		return 0, fmt.Errorf("%w: need 4 bytes at offset %d", ErrTruncated, c.off)
	}
	v := binary.BigEndian.Uint32(c.buf[c.off : c.off+4])
	c.off += 4
	return v, nil
}

// readBytes returns a copy of the next n bytes.
func (c *cursor) readBytes(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d", ErrTruncated, n, c.off)
	}
	out := make([]byte, n)
	copy(out, c.buf[c.off:c.off+n])
	c.off += n
	return out, nil
}

// skip advances the cursor by n bytes.
func (c *cursor) skip(n int) error {
	if n < 0 || c.remaining() < n {
		return fmt.Errorf("%w: cannot skip %d bytes at offset %d", ErrTruncated, n, c.off)
	}
	c.off += n
	return nil
}

// readType reads and validates an RR [Type].
func (c *cursor) readType() (Type, error) {
	v, err := c.readUint16()
	if err != nil {
		return 0, err
	}
	return parseType(v)
}

// readClass reads and validates an RR [Class].
func (c *cursor) readClass() (Class, error) {
	v, err := c.readUint16()
	if err != nil {
		return 0, err
	}
	return parseClass(v)
}
