// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorReads(t *testing.T) {
	c := newCursor([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	v8, err := c.readUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x01), v8)

	v16, err := c.readUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0203), v16)

	v32, err := c.readUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x04050607), v32)

	require.Equal(t, 0, c.remaining())

	_, err = c.readUint8()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestCursorReadsAcrossEnd(t *testing.T) {
	c := newCursor([]byte{0x01})

	_, err := c.readUint16()
	require.ErrorIs(t, err, ErrTruncated)

	_, err = c.readUint32()
	require.ErrorIs(t, err, ErrTruncated)

	_, err = c.readBytes(2)
	require.ErrorIs(t, err, ErrTruncated)

	require.ErrorIs(t, c.skip(2), ErrTruncated)
}

func TestCursorSubWindow(t *testing.T) {
	c := newCursor([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	_, err := c.readUint8()
	require.NoError(t, err)

	// The window covers [1, 3) and cannot read past its end even
	// though the backing buffer continues.
	w := c.sub(2)
	require.Equal(t, 2, w.remaining())

	v, err := w.readUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0xBBCC), v)

	_, err = w.readUint8()
	require.ErrorIs(t, err, ErrTruncated)

	// The parent cursor did not move.
	require.Equal(t, 3, c.remaining())
}

func TestCursorSubWindowClampedToBuffer(t *testing.T) {
	c := newCursor([]byte{0xAA, 0xBB})
	w := c.sub(16)
	require.Equal(t, 2, w.remaining())
}

func TestCursorNestedSubWindowClampedToParent(t *testing.T) {
	// A window taken from a window must not reach past its parent's
	// bound, even when the backing buffer continues.
	c := newCursor([]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	w := c.sub(2)
	inner := w.sub(16)
	require.Equal(t, 2, inner.remaining())

	_, err := inner.readUint32()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestCursorReadBytesNegative(t *testing.T) {
	c := newCursor([]byte{0xAA})
	_, err := c.readBytes(-1)
	require.ErrorIs(t, err, ErrTruncated)
}
