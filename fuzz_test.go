// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"encoding/hex"
	"testing"
)

// FuzzParseMessage checks that the decoder never panics, whatever the
// input, and that anything it accepts can be re-encoded.
func FuzzParseMessage(f *testing.F) {
	query, err := hex.DecodeString(queryHex)
	if err != nil {
		f.Fatal(err)
	}
	f.Add(query)
	f.Add([]byte{})
	f.Add(make([]byte, headerSize))

	// Truncated header.
	f.Add(query[:7])

	// Self-referential compression pointer in the question name.
	f.Add([]byte{
		0x12, 0x34, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xc0, 0x0c, // points at itself
		0x00, 0x01, 0x00, 0x01,
	})

	// A record whose RDLENGTH overruns the buffer.
	f.Add([]byte{
		0x12, 0x34, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x01, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x3c,
		0x00, 0x10, 127, 0, 0, 1,
	})

	// Two OPT pseudo-records in the additional section.
	duplicate := []byte{
		0x12, 0x34, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02,
	}
	opt := []byte{0x00, 0x00, 0x29, 0x04, 0xd0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	duplicate = append(duplicate, opt...)
	duplicate = append(duplicate, opt...)
	f.Add(duplicate)

	// An answer with the obsolete MD type.
	f.Add([]byte{
		0x12, 0x34, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x03, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	})

	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := ParseMessage(data)
		if err != nil {
			return
		}
		// Whatever decodes must also encode. The output need not equal
		// the input because the writer never emits compression pointers.
		if _, err := m.Marshal(); err != nil {
			t.Fatalf("cannot re-encode accepted message: %s", err)
		}
	})
}
