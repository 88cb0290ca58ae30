// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"encoding/binary"
	"fmt"
)

// EDNS(0) payload sizes commonly advertised by clients. The UDP value
// is consistent with what the Go standard library resolver uses.
const (
	MaxResponseSizeUDP = 1232
	MaxResponseSizeTCP = 4096
)

// Extension is the EDNS(0) OPT pseudo-record (RFC 6891).
//
// On the wire the OPT record overloads the resource-record layout: the
// name must be the root, the class field carries the requestor's
// maximum payload size, and the TTL field packs the extended RCODE,
// the version, and the DO flag. At most one Extension may appear in a
// message, always in the additional section.
//
// Construct directly, or use [NewExtension] for sensible defaults.
type Extension struct {
	// PayloadSize is the requestor's maximum UDP payload size.
	PayloadSize uint16

	// ExtendedRcode holds the upper eight bits of the extended RCODE.
	ExtendedRcode uint8

	// Version is the EDNS version, which must be zero today.
	Version uint8

	// DNSSECOK is the DO bit defined by RFC 3225.
	DNSSECOK bool
}

// NewExtension constructs an [*Extension] advertising the given payload
// size, which is clamped to at least 512 bytes per RFC 6891.
func NewExtension(payloadSize uint16) *Extension {
	return &Extension{PayloadSize: max(payloadSize, 512)}
}

// parseExtension decodes the OPT pseudo-record body. The caller has
// already consumed the owner name and the TYPE=41 field; domain is the
// decoded owner name, which must be the root.
func parseExtension(c *cursor, domain string) (*Extension, error) {
	if domain != "." {
		return nil, fmt.Errorf("%w: expected root domain for EDNS(0) extension, got %q",
			ErrMalformed, domain)
	}

	payloadSize, err := c.readUint16()
	if err != nil {
		return nil, err
	}
	extRcode, err := c.readUint8()
	if err != nil {
		return nil, err
	}
	version, err := c.readUint8()
	if err != nil {
		return nil, err
	}
	flags, err := c.readUint8()
	if err != nil {
		return nil, err
	}
	if _, err := c.readUint8(); err != nil { // reserved low flags byte
		return nil, err
	}

	// EDNS options inside RDATA are not modeled; skip them, bounded.
	rdlen, err := c.readUint16()
	if err != nil {
		return nil, err
	}
	if err := c.skip(int(rdlen)); err != nil {
		return nil, err
	}

	return &Extension{
		PayloadSize:   payloadSize,
		ExtendedRcode: extRcode,
		Version:       version,
		DNSSECOK:      flags&0x80 != 0,
	}, nil
}

// append writes the OPT pseudo-record, with an empty RDATA, to out.
func (e *Extension) append(out []byte) []byte {
	out = append(out, 0) // root owner name
	out = binary.BigEndian.AppendUint16(out, uint16(TypeOPT))
	out = binary.BigEndian.AppendUint16(out, e.PayloadSize)
	out = append(out, e.ExtendedRcode, e.Version)
	var flags uint8
	if e.DNSSECOK {
		flags |= 0x80
	}
	out = append(out, flags, 0)
	out = binary.BigEndian.AppendUint16(out, 0) // RDLENGTH
	return out
}
