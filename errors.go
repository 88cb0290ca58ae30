// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import "errors"

// Errors returned by [ParseMessage] and [*Message.Marshal]. Every failure
// wraps exactly one of these sentinels, so callers can classify a failure
// with [errors.Is] while the error string carries the offending detail.
var (
	// ErrTruncated means a read ran past the end of the message buffer
	// or past the end of a record's RDATA window.
	ErrTruncated = errors.New("truncated DNS message")

	// ErrInvalidValue means an enumerated field (Type, Class, Opcode,
	// Rcode) carried an integer outside the recognized set.
	ErrInvalidValue = errors.New("invalid DNS value")

	// ErrInvalidPointer means a compression pointer referenced its own
	// position or a later one, or used a reserved label encoding.
	ErrInvalidPointer = errors.New("invalid compressed pointer")

	// ErrMalformed means the message structure is inconsistent: RDLENGTH
	// disagreeing with the bytes actually consumed, bytes left over after
	// the last section, a duplicated OPT record, or an OPT record whose
	// name is not the root.
	ErrMalformed = errors.New("malformed DNS message")

	// ErrInvalidName means a domain name could not be decoded or encoded:
	// a non-ASCII byte on the wire, an IDNA conversion failure, an empty
	// label, or a label or name exceeding the RFC 1035 length limits.
	ErrInvalidName = errors.New("invalid domain name")

	// ErrInvalidMessage means the caller asked to encode a [*Message]
	// that cannot be represented on the wire, for example a record
	// section entry carrying an OPT or ANY resource, or a section whose
	// length does not fit the 16-bit wire count.
	ErrInvalidMessage = errors.New("invalid DNS message")
)
