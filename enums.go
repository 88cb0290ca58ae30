// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import "fmt"

// Type is a resource record type, for example A, CNAME or SOA.
//
// The set of types is closed: decoding a type code outside this set is
// a parse error, never a silent substitution.
type Type uint16

// Recognized RR types per RFC 1035, RFC 2782, RFC 3596 and RFC 6891.
const (
	TypeReserved Type = 0
	TypeA        Type = 1
	TypeNS       Type = 2
	TypeCNAME    Type = 5
	TypeSOA      Type = 6
	TypePTR      Type = 12
	TypeMX       Type = 15
	TypeTXT      Type = 16
	TypeAAAA     Type = 28
	TypeSRV      Type = 33

	// TypeOPT is the EDNS(0) pseudo-record type (RFC 6891). Only valid
	// in the additional section, where it is handled by [Extension].
	TypeOPT Type = 41

	// TypeANY matches any record type. Only valid as a question type.
	TypeANY Type = 255
)

// parseType maps a raw integer to a [Type] or fails with the raw value.
func parseType(v uint16) (Type, error) {
	switch t := Type(v); t {
	case TypeReserved, TypeA, TypeNS, TypeCNAME, TypeSOA, TypePTR,
		TypeMX, TypeTXT, TypeAAAA, TypeSRV, TypeOPT, TypeANY:
		return t, nil
	default:
		return 0, fmt.Errorf("%w: invalid Type(%d)", ErrInvalidValue, v)
	}
}

// String returns the standard mnemonic for the type.
func (t Type) String() string {
	switch t {
	case TypeReserved:
		return "Reserved"
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeCNAME:
		return "CNAME"
	case TypeSOA:
		return "SOA"
	case TypePTR:
		return "PTR"
	case TypeMX:
		return "MX"
	case TypeTXT:
		return "TXT"
	case TypeAAAA:
		return "AAAA"
	case TypeSRV:
		return "SRV"
	case TypeOPT:
		return "OPT"
	case TypeANY:
		return "ANY"
	default:
		return fmt.Sprintf("Type(%d)", uint16(t))
	}
}

// Class is a resource record class, for example Internet.
type Class uint16

// Recognized RR classes per RFC 1035 and RFC 2136.
const (
	ClassReserved Class = 0
	ClassInternet Class = 1
	ClassCSNet    Class = 2
	ClassChaos    Class = 3
	ClassHesiod   Class = 4
	ClassNone     Class = 254
	ClassAny      Class = 255
)

// parseClass maps a raw integer to a [Class] or fails with the raw value.
func parseClass(v uint16) (Class, error) {
	switch c := Class(v); c {
	case ClassReserved, ClassInternet, ClassCSNet, ClassChaos,
		ClassHesiod, ClassNone, ClassAny:
		return c, nil
	default:
		return 0, fmt.Errorf("%w: invalid Class(%d)", ErrInvalidValue, v)
	}
}

// String returns the dig-style mnemonic for the class.
func (c Class) String() string {
	switch c {
	case ClassReserved:
		return "Reserved"
	case ClassInternet:
		return "IN"
	case ClassCSNet:
		return "CS"
	case ClassChaos:
		return "CH"
	case ClassHesiod:
		return "HS"
	case ClassNone:
		return "NONE"
	case ClassAny:
		return "*"
	default:
		return fmt.Sprintf("Class(%d)", uint16(c))
	}
}

// Opcode is the kind of query carried by a message (RFC 1035, RFC 6895).
type Opcode uint8

// Recognized opcodes. Values 3 and 7-15 are unassigned.
const (
	OpcodeQuery  Opcode = 0
	OpcodeIQuery Opcode = 1
	OpcodeStatus Opcode = 2
	OpcodeNotify Opcode = 4
	OpcodeUpdate Opcode = 5
	OpcodeDSO    Opcode = 6
)

// parseOpcode maps a raw integer to an [Opcode] or fails with the raw value.
func parseOpcode(v uint8) (Opcode, error) {
	switch o := Opcode(v); o {
	case OpcodeQuery, OpcodeIQuery, OpcodeStatus, OpcodeNotify,
		OpcodeUpdate, OpcodeDSO:
		return o, nil
	default:
		return 0, fmt.Errorf("%w: invalid Opcode(%d)", ErrInvalidValue, v)
	}
}

// String returns the dig-style name of the opcode.
func (o Opcode) String() string {
	switch o {
	case OpcodeQuery:
		return "QUERY"
	case OpcodeIQuery:
		return "IQUERY"
	case OpcodeStatus:
		return "STATUS"
	case OpcodeNotify:
		return "NOTIFY"
	case OpcodeUpdate:
		return "UPDATE"
	case OpcodeDSO:
		return "DSO"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(o))
	}
}

// Rcode is a response code. On the wire the header carries the low four
// bits; an EDNS(0) [Extension] can extend it to twelve bits, which
// [*Message.ExtendedRcode] reassembles.
type Rcode uint16

// Recognized response codes per RFC 1035, RFC 2136 and RFC 8490.
const (
	RcodeNoError   Rcode = 0
	RcodeFormErr   Rcode = 1
	RcodeServFail  Rcode = 2
	RcodeNXDomain  Rcode = 3
	RcodeNotImp    Rcode = 4
	RcodeRefused   Rcode = 5
	RcodeYXDomain  Rcode = 6
	RcodeYXRRSet   Rcode = 7
	RcodeNXRRSet   Rcode = 8
	RcodeNotAuth   Rcode = 9
	RcodeNotZone   Rcode = 10
	RcodeDSOTYPENI Rcode = 11
)

// parseRcode maps a raw integer to an [Rcode] or fails with the raw value.
func parseRcode(v uint8) (Rcode, error) {
	switch r := Rcode(v); r {
	case RcodeNoError, RcodeFormErr, RcodeServFail, RcodeNXDomain,
		RcodeNotImp, RcodeRefused, RcodeYXDomain, RcodeYXRRSet,
		RcodeNXRRSet, RcodeNotAuth, RcodeNotZone, RcodeDSOTYPENI:
		return r, nil
	default:
		return 0, fmt.Errorf("%w: invalid Rcode(%d)", ErrInvalidValue, v)
	}
}

// String returns the dig-style name of the response code.
func (r Rcode) String() string {
	switch r {
	case RcodeNoError:
		return "NOERROR"
	case RcodeFormErr:
		return "FORMERR"
	case RcodeServFail:
		return "SERVFAIL"
	case RcodeNXDomain:
		return "NXDOMAIN"
	case RcodeNotImp:
		return "NOTIMP"
	case RcodeRefused:
		return "REFUSED"
	case RcodeYXDomain:
		return "YXDOMAIN"
	case RcodeYXRRSet:
		return "YXRRSET"
	case RcodeNXRRSet:
		return "NXRRSET"
	case RcodeNotAuth:
		return "NOTAUTH"
	case RcodeNotZone:
		return "NOTZONE"
	case RcodeDSOTYPENI:
		return "DSOTYPENI"
	default:
		return fmt.Sprintf("Rcode(%d)", uint16(r))
	}
}
