// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"time"
)

// Resource is the type-specific payload of a [Record].
//
// The union is closed: exactly one concrete type exists per supported
// RR type, and decoding an RR type outside the set fails rather than
// producing a catch-all variant. OPT never appears here because the
// EDNS(0) pseudo-record is modeled separately as [Extension].
type Resource interface {
	// Type returns the RR type tag of this resource.
	Type() Type

	// String renders the resource in dig style.
	String() string

	// appendRData appends the wire-format RDATA and seals the union.
	appendRData(out []byte) ([]byte, error)
}

// A is an IPv4 address record (RFC 1035 section 3.4.1).
type A struct {
	Addr netip.Addr
}

// Type implements [Resource].
func (A) Type() Type { return TypeA }

// String implements [Resource].
func (r A) String() string { return r.Addr.String() }

func (r A) appendRData(out []byte) ([]byte, error) {
	if !r.Addr.Is4() {
		return nil, fmt.Errorf("%w: A resource requires an IPv4 address, got %s",
			ErrInvalidMessage, r.Addr)
	}
	v4 := r.Addr.As4()
	return append(out, v4[:]...), nil
}

// AAAA is an IPv6 address record (RFC 3596).
type AAAA struct {
	Addr netip.Addr
}

// Type implements [Resource].
func (AAAA) Type() Type { return TypeAAAA }

// String implements [Resource].
func (r AAAA) String() string { return r.Addr.String() }

func (r AAAA) appendRData(out []byte) ([]byte, error) {
	if !r.Addr.Is6() || r.Addr.Is4In6() {
		return nil, fmt.Errorf("%w: AAAA resource requires an IPv6 address, got %s",
			ErrInvalidMessage, r.Addr)
	}
	v6 := r.Addr.As16()
	return append(out, v6[:]...), nil
}

// NS names an authoritative name server (RFC 1035 section 3.3.11).
type NS struct {
	Name string
}

// Type implements [Resource].
func (NS) Type() Type { return TypeNS }

// String implements [Resource].
func (r NS) String() string { return r.Name }

func (r NS) appendRData(out []byte) ([]byte, error) {
	return writeName(out, r.Name)
}

// CNAME is the canonical name for an alias (RFC 1035 section 3.3.1).
type CNAME struct {
	Name string
}

// Type implements [Resource].
func (CNAME) Type() Type { return TypeCNAME }

// String implements [Resource].
func (r CNAME) String() string { return r.Name }

func (r CNAME) appendRData(out []byte) ([]byte, error) {
	return writeName(out, r.Name)
}

// PTR is a domain name pointer, used for reverse lookups (RFC 1035
// section 3.3.12).
type PTR struct {
	Name string
}

// Type implements [Resource].
func (PTR) Type() Type { return TypePTR }

// String implements [Resource].
func (r PTR) String() string { return r.Name }

func (r PTR) appendRData(out []byte) ([]byte, error) {
	return writeName(out, r.Name)
}

// MX names a mail exchange (RFC 1035 section 3.3.9).
type MX struct {
	// Preference among MX records at the same owner; lower is preferred.
	Preference uint16

	// Exchange is a host willing to act as mail exchange.
	Exchange string
}

// Type implements [Resource].
func (MX) Type() Type { return TypeMX }

// String implements [Resource].
func (r MX) String() string {
	// "10 aspmx.l.google.com."
	return fmt.Sprintf("%d %s", r.Preference, r.Exchange)
}

func (r MX) appendRData(out []byte) ([]byte, error) {
	out = binary.BigEndian.AppendUint16(out, r.Preference)
	return writeName(out, r.Exchange)
}

// SOA marks the start of a zone of authority (RFC 1035 section 3.3.13).
type SOA struct {
	// MName is the primary source name server for the zone.
	MName string

	// RName is the mailbox of the person responsible for the zone,
	// stored in "mailbox@domain" form. See [RnameToEmail].
	RName string

	// Serial is the version number of the zone.
	Serial uint32

	// Zone maintenance timers, with second granularity on the wire.
	Refresh time.Duration
	Retry   time.Duration
	Expire  time.Duration
	Minimum time.Duration
}

// Type implements [Resource].
func (SOA) Type() Type { return TypeSOA }

// String implements [Resource].
func (r SOA) String() string {
	// "ns1.google.com. dns-admin@google.com. 376337657 900 900 1800 60"
	return fmt.Sprintf("%s %s %d %d %d %d %d",
		r.MName, r.RName, r.Serial,
		int64(r.Refresh/time.Second), int64(r.Retry/time.Second),
		int64(r.Expire/time.Second), int64(r.Minimum/time.Second))
}

func (r SOA) appendRData(out []byte) ([]byte, error) {
	out, err := writeName(out, r.MName)
	if err != nil {
		return nil, err
	}
	out, err = writeName(out, EmailToRname(r.RName))
	if err != nil {
		return nil, err
	}
	out = binary.BigEndian.AppendUint32(out, r.Serial)
	for _, d := range []time.Duration{r.Refresh, r.Retry, r.Expire, r.Minimum} {
		secs, err := durationToSeconds(d)
		if err != nil {
			return nil, err
		}
		out = binary.BigEndian.AppendUint32(out, secs)
	}
	return out, nil
}

// SRV locates a service (RFC 2782).
type SRV struct {
	Priority uint16
	Weight   uint16
	Port     uint16

	// Name is the target host providing the service.
	Name string
}

// Type implements [Resource].
func (SRV) Type() Type { return TypeSRV }

// String implements [Resource].
func (r SRV) String() string {
	// "5 0 389 ldap.google.com."
	return fmt.Sprintf("%d %d %d %s", r.Priority, r.Weight, r.Port, r.Name)
}

func (r SRV) appendRData(out []byte) ([]byte, error) {
	out = binary.BigEndian.AppendUint16(out, r.Priority)
	out = binary.BigEndian.AppendUint16(out, r.Weight)
	out = binary.BigEndian.AppendUint16(out, r.Port)
	return writeName(out, r.Name)
}

// TXT is an ordered list of opaque byte strings (RFC 1035 section
// 3.3.14). The chunks are not necessarily UTF-8.
type TXT [][]byte

// Type implements [Resource].
func (TXT) Type() Type { return TypeTXT }

// String implements [Resource].
func (r TXT) String() string {
	quoted := make([]string, 0, len(r))
	for _, chunk := range r {
		quoted = append(quoted, strconv.Quote(string(chunk)))
	}
	return strings.Join(quoted, " ")
}

func (r TXT) appendRData(out []byte) ([]byte, error) {
	for _, chunk := range r {
		if len(chunk) > 255 {
			return nil, fmt.Errorf("%w: TXT string of %d bytes exceeds 255",
				ErrInvalidMessage, len(chunk))
		}
		out = append(out, byte(len(chunk)))
		out = append(out, chunk...)
	}
	return out, nil
}

// parseResource decodes the RDATA for the given RR type from a cursor
// already clamped to the record's RDLENGTH window. The caller verifies
// afterwards that the window was consumed exactly.
func parseResource(c *cursor, rtype Type, class Class) (Resource, error) {
	switch rtype {
	case TypeA:
		if class != ClassInternet {
			return nil, fmt.Errorf("%w: unsupported A record class %q", ErrInvalidValue, class)
		}
		raw, err := c.readBytes(4)
		if err != nil {
			return nil, err
		}
		return A{Addr: netip.AddrFrom4([4]byte(raw))}, nil

	case TypeAAAA:
		if class != ClassInternet {
			return nil, fmt.Errorf("%w: unsupported AAAA record class %q", ErrInvalidValue, class)
		}
		raw, err := c.readBytes(16)
		if err != nil {
			return nil, err
		}
		return AAAA{Addr: netip.AddrFrom16([16]byte(raw))}, nil

	case TypeNS:
		name, err := c.readName()
		if err != nil {
			return nil, err
		}
		return NS{Name: name}, nil

	case TypeCNAME:
		name, err := c.readName()
		if err != nil {
			return nil, err
		}
		return CNAME{Name: name}, nil

	case TypePTR:
		name, err := c.readName()
		if err != nil {
			return nil, err
		}
		return PTR{Name: name}, nil

	case TypeMX:
		pref, err := c.readUint16()
		if err != nil {
			return nil, err
		}
		exchange, err := c.readName()
		if err != nil {
			return nil, err
		}
		return MX{Preference: pref, Exchange: exchange}, nil

	case TypeSOA:
		return parseSOA(c)

	case TypeSRV:
		var fields [3]uint16
		for i := range fields {
			v, err := c.readUint16()
			if err != nil {
				return nil, err
			}
			fields[i] = v
		}
		name, err := c.readName()
		if err != nil {
			return nil, err
		}
		return SRV{Priority: fields[0], Weight: fields[1], Port: fields[2], Name: name}, nil

	case TypeTXT:
		return parseTXT(c)

	default:
		// Reserved and ANY are question-only; OPT is intercepted by the
		// extension codec before generic dispatch.
		return nil, fmt.Errorf("%w: type %q is not valid in a record section",
			ErrInvalidValue, rtype)
	}
}

func parseSOA(c *cursor) (Resource, error) {
	mname, err := c.readName()
	if err != nil {
		return nil, err
	}
	rname, err := c.readName()
	if err != nil {
		return nil, err
	}
	var fields [5]uint32
	for i := range fields {
		v, err := c.readUint32()
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return SOA{
		MName:   mname,
		RName:   RnameToEmail(rname),
		Serial:  fields[0],
		Refresh: time.Duration(fields[1]) * time.Second,
		Retry:   time.Duration(fields[2]) * time.Second,
		Expire:  time.Duration(fields[3]) * time.Second,
		Minimum: time.Duration(fields[4]) * time.Second,
	}, nil
}

// parseTXT reads (length, bytes) pairs until the RDATA window is
// exhausted. A zero-length RDATA yields an empty TXT.
func parseTXT(c *cursor) (Resource, error) {
	var txt TXT
	for c.remaining() > 0 {
		length, err := c.readUint8()
		if err != nil {
			return nil, err
		}
		chunk, err := c.readBytes(int(length))
		if err != nil {
			return nil, err
		}
		txt = append(txt, chunk)
	}
	return txt, nil
}

// RnameToEmail converts a SOA RNAME domain to "mailbox@domain" form:
// the first unescaped dot separates the mailbox from the domain, and
// escaped dots inside the mailbox become literal dots. For example
// "Action\.domains.ISI.EDU" becomes "Action.domains@ISI.EDU".
//
// [EmailToRname] is the exact inverse.
func RnameToEmail(rname string) string {
	var local strings.Builder
	for i := 0; i < len(rname); i++ {
		switch rname[i] {
		case '\\':
			if i+1 < len(rname) {
				i++
				local.WriteByte(rname[i])
			}
		case '.':
			return local.String() + "@" + rname[i+1:]
		default:
			local.WriteByte(rname[i])
		}
	}
	return local.String()
}

// EmailToRname converts a "mailbox@domain" address back to the SOA
// RNAME domain form, escaping literal dots in the mailbox part. A
// string without an "@" is returned unchanged, assumed to already be
// in domain form.
func EmailToRname(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return email
	}
	var sb strings.Builder
	for i := 0; i < at; i++ {
		switch email[i] {
		case '.', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteByte(email[i])
	}
	sb.WriteByte('.')
	sb.WriteString(email[at+1:])
	return sb.String()
}

func durationToSeconds(d time.Duration) (uint32, error) {
	secs := int64(d / time.Second)
	if secs < 0 || secs > int64(^uint32(0)) {
		return 0, fmt.Errorf("%w: duration %s does not fit a 32-bit seconds field",
			ErrInvalidMessage, d)
	}
	return uint32(secs), nil
}
