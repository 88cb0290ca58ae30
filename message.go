// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/idna"
)

// Header flag masks. The first flags byte carries QR, the opcode, AA,
// TC and RD; the second carries RA, Z, AD, CD and the RCODE nibble.
const (
	flagQR     uint8 = 0x80
	opcodeMask uint8 = 0x78
	flagAA     uint8 = 0x04
	flagTC     uint8 = 0x02
	flagRD     uint8 = 0x01

	flagRA    uint8 = 0x80
	flagZ     uint8 = 0x40
	flagAD    uint8 = 0x20
	flagCD    uint8 = 0x10
	rcodeMask uint8 = 0x0F
)

// headerSize is the fixed DNS header size in bytes.
const headerSize = 12

// Question is a single question-section entry (RFC 1035 section 4.1.2).
type Question struct {
	// Name is the fully-qualified domain name in question.
	Name string

	// Type is the question type. The whole [Type] space is valid here,
	// including the pseudo-type [TypeANY].
	Type Type

	// Class is the question class, typically [ClassInternet].
	Class Class
}

// String renders the question in dig style.
func (q Question) String() string {
	return fmt.Sprintf("; %-18s %4s %-6s", q.Name, q.Class, q.Type)
}

// Record is a resource record in the answer, authority or additional
// section (RFC 1035 section 4.1.3).
type Record struct {
	// Name is the fully-qualified owner name.
	Name string

	// Class is the record class.
	Class Class

	// TTL says how long the record may be cached. Zero means the record
	// is only usable for the transaction in progress.
	TTL time.Duration

	// Resource is the type-specific payload. The record's RR type is
	// always the payload's: see [Record.Type].
	Resource Resource
}

// Type returns the RR type tag of the record's resource.
func (r Record) Type() Type {
	if r.Resource == nil {
		return TypeReserved
	}
	return r.Resource.Type()
}

// String renders the record in dig style.
func (r Record) String() string {
	return fmt.Sprintf("%-20s %4d %4s %-6s %s",
		r.Name, int64(r.TTL/time.Second), r.Class, r.Type(), r.Resource)
}

// IDSource returns a fresh transaction ID for a new [*Message].
//
// The codec never reaches for a process-wide RNG itself: the caller
// chooses the source. [github.com/miekg/dns.Id] is a good production
// choice; tests can pass a constant function for determinism.
type IDSource func() uint16

// Message is a complete DNS message (RFC 1035 section 4.1).
//
// A Message is plain owned data: decoding builds a fresh value and
// encoding never mutates its input, so values may be shared across
// goroutines for reading without synchronization.
//
// Construct with [NewMessage], or fill the fields directly.
type Message struct {
	// ID is the 16-bit transaction ID copied into the reply.
	ID uint16

	// Response is the QR bit: false for queries, true for responses.
	Response bool

	// Opcode is the kind of query.
	Opcode Opcode

	// Authoritative is the AA bit.
	Authoritative bool

	// Truncated is the TC bit.
	Truncated bool

	// RecursionDesired is the RD bit.
	RecursionDesired bool

	// RecursionAvailable is the RA bit.
	RecursionAvailable bool

	// Zero is the reserved Z bit, which should be false.
	Zero bool

	// AuthenticData is the AD bit (RFC 4035).
	AuthenticData bool

	// CheckingDisabled is the CD bit (RFC 4035).
	CheckingDisabled bool

	// Rcode is the response code nibble from the header. See
	// [Message.ExtendedRcode] for the EDNS(0)-extended value.
	Rcode Rcode

	// Questions is the question section.
	Questions []Question

	// Answers is the answer section.
	Answers []Record

	// Authority is the authority section.
	Authority []Record

	// Additional is the additional section, excluding the OPT
	// pseudo-record, which lives in Extension.
	Additional []Record

	// Extension is the optional EDNS(0) extension. On the wire it
	// counts as one extra additional-section entry.
	Extension *Extension
}

// NewMessage constructs a [*Message] with the defaults suitable for
// querying: recursion desired, AD set, query opcode. The transaction
// ID comes from newID; a nil source leaves the ID zero.
func NewMessage(newID IDSource) *Message {
	m := &Message{
		RecursionDesired: true,
		AuthenticData:    true,
	}
	if newID != nil {
		m.ID = newID()
	}
	return m
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	clone := *m
	clone.Questions = append([]Question(nil), m.Questions...)
	clone.Answers = append([]Record(nil), m.Answers...)
	clone.Authority = append([]Record(nil), m.Authority...)
	clone.Additional = append([]Record(nil), m.Additional...)
	if m.Extension != nil {
		ext := *m.Extension
		clone.Extension = &ext
	}
	return &clone
}

// AddQuestion appends a question for the given domain.
//
// The domain goes through an IDNA ASCII-and-back round trip so that the
// stored name is canonical and directly comparable with names decoded
// from a response.
func (m *Message) AddQuestion(domain string, qtype Type, class Class) error {
	normalized, err := normalizeDomain(domain)
	if err != nil {
		return err
	}
	m.Questions = append(m.Questions, Question{Name: normalized, Type: qtype, Class: class})
	return nil
}

// SetExtension attaches an EDNS(0) extension, replacing any previous one.
func (m *Message) SetExtension(ext *Extension) {
	m.Extension = ext
}

// ExtendedRcode combines the extension's upper bits with the header
// RCODE nibble per RFC 6891 section 6.1.3. Without an extension it is
// simply the header RCODE.
func (m *Message) ExtendedRcode() Rcode {
	if m.Extension == nil {
		return m.Rcode
	}
	return Rcode(uint16(m.Extension.ExtendedRcode)<<4 | uint16(m.Rcode)&0x0F)
}

func normalizeDomain(domain string) (string, error) {
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %s", ErrInvalidName, domain, err)
	}
	unicode, err := idna.ToUnicode(ascii)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %s", ErrInvalidName, domain, err)
	}
	if !strings.HasSuffix(unicode, ".") {
		unicode += "."
	}
	return unicode, nil
}

// Cap on the slice capacity preallocated from header counts, so a
// forged header cannot force a large allocation before parsing fails.
const maxPreallocEntries = 64

// ParseMessage decodes a wire-format DNS message.
//
// ParseMessage is a pure function over its input and never panics, no
// matter how adversarial the bytes are: any violation of the wire
// format yields an error wrapping one of the sentinels in errors.go.
// The first error aborts the whole decode; there are no partial
// results. Trailing bytes after the last section are an error too.
//
// IDNA policy: a label that fails IDNA-to-Unicode conversion is a hard
// parse error; the raw label text is never substituted.
func ParseMessage(buf []byte) (*Message, error) {
	c := newCursor(buf)
	m := &Message{}

	id, err := c.readUint16()
	if err != nil {
		return nil, err
	}
	m.ID = id

	b1, err := c.readUint8()
	if err != nil {
		return nil, err
	}
	m.Response = b1&flagQR != 0
	m.Authoritative = b1&flagAA != 0
	m.Truncated = b1&flagTC != 0
	m.RecursionDesired = b1&flagRD != 0
	if m.Opcode, err = parseOpcode((b1 & opcodeMask) >> 3); err != nil {
		return nil, err
	}

	b2, err := c.readUint8()
	if err != nil {
		return nil, err
	}
	m.RecursionAvailable = b2&flagRA != 0
	m.Zero = b2&flagZ != 0
	m.AuthenticData = b2&flagAD != 0
	m.CheckingDisabled = b2&flagCD != 0
	if m.Rcode, err = parseRcode(b2 & rcodeMask); err != nil {
		return nil, err
	}

	var counts [4]uint16
	for i := range counts {
		if counts[i], err = c.readUint16(); err != nil {
			return nil, err
		}
	}
	qdCount, anCount, nsCount, arCount := counts[0], counts[1], counts[2], counts[3]

	if qdCount > 0 {
		m.Questions = make([]Question, 0, min(int(qdCount), maxPreallocEntries))
	}
	for range qdCount {
		q, err := parseQuestion(c)
		if err != nil {
			return nil, err
		}
		m.Questions = append(m.Questions, q)
	}

	if m.Answers, err = parseRecords(c, anCount, nil); err != nil {
		return nil, err
	}
	if m.Authority, err = parseRecords(c, nsCount, nil); err != nil {
		return nil, err
	}
	if m.Additional, err = parseRecords(c, arCount, m); err != nil {
		return nil, err
	}

	if left := c.remaining(); left > 0 {
		return nil, fmt.Errorf("%w: finished parsing with %d bytes left over", ErrMalformed, left)
	}
	return m, nil
}

func parseQuestion(c *cursor) (Question, error) {
	name, err := c.readName()
	if err != nil {
		return Question{}, err
	}
	qtype, err := c.readType()
	if err != nil {
		return Question{}, err
	}
	class, err := c.readClass()
	if err != nil {
		return Question{}, err
	}
	return Question{Name: name, Type: qtype, Class: class}, nil
}

// parseRecords reads count records. When m is non-nil we are in the
// additional section and an OPT record is routed to the extension
// codec before generic resource dispatch; a second OPT is an error.
func parseRecords(c *cursor, count uint16, m *Message) ([]Record, error) {
	if count == 0 {
		return nil, nil
	}
	records := make([]Record, 0, min(int(count), maxPreallocEntries))
	for range count {
		name, err := c.readName()
		if err != nil {
			return nil, err
		}
		rtype, err := c.readType()
		if err != nil {
			return nil, err
		}

		if m != nil && rtype == TypeOPT {
			if m.Extension != nil {
				return nil, fmt.Errorf("%w: multiple EDNS(0) extensions, expected only one",
					ErrMalformed)
			}
			ext, err := parseExtension(c, name)
			if err != nil {
				return nil, err
			}
			m.Extension = ext
			continue
		}

		record, err := parseRecordBody(c, name, rtype)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		// The section may have contained only the OPT pseudo-record.
		return nil, nil
	}
	return records, nil
}

func parseRecordBody(c *cursor, name string, rtype Type) (Record, error) {
	class, err := c.readClass()
	if err != nil {
		return Record{}, err
	}
	ttl, err := c.readUint32()
	if err != nil {
		return Record{}, err
	}
	rdLength, err := c.readUint16()
	if err != nil {
		return Record{}, err
	}

	// The resource decoder runs inside a window bounded to exactly
	// RDLENGTH bytes. Name decoding within the window may still jump
	// backward to an earlier compression target, but it can never read
	// past the window's end.
	window := c.sub(int(rdLength))
	if window.remaining() != int(rdLength) {
		return Record{}, fmt.Errorf("%w: RDLENGTH %d exceeds the %d remaining bytes",
			ErrTruncated, rdLength, c.remaining())
	}
	resource, err := parseResource(window, rtype, class)
	if err != nil {
		return Record{}, err
	}
	if left := window.remaining(); left > 0 {
		return Record{}, fmt.Errorf("%w: %d RDATA bytes left over after %s record",
			ErrMalformed, left, rtype)
	}
	if err := c.skip(int(rdLength)); err != nil {
		return Record{}, err
	}

	return Record{
		Name:     name,
		Class:    class,
		TTL:      time.Duration(ttl) * time.Second,
		Resource: resource,
	}, nil
}

// Marshal encodes the message to wire format: the 12-byte header, then
// questions, answers, authority and additional records in order, with
// the extension appended last as a synthetic additional entry. The
// writer emits no compression pointers. Marshal never mutates m.
func (m *Message) Marshal() ([]byte, error) {
	arCount := len(m.Additional)
	if m.Extension != nil {
		arCount++
	}
	for _, section := range []struct {
		name string
		n    int
	}{
		{"question", len(m.Questions)},
		{"answer", len(m.Answers)},
		{"authority", len(m.Authority)},
		{"additional", arCount},
	} {
		if section.n > 0xFFFF {
			return nil, fmt.Errorf("%w: %d entries overflow the %s count field",
				ErrInvalidMessage, section.n, section.name)
		}
	}

	if m.Opcode > 0x0F {
		return nil, fmt.Errorf("%w: Opcode %d does not fit the four-bit header field",
			ErrInvalidMessage, uint8(m.Opcode))
	}
	if m.Rcode > 0x0F {
		return nil, fmt.Errorf("%w: Rcode %d does not fit the four-bit header field; "+
			"the upper bits belong in the EDNS(0) extension",
			ErrInvalidMessage, uint16(m.Rcode))
	}

	out := make([]byte, 0, 512)
	out = binary.BigEndian.AppendUint16(out, m.ID)

	var b1 uint8
	if m.Response {
		b1 |= flagQR
	}
	b1 |= (uint8(m.Opcode) << 3) & opcodeMask
	if m.Authoritative {
		b1 |= flagAA
	}
	if m.Truncated {
		b1 |= flagTC
	}
	if m.RecursionDesired {
		b1 |= flagRD
	}
	out = append(out, b1)

	var b2 uint8
	if m.RecursionAvailable {
		b2 |= flagRA
	}
	if m.Zero {
		b2 |= flagZ
	}
	if m.AuthenticData {
		b2 |= flagAD
	}
	if m.CheckingDisabled {
		b2 |= flagCD
	}
	b2 |= uint8(m.Rcode) & rcodeMask
	out = append(out, b2)

	out = binary.BigEndian.AppendUint16(out, uint16(len(m.Questions)))
	out = binary.BigEndian.AppendUint16(out, uint16(len(m.Answers)))
	out = binary.BigEndian.AppendUint16(out, uint16(len(m.Authority)))
	out = binary.BigEndian.AppendUint16(out, uint16(arCount))

	var err error
	for _, q := range m.Questions {
		if out, err = writeName(out, q.Name); err != nil {
			return nil, err
		}
		out = binary.BigEndian.AppendUint16(out, uint16(q.Type))
		out = binary.BigEndian.AppendUint16(out, uint16(q.Class))
	}

	for _, section := range [][]Record{m.Answers, m.Authority, m.Additional} {
		for _, r := range section {
			if out, err = appendRecord(out, r); err != nil {
				return nil, err
			}
		}
	}

	if m.Extension != nil {
		out = m.Extension.append(out)
	}
	return out, nil
}

func appendRecord(out []byte, r Record) ([]byte, error) {
	if r.Resource == nil {
		return nil, fmt.Errorf("%w: record %q has no resource", ErrInvalidMessage, r.Name)
	}
	switch r.Resource.Type() {
	case TypeA, TypeAAAA:
		if r.Class != ClassInternet {
			return nil, fmt.Errorf("%w: %s record %q requires the Internet class, got %q",
				ErrInvalidMessage, r.Resource.Type(), r.Name, r.Class)
		}
	}

	out, err := writeName(out, r.Name)
	if err != nil {
		return nil, err
	}
	out = binary.BigEndian.AppendUint16(out, uint16(r.Resource.Type()))
	out = binary.BigEndian.AppendUint16(out, uint16(r.Class))
	ttl, err := durationToSeconds(r.TTL)
	if err != nil {
		return nil, err
	}
	out = binary.BigEndian.AppendUint32(out, ttl)

	rdata, err := r.Resource.appendRData(nil)
	if err != nil {
		return nil, err
	}
	if len(rdata) > 0xFFFF {
		return nil, fmt.Errorf("%w: RDATA of %d bytes overflows RDLENGTH",
			ErrInvalidMessage, len(rdata))
	}
	out = binary.BigEndian.AppendUint16(out, uint16(len(rdata)))
	return append(out, rdata...), nil
}
