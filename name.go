// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// Limits from RFC 1035 section 3.1.
const (
	maxLabelLength = 63
	maxNameLength  = 255 // encoded form, including the terminating zero
)

// acePrefix marks an ASCII Compatible Encoding (punycode) label.
const acePrefix = "xn--"

// readName reads a possibly-compressed domain name at the cursor position
// and advances the cursor past the bytes physically occupying it: the
// labels plus at most one two-byte compression pointer. Bytes reachable
// only through a pointer are not counted, so message-length accounting
// stays correct even though decoding recursed elsewhere.
//
// The returned name is Unicode, fully qualified with a trailing dot; the
// root name decodes as ".".
func (c *cursor) readName() (string, error) {
	name, n, err := readNameAt(c.buf, c.off, c.end)
	if err != nil {
		return "", err
	}
	c.off += n
	return name, nil
}

// readNameAt decodes one length-prefixed label at a time starting at off.
// A compression pointer must reference an offset strictly before the
// start of the name currently being read: each hop therefore decreases
// the offset and recursion is bounded by the buffer size. This is the
// loop-prevention invariant and it holds for adversarial input too.
//
// The RFC 1035 255-byte cap applies to the uncompressed encoding, so a
// short pointer chain expanding to an oversized name is rejected.
func readNameAt(buf []byte, off, limit int) (string, int, error) {
	var encoded int
	return readNameRec(buf, off, limit, &encoded)
}

func readNameRec(buf []byte, off, limit int, encoded *int) (string, int, error) {
	start := off
	var sb strings.Builder

	for {
		if off >= limit {
			return "", 0, fmt.Errorf("%w: name runs past offset %d", ErrTruncated, limit)
		}
		b := buf[off]
		off++

		switch b & 0xC0 {
		case 0x00:
			if b == 0 {
				if sb.Len() == 0 {
					sb.WriteByte('.') // root
				}
				return sb.String(), off - start, nil
			}
			if off+int(b) > limit {
				return "", 0, fmt.Errorf("%w: label runs past offset %d", ErrTruncated, limit)
			}
			*encoded += 1 + int(b)
			if *encoded+1 > maxNameLength {
				return "", 0, fmt.Errorf("%w: name longer than %d bytes",
					ErrInvalidName, maxNameLength)
			}
			label, err := decodeLabel(buf[off : off+int(b)])
			if err != nil {
				return "", 0, err
			}
			off += int(b)
			sb.WriteString(label)
			sb.WriteByte('.')

		case 0xC0:
			if off >= limit {
				return "", 0, fmt.Errorf("%w: pointer runs past offset %d", ErrTruncated, limit)
			}
			ptr := int(b&0x3F)<<8 | int(buf[off])
			off++
			if ptr >= start {
				return "", 0, fmt.Errorf("%w: offset %d points at or past the name starting at %d",
					ErrInvalidPointer, ptr, start)
			}
			// The pointer terminates this name; the referenced suffix is
			// decoded from strictly earlier bytes.
			rest, _, err := readNameRec(buf, ptr, start, encoded)
			if err != nil {
				return "", 0, err
			}
			if rest != "." {
				sb.WriteString(rest)
			} else if sb.Len() == 0 {
				sb.WriteByte('.')
			}
			return sb.String(), off - start, nil

		default:
			return "", 0, fmt.Errorf("%w: unsupported compression type %#x",
				ErrInvalidPointer, b&0xC0)
		}
	}
}

// decodeLabel converts a single wire label to its Unicode text form.
//
// Wire labels must be ASCII after IDNA conversion; a non-ASCII byte is a
// parse error, as is an ACE label that the IDNA collaborator rejects
// (strict policy: we never fall back to the raw label text). Literal
// dots and backslashes inside a label are escaped so that the label
// boundaries of the textual name stay unambiguous.
func decodeLabel(raw []byte) (string, error) {
	for _, b := range raw {
		if b > 0x7F {
			return "", fmt.Errorf("%w: label %q is not ASCII", ErrInvalidName, raw)
		}
	}
	label := string(raw)
	if strings.HasPrefix(strings.ToLower(label), acePrefix) {
		unicode, err := idna.ToUnicode(label)
		if err != nil {
			return "", fmt.Errorf("%w: label %q: %s", ErrInvalidName, label, err)
		}
		// IDNA works on whole labels. A dot or backslash in the input or
		// the output means the label was never a valid ACE label.
		if strings.ContainsAny(label, `.\`) || strings.ContainsAny(unicode, `.\`) {
			return "", fmt.Errorf("%w: label %q is not a valid ACE label", ErrInvalidName, label)
		}
		return unicode, nil
	}
	return escapeLabel(label), nil
}

func escapeLabel(label string) string {
	if !strings.ContainsAny(label, `.\`) {
		return label
	}
	var sb strings.Builder
	for i := 0; i < len(label); i++ {
		switch label[i] {
		case '.', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteByte(label[i])
	}
	return sb.String()
}

// writeName appends the wire encoding of a domain name to out.
//
// The writer never emits compression pointers: that is valid per RFC
// 1035 and trades some wire size for a much simpler, bug-resistant
// encoder. Each label is IDNA-converted to ASCII when needed and
// validated against the RFC 1035 limits. The root (or empty) name
// encodes as a single zero byte.
func writeName(out []byte, name string) ([]byte, error) {
	if name == "" || name == "." {
		return append(out, 0), nil
	}

	labels, err := splitLabels(name)
	if err != nil {
		return nil, err
	}

	encoded := 0
	for _, label := range labels {
		if !isASCII(label) {
			ascii, err := idna.ToASCII(label)
			if err != nil {
				return nil, fmt.Errorf("%w: label %q: %s", ErrInvalidName, label, err)
			}
			label = ascii
		}
		if len(label) > maxLabelLength {
			return nil, fmt.Errorf("%w: label %q longer than %d bytes",
				ErrInvalidName, label, maxLabelLength)
		}
		encoded += 1 + len(label)
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	out = append(out, 0)

	if encoded+1 > maxNameLength {
		return nil, fmt.Errorf("%w: name %q encodes to %d bytes, maximum is %d",
			ErrInvalidName, name, encoded+1, maxNameLength)
	}
	return out, nil
}

// splitLabels splits a textual name on unescaped dots, honoring the
// `\.` and `\\` escapes produced by decodeLabel. A trailing dot marks a
// fully-qualified name and yields no final label; any other empty label
// (leading or doubled dot) is an error.
func splitLabels(name string) ([]string, error) {
	var labels []string
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '\\':
			if i+1 == len(name) {
				return nil, fmt.Errorf("%w: trailing backslash in %q", ErrInvalidName, name)
			}
			i++
			sb.WriteByte(name[i])
		case '.':
			if sb.Len() == 0 {
				return nil, fmt.Errorf("%w: empty label in %q", ErrInvalidName, name)
			}
			labels = append(labels, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(name[i])
		}
	}
	if sb.Len() > 0 {
		labels = append(labels, sb.String())
	}
	return labels, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
