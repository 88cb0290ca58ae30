// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire_test

import (
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/bassosimone/dnswire"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

// The encoder's output must be acceptable to an independent DNS
// implementation.
func TestInteropMarshalToMiekg(t *testing.T) {
	m := dnswire.NewMessage(func() uint16 { return 0x1234 })
	require.NoError(t, m.AddQuestion("www.google.com", dnswire.TypeA, dnswire.ClassInternet))
	ext := dnswire.NewExtension(dnswire.MaxResponseSizeUDP)
	ext.DNSSECOK = true
	m.SetExtension(ext)

	wire, err := m.Marshal()
	require.NoError(t, err)

	var msg dns.Msg
	require.NoError(t, msg.Unpack(wire))
	require.Equal(t, uint16(0x1234), msg.Id)
	require.False(t, msg.Response)
	require.True(t, msg.RecursionDesired)
	require.Len(t, msg.Question, 1)
	require.Equal(t, "www.google.com.", msg.Question[0].Name)
	require.Equal(t, dns.TypeA, msg.Question[0].Qtype)
	require.Equal(t, uint16(dns.ClassINET), msg.Question[0].Qclass)

	opt := msg.IsEdns0()
	require.NotNil(t, opt)
	require.Equal(t, uint16(dnswire.MaxResponseSizeUDP), opt.UDPSize())
	require.True(t, opt.Do())
}

// The decoder must accept an independent implementation's output,
// including its compression pointers, which our own writer never emits.
func TestInteropParseFromMiekg(t *testing.T) {
	var msg dns.Msg
	msg.SetQuestion("example.com.", dns.TypeA)
	msg.Response = true
	msg.RecursionAvailable = true
	msg.Compress = true
	msg.Answer = []dns.RR{
		&dns.A{
			Hdr: dns.RR_Header{
				Name:   "example.com.",
				Rrtype: dns.TypeA,
				Class:  dns.ClassINET,
				Ttl:    300,
			},
			A: net.IPv4(93, 184, 216, 34),
		},
		&dns.MX{
			Hdr: dns.RR_Header{
				Name:   "example.com.",
				Rrtype: dns.TypeMX,
				Class:  dns.ClassINET,
				Ttl:    3600,
			},
			Preference: 10,
			Mx:         "mail.example.com.",
		},
	}

	wire, err := msg.Pack()
	require.NoError(t, err)

	parsed, err := dnswire.ParseMessage(wire)
	require.NoError(t, err)
	require.Equal(t, msg.Id, parsed.ID)
	require.True(t, parsed.Response)
	require.True(t, parsed.RecursionDesired)
	require.True(t, parsed.RecursionAvailable)
	require.Equal(t, []dnswire.Question{{
		Name:  "example.com.",
		Type:  dnswire.TypeA,
		Class: dnswire.ClassInternet,
	}}, parsed.Questions)
	require.Equal(t, []dnswire.Record{
		{
			Name:     "example.com.",
			Class:    dnswire.ClassInternet,
			TTL:      300 * time.Second,
			Resource: dnswire.A{Addr: netip.MustParseAddr("93.184.216.34")},
		},
		{
			Name:     "example.com.",
			Class:    dnswire.ClassInternet,
			TTL:      3600 * time.Second,
			Resource: dnswire.MX{Preference: 10, Exchange: "mail.example.com."},
		},
	}, parsed.Answers)
}

func TestInteropParseEdns0FromMiekg(t *testing.T) {
	var msg dns.Msg
	msg.SetQuestion("example.com.", dns.TypeAAAA)
	msg.SetEdns0(4096, true)

	wire, err := msg.Pack()
	require.NoError(t, err)

	parsed, err := dnswire.ParseMessage(wire)
	require.NoError(t, err)
	require.NotNil(t, parsed.Extension)
	require.Equal(t, uint16(4096), parsed.Extension.PayloadSize)
	require.True(t, parsed.Extension.DNSSECOK)
	require.Nil(t, parsed.Additional)
}
