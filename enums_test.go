// SPDX-License-Identifier: GPL-3.0-or-later

package dnswire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTypeRejectsUnassigned(t *testing.T) {
	// Type code 3 is unassigned: never substitute a default.
	_, err := parseType(3)
	require.ErrorIs(t, err, ErrInvalidValue)
	require.ErrorContains(t, err, "invalid Type(3)")

	_, err = parseType(65280)
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseTypeAcceptsKnown(t *testing.T) {
	for _, want := range []Type{
		TypeReserved, TypeA, TypeNS, TypeCNAME, TypeSOA, TypePTR,
		TypeMX, TypeTXT, TypeAAAA, TypeSRV, TypeOPT, TypeANY,
	} {
		got, err := parseType(uint16(want))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestParseClass(t *testing.T) {
	got, err := parseClass(1)
	require.NoError(t, err)
	require.Equal(t, ClassInternet, got)

	_, err = parseClass(5)
	require.ErrorIs(t, err, ErrInvalidValue)
	require.ErrorContains(t, err, "invalid Class(5)")
}

func TestParseOpcode(t *testing.T) {
	got, err := parseOpcode(0)
	require.NoError(t, err)
	require.Equal(t, OpcodeQuery, got)

	// Opcode 3 is unassigned.
	_, err = parseOpcode(3)
	require.ErrorIs(t, err, ErrInvalidValue)

	_, err = parseOpcode(7)
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseRcode(t *testing.T) {
	got, err := parseRcode(3)
	require.NoError(t, err)
	require.Equal(t, RcodeNXDomain, got)

	// Rcodes 12-15 are unassigned.
	_, err = parseRcode(12)
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestEnumStrings(t *testing.T) {
	require.Equal(t, "A", TypeA.String())
	require.Equal(t, "ANY", TypeANY.String())
	require.Equal(t, "Type(77)", Type(77).String())
	require.Equal(t, "IN", ClassInternet.String())
	require.Equal(t, "CH", ClassChaos.String())
	require.Equal(t, "QUERY", OpcodeQuery.String())
	require.Equal(t, "NOERROR", RcodeNoError.String())
	require.Equal(t, "NXDOMAIN", RcodeNXDomain.String())
}
