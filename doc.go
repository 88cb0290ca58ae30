// SPDX-License-Identifier: GPL-3.0-or-later

// Package dnswire serializes and parses DNS messages in the RFC 1035
// wire format, including EDNS(0) extensions per RFC 6891.
//
// [NewMessage], [*Message.AddQuestion] and [*Message.SetExtension]
// allow constructing a query; [*Message.Marshal] packs it to bytes and
// [ParseMessage] unpacks untrusted bytes received from a server.
//
// The codec is written from scratch: domain-name compression pointers
// are followed with strict loop protection, every read is bounds
// checked, and malformed input always surfaces as an error rather than
// a panic, so the package is safe to feed raw network data. Encoding
// and decoding are pure functions with no shared state.
package dnswire
