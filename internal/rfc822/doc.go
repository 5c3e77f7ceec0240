// Package rfc822 implements the header-block-plus-body text format used for
// core package metadata (the METADATA / PKG-INFO files).
//
// The format is a simplified RFC 822 message: a sequence of "Name: value"
// header lines, where a value spanning several lines continues on lines
// indented by eight spaces, followed by one blank line and a free-form body.
// Header names may repeat; their values are kept in order.
//
// Dumps and Loads are inverses for text produced by Dumps. Hand-written text
// is parsed on a best-effort basis: a header written as "key:value" (no space
// after the colon) is read as a continuation line, and blank lines inside a
// value end the header block early. Both behaviors are long-standing and
// relied on by existing metadata files, so they are kept.
package rfc822
