package model

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned for platforms, architectures and hook script
// types chakra does not know how to handle.
var ErrNotSupported = errors.New("not supported")

// ConfigParseError reports that the configuration document is not valid
// TOML, or that a recognised key holds a value of the wrong shape.
// It is always fatal; no recovery is attempted.
type ConfigParseError struct {
	// Path is the configuration file that failed to parse. Empty when the
	// document was parsed from memory.
	Path string

	// Err is the decoder error.
	Err error
}

// Error implements the error interface.
func (e *ConfigParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration in %s: %v", e.Path, e.Err)
}

// Unwrap returns the decoder error.
func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// FormatError reports text that does not match a fixed textual format,
// such as a malformed version string.
type FormatError struct {
	// Kind names the format that was expected (e.g. "version").
	Kind string

	// Input is the offending text.
	Input string

	// Reason is an optional detail.
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Input)
}
