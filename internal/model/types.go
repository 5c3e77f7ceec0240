// Package model defines the domain types for the chakra CLI.
//
// These types are shared by the configuration reader, the metadata resolver
// and the CLI layer. None of them performs I/O.
package model

import (
	"fmt"
	"strings"
)

// ContentType is the media type of a package's long description, written
// to the Description-Content-Type metadata header.
type ContentType string

const (
	// ContentTypeRST marks a reStructuredText description (".rst" readme).
	ContentTypeRST ContentType = "text/x-rst"

	// ContentTypeMarkdown marks a Markdown description (".md" readme).
	ContentTypeMarkdown ContentType = "text/markdown"

	// ContentTypePlain marks a plain-text description. It is also the
	// fallback for readme files whose extension is not recognised.
	ContentTypePlain ContentType = "text/plain"
)

// String returns the string representation of ContentType.
func (c ContentType) String() string {
	return string(c)
}

// IsKnown reports whether the content type is one of the types chakra
// infers by itself. Explicit content types from a readme table are passed
// through even when they are not known.
func (c ContentType) IsKnown() bool {
	switch c {
	case ContentTypeRST, ContentTypeMarkdown, ContentTypePlain:
		return true
	default:
		return false
	}
}

// ContentTypeForExtension infers the description content type from a readme
// file extension (including the leading dot, as returned by filepath.Ext).
//
// Mapping:
//   - ".rst" → text/x-rst
//   - ".md"  → text/markdown
//   - ""     → text/plain
//
// Any other extension falls back to text/plain so that a resolved
// description always carries a content type.
func ContentTypeForExtension(ext string) ContentType {
	switch strings.ToLower(ext) {
	case ".rst":
		return ContentTypeRST
	case ".md":
		return ContentTypeMarkdown
	default:
		return ContentTypePlain
	}
}

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigNotFound indicates pyproject.toml (or a file it references,
	// such as the readme) was not found.
	ExitConfigNotFound ExitCode = 2

	// ExitConfigInvalid indicates pyproject.toml is not valid TOML or one of
	// its recognised keys has an unexpected shape.
	ExitConfigInvalid ExitCode = 3

	// ExitCommandFailed indicates an external command (virtualenv, pip)
	// exited with a non-zero status.
	ExitCommandFailed ExitCode = 4

	// ExitEnvNotFound indicates the requested environment or dependency
	// group does not exist.
	ExitEnvNotFound ExitCode = 5

	// ExitInterpreterMismatch indicates the selected Python interpreter does
	// not satisfy the project's requires-python constraint.
	ExitInterpreterMismatch ExitCode = 6

	// ExitCommandNotFound mirrors the shell convention for a missing
	// executable. runner.Result uses it as the exit code of such commands.
	ExitCommandNotFound ExitCode = 127
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
