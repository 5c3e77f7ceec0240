// Package model defines the shared value types and error types for the
// chakra CLI.
//
// This package contains pure data structures with no external dependencies.
// It holds the description content types recognised in package metadata,
// the error taxonomy used by the configuration and text-format packages
// (ConfigParseError, FormatError, ErrNotSupported), and the exit codes
// (ExitCode) plus the CLIError type that carries them to the process exit.
package model
