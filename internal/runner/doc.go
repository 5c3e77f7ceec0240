// Package runner executes external programs for chakra.
//
// A Command runs an argument list directly, never through a shell. The child
// process receives only the caller's PATH plus the variables set on the
// Command, so environment activation is always explicit. Output is captured
// and trimmed into a Result.
//
// A program that cannot be found is not an error: it yields a Result with
// exit code 127 and "command not found: <name>" on stderr, mirroring what a
// shell reports. Errors are reserved for failures to start or wait for the
// process for other reasons, such as a cancelled context.
//
// Hook builds a Command for a project hook script, choosing the interpreter
// from the script's extension.
package runner
