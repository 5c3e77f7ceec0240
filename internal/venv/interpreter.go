package venv

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinji-kodama/chakra/internal/runner"
	"github.com/shinji-kodama/chakra/internal/version"
)

// MismatchError reports an interpreter that does not satisfy the project's
// requires-python constraint.
type MismatchError struct {
	Interpreter string
	Version     version.Version
	Constraint  version.Constraint
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("interpreter %s is Python %s, but the project requires %s",
		e.Interpreter, e.Version, e.Constraint)
}

// InterpreterVersion runs `<python> --version` and parses the reported
// version. Older interpreters print the version on stderr; both streams are
// accepted.
func InterpreterVersion(ctx context.Context, python string) (version.Version, error) {
	res, err := runner.New(python, "--version").Run(ctx)
	if err != nil {
		return version.Version{}, err
	}
	if err := res.Err(); err != nil {
		return version.Version{}, err
	}

	out := res.Stdout
	if out == "" {
		out = res.Stderr
	}
	return version.Parse(strings.TrimSpace(strings.TrimPrefix(out, "Python ")))
}

// InterpreterVersion returns the version of the environment's interpreter.
func (e *Environment) InterpreterVersion(ctx context.Context) (version.Version, error) {
	return InterpreterVersion(ctx, e.PythonExecutable())
}

// CheckInterpreter verifies that python satisfies constraint, the raw
// requires-python value. An empty constraint accepts any interpreter. A
// violation is returned as *MismatchError.
func CheckInterpreter(ctx context.Context, python, constraint string) (version.Version, error) {
	c, err := version.ParseConstraint(constraint)
	if err != nil {
		return version.Version{}, err
	}

	v, err := InterpreterVersion(ctx, python)
	if err != nil {
		return version.Version{}, err
	}
	if !c.Allows(v) {
		return v, &MismatchError{Interpreter: python, Version: v, Constraint: c}
	}
	return v, nil
}
