// Package venv manages the Python virtual environments chakra creates for
// development dependency groups and for builds.
//
// An Environment is a directory under the project's env-dir. It is created by
// running the virtualenv tool, populated with `python -m pip install -r`, and
// inspected by looking at its site-packages directory.
//
// Design decisions:
//   - Environments are never activated inside the chakra process. Instead,
//     ActivationEnv returns the VIRTUAL_ENV and PATH variables a child
//     process needs, and Command attaches them to a runner.Command.
//   - External tool failures are returned as *model.CLIError with
//     ExitCommandFailed (via runner.Result.Err), so the CLI can map them to
//     an exit code without inspecting messages.
//   - Requirements are written to a requirements.txt inside a scoped
//     temporary directory rather than passed on the command line, so very
//     long groups and requirement strings with markers survive unchanged.
package venv
