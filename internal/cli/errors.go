package cli

import (
	"errors"
	"io/fs"

	"github.com/shinji-kodama/chakra/internal/model"
	"github.com/shinji-kodama/chakra/internal/venv"
)

// toCLIError maps an error returned by a command to a CLIError with the
// matching exit code. Errors that already are CLIErrors pass through.
//
// Mapping:
//   - missing files (fs.ErrNotExist) → ExitConfigNotFound
//   - *model.ConfigParseError, *model.FormatError → ExitConfigInvalid
//   - *venv.MismatchError → ExitInterpreterMismatch
//   - anything else → ExitGeneralError
func toCLIError(err error) *model.CLIError {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var parseErr *model.ConfigParseError
	var formatErr *model.FormatError
	var mismatchErr *venv.MismatchError

	switch {
	case errors.As(err, &mismatchErr):
		return model.WrapCLIError(model.ExitInterpreterMismatch, "interpreter does not satisfy requires-python", err)
	case errors.As(err, &parseErr):
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid project configuration", err)
	case errors.As(err, &formatErr):
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid value", err)
	case errors.Is(err, fs.ErrNotExist):
		return model.WrapCLIError(model.ExitConfigNotFound, "file not found", err)
	default:
		return model.NewCLIError(model.ExitGeneralError, err.Error())
	}
}
