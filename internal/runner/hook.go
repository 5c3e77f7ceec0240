package runner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/chakra/internal/model"
)

// Hook is a Command that runs a project hook script with the interpreter
// matching its extension.
type Hook struct {
	*Command

	// Script is the script path as given.
	Script string

	// Interpreter is the program that runs Script.
	Interpreter string
}

// NewHook creates a Hook for script:
//
//   - ".ps1" runs with "powershell -File"
//   - ".py" runs with "python"
//   - ".sh" or no extension runs with "bash"
//
// Any other extension returns an error wrapping model.ErrNotSupported.
func NewHook(script string) (*Hook, error) {
	h := &Hook{Script: script}

	switch ext := strings.ToLower(filepath.Ext(script)); ext {
	case ".ps1":
		h.Interpreter = "powershell"
		h.Command = New(h.Interpreter, "-File", script)
	case ".py":
		h.Interpreter = "python"
		h.Command = New(h.Interpreter, script)
	case "", ".sh":
		h.Interpreter = "bash"
		h.Command = New(h.Interpreter, script)
	default:
		return nil, fmt.Errorf("hook extension %q: %w", ext, model.ErrNotSupported)
	}
	return h, nil
}
