package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/chakra/internal/model"
)

// TestNewHook covers interpreter selection by extension.
func TestNewHook(t *testing.T) {
	tests := []struct {
		script      string
		interpreter string
		args        []string
	}{
		{"hooks/pre.ps1", "powershell", []string{"powershell", "-File", "hooks/pre.ps1"}},
		{"hooks/pre.py", "python", []string{"python", "hooks/pre.py"}},
		{"hooks/pre.sh", "bash", []string{"bash", "hooks/pre.sh"}},
		{"hooks/pre", "bash", []string{"bash", "hooks/pre"}},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			h, err := NewHook(tt.script)
			require.NoError(t, err)
			assert.Equal(t, tt.script, h.Script)
			assert.Equal(t, tt.interpreter, h.Interpreter)
			assert.Equal(t, tt.args, h.Args)
		})
	}
}

// TestNewHook_Unsupported verifies unknown extensions are rejected.
func TestNewHook_Unsupported(t *testing.T) {
	for _, script := range []string{"hook.rb", "hook.bat", "hook.txt"} {
		_, err := NewHook(script)
		require.Error(t, err, script)
		assert.True(t, errors.Is(err, model.ErrNotSupported), script)
	}
}

// TestHook_Run runs a bash hook end to end.
func TestHook_Run(t *testing.T) {
	skipOnWindows(t)

	script := filepath.Join(t.TempDir(), "hook.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo \"hook ran with $MODE\"\n"), 0o644))

	h, err := NewHook(script)
	require.NoError(t, err)

	res, err := h.With("MODE", "build").Run(context.Background())
	require.NoError(t, err)
	if res.ExitCode == 127 {
		t.Skip("bash is not installed")
	}
	assert.Equal(t, "hook ran with build", res.Stdout)
}
