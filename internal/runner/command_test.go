package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/chakra/internal/model"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell utilities")
	}
}

// TestRun_CapturesTrimmedOutput verifies stdout and stderr are captured
// separately and trimmed.
func TestRun_CapturesTrimmedOutput(t *testing.T) {
	skipOnWindows(t)

	res, err := New("sh", "-c", "echo '  out  '; echo ' err ' >&2").Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out", res.Stdout)
	assert.Equal(t, "err", res.Stderr)
	assert.Equal(t, []string{"sh", "-c", "echo '  out  '; echo ' err ' >&2"}, res.Args)
	assert.NoError(t, res.Err())
}

// TestRun_NonZeroExit verifies a failing command is a result, not an error.
func TestRun_NonZeroExit(t *testing.T) {
	skipOnWindows(t)

	res, err := New("sh", "-c", "echo boom >&2; exit 3").Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.OK())
	assert.Equal(t, 3, res.ExitCode)

	var cliErr *model.CLIError
	require.True(t, errors.As(res.Err(), &cliErr))
	assert.Equal(t, model.ExitCommandFailed, cliErr.Code)
	assert.Contains(t, cliErr.Error(), "boom")
	assert.Contains(t, cliErr.Error(), "status 3")
}

// TestRun_CommandNotFound verifies a missing program yields exit code 127.
func TestRun_CommandNotFound(t *testing.T) {
	tests := []struct {
		name string
		prog string
	}{
		{"on PATH", "chakra-definitely-not-a-command"},
		{"by path", filepath.Join(t.TempDir(), "missing")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(tt.prog, "--version").Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 127, res.ExitCode)
			assert.Equal(t, "", res.Stdout)
			assert.Equal(t, "command not found: "+tt.prog, res.Stderr)
		})
	}
}

// TestRun_OnlyPathAndExplicitEnv verifies the child environment is minimal.
func TestRun_OnlyPathAndExplicitEnv(t *testing.T) {
	skipOnWindows(t)
	t.Setenv("CHAKRA_TEST_LEAK", "leaked")

	res, err := New("sh", "-c", "echo \"[$CHAKRA_TEST_LEAK][$GREETING]\"").
		With("GREETING", "hello").
		Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[][hello]", res.Stdout)
}

// TestRun_Dir verifies the working directory is applied.
func TestRun_Dir(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), nil, 0o644))

	cmd := New("ls")
	cmd.Dir = dir
	res, err := cmd.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "marker", res.Stdout)
}

// TestRun_Output verifies output is streamed as well as captured.
func TestRun_Output(t *testing.T) {
	skipOnWindows(t)

	var buf bytes.Buffer
	cmd := New("sh", "-c", "echo streamed")
	cmd.Output = &buf

	res, err := cmd.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "streamed", res.Stdout)
	assert.Equal(t, "streamed\n", buf.String())
}

// TestRun_Cancelled verifies context cancellation is an error.
func TestRun_Cancelled(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New("sleep", "5").Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

// TestRun_Empty verifies an empty argument list is rejected.
func TestRun_Empty(t *testing.T) {
	_, err := New().Run(context.Background())
	assert.Error(t, err)
}

// TestCommand_String checks shell quoting of the rendered command line.
func TestCommand_String(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"python", "-m", "pip"}, "python -m pip"},
		{[]string{"pip", "install", "-r", "my reqs.txt"}, "pip install -r 'my reqs.txt'"},
		{[]string{"echo", ""}, "echo ''"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.args...).String())
		})
	}
}

// TestCommand_Environ verifies PATH is inherited and can be overridden.
func TestCommand_Environ(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")

	assert.Equal(t, []string{"PATH=/usr/bin"}, New("x").Environ())
	assert.Equal(t,
		[]string{"A=1", "PATH=/venv/bin"},
		New("x").With("PATH", "/venv/bin").With("A", "1").Environ())
}

// TestCommand_WithCopies verifies With does not mutate the receiver.
func TestCommand_WithCopies(t *testing.T) {
	base := New("x").With("A", "1")
	derived := base.With("B", "2")

	assert.Equal(t, map[string]string{"A": "1"}, base.Env)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, derived.Env)
}
