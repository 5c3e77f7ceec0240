package config

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/chakra/internal/model"
)

// TestLoadSettings_Defaults verifies the built-in values apply without a file.
func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.jsonc"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	s, err = LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

// TestLoadSettings_File verifies JSONC parsing and partial overrides.
func TestLoadSettings_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), SettingsFileName, `{
  // interpreter for new environments
  "python": "python3.11",
  /* block comment */
  "verbose": true,
}`)

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, &Settings{
		Python:   "python3.11",
		VenvTool: "virtualenv",
		EnvDir:   ".envs",
		Verbose:  true,
	}, s)
}

// TestLoadSettings_EnvOverrides verifies CHAKRA_* variables win over the file.
func TestLoadSettings_EnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), SettingsFileName, `{"python": "python3.11", "env_dir": "venvs"}`)
	t.Setenv("CHAKRA_PYTHON", "pypy3")
	t.Setenv("CHAKRA_VERBOSE", "true")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "pypy3", s.Python)
	assert.Equal(t, "venvs", s.EnvDir)
	assert.True(t, s.Verbose)
}

// TestLoadSettings_Invalid verifies malformed files are reported.
func TestLoadSettings_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), SettingsFileName, `{"python": `)

	_, err := LoadSettings(path)
	var pe *model.ConfigParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, path, pe.Path)
}

// TestSettingsPath verifies the XDG location on Linux.
func TestSettingsPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only consulted on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	path, err := SettingsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "chakra", "settings.jsonc"), path)
}
