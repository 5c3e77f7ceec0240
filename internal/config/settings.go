package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/chakra/internal/model"
	"github.com/shinji-kodama/chakra/internal/pyproject"
	"github.com/shinji-kodama/chakra/internal/venv"
)

// AppName is the directory name used under the user configuration directory.
const AppName = "chakra"

// SettingsFileName is the user settings file inside ConfigDir.
const SettingsFileName = "settings.jsonc"

// EnvPrefix prefixes environment variables that override settings, e.g.
// CHAKRA_PYTHON or CHAKRA_ENV_DIR.
const EnvPrefix = "CHAKRA"

// Settings holds per-user defaults. Project configuration in
// [tool.chakra] takes precedence over these values.
type Settings struct {
	// Python is the interpreter used to create environments.
	Python string `mapstructure:"python" json:"python" yaml:"python"`

	// VenvTool is the program that creates environments.
	VenvTool string `mapstructure:"venv_tool" json:"venv_tool" yaml:"venv_tool"`

	// EnvDir is the default environment base directory.
	EnvDir string `mapstructure:"env_dir" json:"env_dir" yaml:"env_dir"`

	// Verbose enables debug logging by default.
	Verbose bool `mapstructure:"verbose" json:"verbose" yaml:"verbose"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() *Settings {
	return &Settings{
		Python:   venv.DefaultPython,
		VenvTool: venv.DefaultTool,
		EnvDir:   pyproject.DefaultEnvDir,
	}
}

// ConfigDir returns the chakra configuration directory using platform
// conventions: %APPDATA% on Windows, ~/Library/Application Support on macOS
// and $XDG_CONFIG_HOME (defaulting to ~/.config) elsewhere.
func ConfigDir() (string, error) {
	var base string

	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, AppName), nil
}

// SettingsPath returns the default settings file location.
func SettingsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// LoadSettings layers the built-in defaults, the settings file at path and
// CHAKRA_* environment variables, in increasing precedence.
//
// The settings file is JSON with comments and trailing commas allowed. A
// missing file is not an error. An empty path skips the file.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("python", defaults.Python)
	v.SetDefault("venv_tool", defaults.VenvTool)
	v.SetDefault("env_dir", defaults.EnvDir)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if err := mergeSettingsFile(v, path); err != nil {
			return nil, err
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, &model.ConfigParseError{Path: path, Err: err}
	}
	return s, nil
}

// mergeSettingsFile reads a JSONC settings file into v.
func mergeSettingsFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read settings: %w", err)
	}

	// Strip comments and trailing commas so encoding/json can parse it.
	var values map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &values); err != nil {
		return &model.ConfigParseError{Path: path, Err: err}
	}

	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge settings: %w", err)
	}
	return nil
}
