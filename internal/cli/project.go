package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/shinji-kodama/chakra/internal/config"
	"github.com/shinji-kodama/chakra/internal/model"
)

// loadSettings reads the user settings file. A settings directory that
// cannot be determined is treated like a missing settings file.
func loadSettings() (*config.Settings, error) {
	path, err := config.SettingsPath()
	if err != nil {
		VerboseLog("Cannot locate settings directory: %v", err)
		path = ""
	}
	return config.LoadSettings(path)
}

// settingsVerbose reports whether the user settings enable verbose output.
func settingsVerbose() bool {
	s, err := loadSettings()
	return err == nil && s.Verbose
}

// loadProject loads the project named by --file, with user settings applied.
func loadProject() (*config.Config, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigInvalid, "failed to load settings", err)
	}

	VerboseLog("Loading project configuration from %s", configFile)
	cfg, err := config.Load(configFile, settings)
	if err != nil {
		var parseErr *model.ConfigParseError
		switch {
		case errors.As(err, &parseErr):
			return nil, model.WrapCLIError(model.ExitConfigInvalid,
				fmt.Sprintf("failed to parse %s", configFile), err)
		case errors.Is(err, fs.ErrNotExist):
			return nil, model.WrapCLIError(model.ExitConfigNotFound,
				fmt.Sprintf("failed to load %s", configFile), err)
		default:
			return nil, err
		}
	}

	VerboseLog("Project %q, environments in %s", cfg.Metadata.Name, cfg.EnvDir)
	return cfg, nil
}
