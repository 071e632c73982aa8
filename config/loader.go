package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ProjectConfigFile is the name of the project-level config file,
// searched in the working directory when no explicit path is given.
const ProjectConfigFile = "genmap.yaml"

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence: defaults first,
// then the project config (genmap.yaml in the working directory) or
// the explicit path when one is given. A missing explicit path is an
// error; a missing project config is not. Flag overrides are applied
// by the caller on the returned config.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	config := DefaultConfig()

	path := explicitPath
	if path == "" {
		path = ProjectConfigFile
	}

	fileConfig, err := LoadFromFile(path)
	switch {
	case err == nil:
		l.logger.Debug("loaded config", slog.String("path", path))
		config.Merge(fileConfig)
	case errors.Is(err, os.ErrNotExist) && explicitPath == "":
		l.logger.Debug("no project config found")
	default:
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
