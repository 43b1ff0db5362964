package config

import (
	"log"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Initialize writes the default configuration to dir, leaving an existing
// config.yaml alone, then loads it.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	return InitializeFs(afero.NewOsFs(), dir, logger)
}

// InitializeFs is Initialize on an arbitrary filesystem.
func InitializeFs(fsys afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	if err := fsys.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}

	configPath := filepath.Join(dir, ConfigurationName)
	exists, err := afero.Exists(fsys, configPath)
	switch {
	case err != nil:
		return nil, err
	case exists:
		logger.Printf("%s already exists, skipping", configPath)
	default:
		logger.Printf("Writing default config to %s", configPath)
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
			return nil, errors.Wrapf(err, "writing %s", configPath)
		}
	}

	return LoadFs(fsys, dir)
}
