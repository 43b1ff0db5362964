package config

import (
	"io/fs"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. A directory without a
// config.yaml yields the defaults.
func Load(path string) (*Configuration, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is Load on an arbitrary filesystem.
func LoadFs(fsys afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}
	// BasePathFs rejects every name under a relative base.
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	out := defaultConfig()
	out.configurationDir = path
	out.configFs = afero.NewBasePathFs(fsys, path)

	configContents, err := afero.ReadFile(out.configFs, ConfigurationName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Use the defaults.
	case err != nil:
		return nil, errors.Wrapf(err, "reading %s", filepath.Join(path, ConfigurationName))
	default:
		if err := yaml.UnmarshalStrict(configContents, out); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", filepath.Join(path, ConfigurationName))
		}
	}

	if err := out.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return out, nil
}
