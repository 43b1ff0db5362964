package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	// DirName is the name of the config directory inside $HOME.
	DirName = ".pipesh"
)

const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configurationDir string
	configFs         afero.Fs

	Prompt      string `json:"prompt" validate:"required"`
	Color       string `json:"color" validate:"oneof=always auto never"`
	ClearScreen bool   `json:"clear_screen"`

	HistoryFile  string `json:"history_file"`
	HistoryLimit int    `json:"history_limit" validate:"gte=0"`

	EventLog string `json:"event_log"`
	LogLevel string `json:"log_level" validate:"oneof=debug info warn error"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// DefaultDir returns the config directory for a user's home directory.
func DefaultDir(home string) string {
	return filepath.Join(home, DirName)
}

// Dir returns the directory the configuration was loaded from.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// HistoryPath is the OS path of the line history, empty if disabled.
func (c *Configuration) HistoryPath() string {
	if c.HistoryFile == "" {
		return ""
	}
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	return filepath.Join(c.configurationDir, c.HistoryFile)
}

// EventLogEnabled is true if events should be recorded.
func (c *Configuration) EventLogEnabled() bool {
	return c.EventLog != ""
}

// OpenEventLog opens the event log in an append only state, creating the
// config directory if needed.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if err := c.fs().MkdirAll(filepath.Dir(c.EventLog), 0700); err != nil {
		return nil, err
	}
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Ephemeral returns the default configuration with nothing persisted: no
// history and no event log.
func Ephemeral() *Configuration {
	out := defaultConfig()
	out.configFs = afero.NewMemMapFs()
	out.HistoryFile = ""
	out.EventLog = ""
	return out
}

// DefaultConfigData returns the contents of the default config.yaml.
func DefaultConfigData() []byte {
	out := make([]byte, len(defaultConfigData))
	copy(out, defaultConfigData)
	return out
}
