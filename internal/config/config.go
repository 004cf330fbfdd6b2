// Package config loads ci-envs settings from defaults, an optional YAML
// file and CI_ENVS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/shinji-kodama/ci-envs/internal/model"
)

// DefaultFileName is looked up in the working directory when no config
// file is given explicitly.
const DefaultFileName = ".ci-envs.yaml"

// EnvPrefix namespaces the environment variables that override config
// keys, e.g. CI_ENVS_PREFIX or CI_ENVS_GIT_FALLBACK.
const EnvPrefix = "CI_ENVS"

// Config keys.
const (
	KeyPrefix      = "prefix"
	KeyFormat      = "format"
	KeyEventPath   = "event_path"
	KeyGitFallback = "git_fallback"
	KeyGitDir      = "git_dir"
)

// Config represents the ci-envs configuration.
type Config struct {
	// Prefix is prepended to every exported variable name.
	Prefix string `mapstructure:"prefix"`

	// Format is the output format. Empty means "the command's default".
	Format string `mapstructure:"format"`

	// EventPath overrides GITHUB_EVENT_PATH.
	EventPath string `mapstructure:"event_path"`

	// GitFallback fills missing GITHUB_SHA, GITHUB_REF and
	// GITHUB_REPOSITORY from the local working copy.
	GitFallback bool `mapstructure:"git_fallback"`

	// GitDir is the working copy used by the git fallback.
	GitDir string `mapstructure:"git_dir"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		Prefix: model.DefaultPrefix,
	}
}

// New returns a viper instance with defaults and environment bindings
// registered. The CLI binds its flags to the same instance before
// calling Load.
func New() *viper.Viper {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault(KeyPrefix, defaults.Prefix)
	v.SetDefault(KeyFormat, defaults.Format)
	v.SetDefault(KeyEventPath, defaults.EventPath)
	v.SetDefault(KeyGitFallback, defaults.GitFallback)
	v.SetDefault(KeyGitDir, defaults.GitDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file into v and decodes the result.
//
// When path is empty, DefaultFileName in the working directory is used if
// it exists; a missing default file is not an error. An explicit path that
// does not exist is. Every failure is a CLIError with ExitConfigError.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			path = DefaultFileName
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("failed to read config %s", path), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "invalid config", err)
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	var errs []error
	if err := model.ValidatePrefix(c.Prefix); err != nil {
		errs = append(errs, err)
	}
	if c.Format != "" {
		if _, err := model.ParseOutputFormat(c.Format); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OutputFormat returns the configured format, or fallback when unset.
// Call Validate first; an invalid format also yields fallback.
func (c *Config) OutputFormat(fallback model.OutputFormat) model.OutputFormat {
	if c.Format == "" {
		return fallback
	}
	format, err := model.ParseOutputFormat(c.Format)
	if err != nil {
		return fallback
	}
	return format
}
