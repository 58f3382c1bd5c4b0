package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/contractor/errors"
)

// Load reads the configuration from the nearest contractor.toml (if any),
// environment variables and defaults, in increasing order of precedence:
// defaults < project file < env vars. Flags bound by the caller win over all.
func Load() (*Config, *viper.Viper, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path searches upward
// from the working directory.
func LoadFrom(configPath string) (*Config, *viper.Viper, error) {
	v := NewViper()
	if configPath == "" {
		configPath = FindProjectConfig()
	}
	if configPath != "" {
		if err := mergeConfigFile(v, configPath); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// NewViper returns a Viper instance with defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()

	// Set up environment variable binding
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// LoadWithViper decodes configuration from a prepared Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(errors.WithSecondaryError(errors.ErrConfiguration, err), "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if err := mergeConfigFile(v, configPath); err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// FindProjectConfig searches for contractor.toml by walking up the directory tree
// Returns the path to the first config file found, or empty string if none found
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(dir)
}

func findConfigFrom(dir string) string {
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			break
		}
		dir = parent
	}
	return ""
}

// mergeConfigFile reads a TOML file into a temporary Viper and merges its settings
// into the config layer, so env vars and bound flags still take precedence.
// Relative input/output paths are resolved against the config file's directory.
func mergeConfigFile(v *viper.Viper, configPath string) error {
	tempViper := viper.New()
	tempViper.SetConfigFile(configPath)
	tempViper.SetConfigType("toml")

	if err := tempViper.ReadInConfig(); err != nil {
		return errors.WithHint(
			errors.Wrapf(errors.WithSecondaryError(errors.ErrConfiguration, err), "failed to read config file %s", configPath),
			"check the TOML syntax of the file",
		)
	}

	settings := tempViper.AllSettings()
	base := filepath.Dir(configPath)
	for _, key := range []string{"input", "output"} {
		if s, ok := settings[key].(string); ok && s != "" && !filepath.IsAbs(s) {
			settings[key] = filepath.Join(base, s)
		}
	}

	if err := v.MergeConfigMap(settings); err != nil {
		return errors.Wrapf(errors.WithSecondaryError(errors.ErrConfiguration, err), "failed to merge config file %s", configPath)
	}
	return nil
}
