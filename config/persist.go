package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/logger"
)

// fileConfig mirrors Config with toml tags for writing
type fileConfig struct {
	Input         string   `toml:"input"`
	Output        string   `toml:"output"`
	Root          string   `toml:"root,omitempty"`
	Casing        string   `toml:"casing"`
	Clean         string   `toml:"clean"`
	Workers       int      `toml:"workers"`
	LineEnding    string   `toml:"line_ending"`
	Index         bool     `toml:"index"`
	Replacements  []string `toml:"replacements"`
	Strip         []string `toml:"strip"`
	TypeMaps      []string `toml:"type_maps"`
	NameOverrides []string `toml:"name_overrides"`

	Schemas struct {
		Enabled bool `toml:"enabled"`
	} `toml:"schemas"`
	Clients struct {
		Enabled  bool   `toml:"enabled"`
		Template string `toml:"template"`
		Folder   string `toml:"folder"`
	} `toml:"clients"`
}

func toFileConfig(c *Config) fileConfig {
	fc := fileConfig{
		Input:         c.Input,
		Output:        c.Output,
		Root:          c.Root,
		Casing:        c.Casing,
		Clean:         c.Clean,
		Workers:       c.Workers,
		LineEnding:    c.LineEnding,
		Index:         c.Index,
		Replacements:  nonNil(c.Replacements),
		Strip:         nonNil(c.Strip),
		TypeMaps:      nonNil(c.TypeMaps),
		NameOverrides: nonNil(c.NameOverrides),
	}
	fc.Schemas.Enabled = c.Schemas.Enabled
	fc.Clients.Enabled = c.Clients.Enabled
	fc.Clients.Template = c.Clients.Template
	fc.Clients.Folder = c.Clients.Folder
	return fc
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Save writes the configuration as TOML, rotating up to three backups of an existing file
func Save(c *Config, configPath string) error {
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(toFileConfig(c))
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}
	return nil
}

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// Log deletion failures (but don't fail config save)
		logger.Warnw("Failed to delete old config backup", logger.FieldPath, back3, logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}
