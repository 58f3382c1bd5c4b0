package config

import (
	"os"
	"strings"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/typegen/util"
)

// Validate checks that the configuration is valid.
// Every failure is a configuration error, reported before any file is written.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.WithHint(errors.NewConfigurationError("input cannot be empty"),
			"pass --input or set input in contractor.toml")
	}
	if c.Output == "" {
		return errors.NewConfigurationError("output cannot be empty")
	}

	if _, err := util.ParseCasing(c.Casing); err != nil {
		return err
	}

	switch c.Clean {
	case CleanNone, CleanSmart, CleanRemove:
	default:
		return errors.WithHint(errors.NewConfigurationError("unknown clean method %q", c.Clean),
			"valid clean methods are none, smart and remove")
	}

	switch c.LineEnding {
	case LineEndingLF, LineEndingCRLF, LineEndingPlatform:
	default:
		return errors.NewConfigurationError("unknown line_ending %q (want lf, crlf or platform)", c.LineEnding)
	}

	// Workers: zero means zero, and zero workers would never emit anything
	if c.Workers < 1 {
		return errors.NewConfigurationError("workers must be >= 1, got %d", c.Workers)
	}

	for _, list := range []struct {
		key   string
		items []string
	}{
		{"replacements", c.Replacements},
		{"type_maps", c.TypeMaps},
		{"name_overrides", c.NameOverrides},
	} {
		for _, item := range list.items {
			if _, _, err := SplitPair(item); err != nil {
				return errors.Wrapf(err, "%s", list.key)
			}
		}
	}

	if err := c.validateTemplate(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateTemplate() error {
	if c.Clients.Template == "" || IsBuiltinTemplate(strings.ToLower(c.Clients.Template)) {
		return nil
	}
	if !c.Clients.Enabled {
		return errors.WithHint(
			errors.NewConfigurationError("clients.template %q has no effect unless clients are enabled", c.Clients.Template),
			"set clients.enabled = true or remove clients.template",
		)
	}
	if _, err := os.Stat(c.Clients.Template); err != nil {
		return errors.WithHint(
			errors.NewConfigurationError("client template %s does not exist or is not readable", c.Clients.Template),
			"use aurelia, react-axios or a path to a template file including its extension",
		)
	}
	return nil
}

// SplitPair splits a "<left>:<right>" configuration entry at its first colon
func SplitPair(item string) (string, string, error) {
	left, right, ok := strings.Cut(item, ":")
	if !ok || left == "" {
		return "", "", errors.NewConfigurationError("entry %q must have the form <from>:<to>", item)
	}
	return left, right, nil
}

// Pairs splits every entry of a "<left>:<right>" list, preserving order
func Pairs(items []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(items))
	for _, item := range items {
		left, right, err := SplitPair(item)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, [2]string{left, right})
	}
	return pairs, nil
}
