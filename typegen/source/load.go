package source

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/contractor/errors"
)

// Format is a graph document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath selects the document format by file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.WithHint(
		errors.NewConfigurationError("unsupported graph document %s", path),
		"use a .json, .yaml, .yml or .toml file",
	)
}

// Load reads and parses a graph document, checking its version
func Load(path string) (*Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read graph document %s", path)
	}

	g, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return g, nil
}

// Parse decodes a graph document and checks its version against SupportedVersions
func Parse(data []byte, format Format) (*Graph, error) {
	var g Graph

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&g); err != nil {
			return nil, errors.Wrap(errors.WithSecondaryError(errors.ErrInvalidGraph, err), "invalid JSON graph")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &g); err != nil {
			return nil, errors.Wrap(errors.WithSecondaryError(errors.ErrInvalidGraph, err), "invalid YAML graph")
		}
	case FormatTOML:
		// TOML tables decode generically, then share the JSON field mapping
		var raw map[string]interface{}
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, errors.Wrap(errors.WithSecondaryError(errors.ErrInvalidGraph, err), "invalid TOML graph")
		}
		buf, err := json.Marshal(raw)
		if err != nil {
			return nil, errors.Wrap(err, "failed to re-encode TOML graph")
		}
		if err := json.Unmarshal(buf, &g); err != nil {
			return nil, errors.Wrap(errors.WithSecondaryError(errors.ErrInvalidGraph, err), "invalid TOML graph")
		}
	default:
		return nil, errors.NewConfigurationError("unknown graph format %q", format)
	}

	if err := CheckVersion(g.Version); err != nil {
		return nil, err
	}

	g.normalize()
	g.reindex()
	return &g, nil
}

// UnmarshalJSON accepts either the object form or the string shorthand (see ParseRef)
func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = *ParseRef(s)
		return nil
	}

	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

// UnmarshalYAML accepts either the mapping form or the string shorthand (see ParseRef)
func (r *Ref) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*r = *ParseRef(value.Value)
		return nil
	}

	type plain Ref
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}
