package config

// Config represents the contractor generator configuration
type Config struct {
	Input         string   `mapstructure:"input"`          // Graph document (.json, .yaml, .yml, .toml)
	Output        string   `mapstructure:"output"`         // Output directory for generated files
	Root          string   `mapstructure:"root"`           // Relative-import root marker, e.g. "~" (empty = relative paths)
	Casing        string   `mapstructure:"casing"`         // File name casing: pascal, camel, kebab, snake
	Clean         string   `mapstructure:"clean"`          // Stale file handling: none, smart, remove
	Workers       int      `mapstructure:"workers"`        // Parallel emission units (>= 1)
	LineEnding    string   `mapstructure:"line_ending"`    // lf, crlf, platform
	Index         bool     `mapstructure:"index"`          // Write a barrel index.ts re-exporting every declaration
	Replacements  []string `mapstructure:"replacements"`   // Ordered "<search>:<replace>" rules applied to namespaces
	Strip         []string `mapstructure:"strip"`          // Ordered namespace prefixes to strip (first match wins)
	TypeMaps      []string `mapstructure:"type_maps"`      // "<source full name>:<typescript text>" literal mappings
	NameOverrides []string `mapstructure:"name_overrides"` // "<source full name>:<folder/path/Name>" identity overrides

	Schemas SchemasConfig `mapstructure:"schemas"`
	Clients ClientsConfig `mapstructure:"clients"`
}

// SchemasConfig configures zod validation schema output
type SchemasConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ClientsConfig configures API client generation
type ClientsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Template string `mapstructure:"template"` // aurelia, react-axios, or a path to a template file
	Folder   string `mapstructure:"folder"`   // Subfolder of output for client files
}

// Clean methods
const (
	CleanNone   = "none"
	CleanSmart  = "smart"
	CleanRemove = "remove"
)

// Line endings
const (
	LineEndingLF       = "lf"
	LineEndingCRLF     = "crlf"
	LineEndingPlatform = "platform"
)

// Built-in client template names
const (
	TemplateAurelia    = "aurelia"
	TemplateReactAxios = "react-axios"
)

// IsBuiltinTemplate reports whether name selects one of the embedded client templates
func IsBuiltinTemplate(name string) bool {
	return name == TemplateAurelia || name == TemplateReactAxios
}

// Newline returns the line terminator selected by LineEnding for the given GOOS
func (c *Config) Newline(goos string) string {
	switch c.LineEnding {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingLF:
		return "\n"
	default:
		if goos == "windows" {
			return "\r\n"
		}
		return "\n"
	}
}
