package config

import "github.com/spf13/viper"

// File and directory permissions
const (
	DefaultFilePermissions = 0644
	DefaultDirPermissions  = 0755
)

// ConfigFileName is the project configuration file searched for upward from the working directory
const ConfigFileName = "contractor.toml"

// EnvPrefix is the environment variable prefix (CONTRACTOR_OUTPUT, CONTRACTOR_CLIENTS_ENABLED, ...)
const EnvPrefix = "CONTRACTOR"

// Default values
const (
	DefaultOutput        = "api"
	DefaultCasing        = "kebab"
	DefaultClean         = CleanSmart
	DefaultWorkers       = 4
	DefaultLineEnding    = LineEndingPlatform
	DefaultClientsFolder = "clients"
	DefaultTemplate      = TemplateAurelia
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("root", "")
	v.SetDefault("casing", DefaultCasing)
	v.SetDefault("clean", DefaultClean)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("line_ending", DefaultLineEnding)
	v.SetDefault("index", false)
	v.SetDefault("replacements", []string{})
	v.SetDefault("strip", []string{})
	v.SetDefault("type_maps", []string{})
	v.SetDefault("name_overrides", []string{})

	v.SetDefault("schemas.enabled", false)

	v.SetDefault("clients.enabled", false)
	v.SetDefault("clients.template", DefaultTemplate)
	v.SetDefault("clients.folder", DefaultClientsFolder)
}

// Default returns a Config populated only from defaults
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always decode; a failure here is a programming error
		panic(err)
	}
	return cfg
}
