package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/logger"
)

// configFlags maps command-line flags to configuration keys.
// A flag only overrides the file and environment when it is set explicitly.
var configFlags = map[string]string{
	"input":          "input",
	"output":         "output",
	"root":           "root",
	"casing":         "casing",
	"clean":          "clean",
	"workers":        "workers",
	"line-ending":    "line_ending",
	"index":          "index",
	"replace":        "replacements",
	"strip":          "strip",
	"type-map":       "type_maps",
	"name-override":  "name_overrides",
	"schemas":        "schemas.enabled",
	"clients":        "clients.enabled",
	"template":       "clients.template",
	"clients-folder": "clients.folder",
}

// addConfigFlags registers the configuration flags shared by generate and check
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("config", "c", "", "Config file (default: nearest "+config.ConfigFileName+")")
	f.StringP("input", "i", "", "Graph document (.json, .yaml, .yml, .toml)")
	f.StringP("output", "o", config.DefaultOutput, "Output directory")
	f.String("root", "", "Import root marker for client imports, e.g. ~")
	f.String("casing", config.DefaultCasing, "File name casing: pascal, camel, kebab, snake")
	f.String("clean", config.DefaultClean, "Stale file handling: none, smart, remove")
	f.Int("workers", config.DefaultWorkers, "Files rendered in parallel")
	f.String("line-ending", config.DefaultLineEnding, "Line endings: lf, crlf, platform")
	f.Bool("index", false, "Write a barrel index.ts")
	f.StringSlice("replace", nil, "Namespace replacement <search>:<replace> (repeatable, ordered)")
	f.StringSlice("strip", nil, "Namespace prefix to strip (repeatable, first match wins)")
	f.StringSlice("type-map", nil, "Literal type mapping <full name>:<typescript> (repeatable)")
	f.StringSlice("name-override", nil, "Identity override <full name>:<folder/Name> (repeatable)")
	f.Bool("schemas", false, "Emit zod schemas")
	f.Bool("clients", false, "Generate API clients")
	f.String("template", config.DefaultTemplate, "Client template: aurelia, react-axios or a file path")
	f.String("clients-folder", config.DefaultClientsFolder, "Output subfolder for clients")
}

// loadConfig loads the configuration file and environment, then applies explicit flags.
// It also returns the config file in use, if any.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.FindProjectConfig()
	}

	_, v, err := config.LoadFrom(path)
	if err != nil {
		return nil, "", err
	}
	if err := bindFlags(cmd, v); err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return nil, "", err
	}
	if logger.Enabled(logger.OutputConfig) {
		logger.Debugw("Configuration loaded", logger.FieldPath, path, logger.FieldOutput, cfg.Output)
	}
	return cfg, path, nil
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for flag, key := range configFlags {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return errors.Wrapf(err, "failed to bind --%s", flag)
		}
	}
	return nil
}
