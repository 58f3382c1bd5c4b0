package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/errors"
)

// ConfigCmd inspects the effective configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and validate the effective configuration",
	Long: `Display the configuration after merging defaults, the nearest
contractor.toml, CONTRACTOR_* environment variables and flags.

Examples:
  contractor config show
  contractor config show --format yaml
  contractor config validate`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE:  runConfigValidate,
}

func init() {
	addConfigFlags(configShowCmd)
	configShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")
	addConfigFlags(configValidateCmd)

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	data, err := marshalConfig(cfg, format)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Printf("# loaded from %s\n", path)
	}
	fmt.Print(string(data))
	return nil
}

func marshalConfig(cfg *config.Config, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to JSON")
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to YAML")
		}
		return data, nil
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to TOML")
		}
		return data, nil
	default:
		return nil, errors.NewConfigurationError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Println("✓ Configuration is valid")
	return nil
}
