package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/errors"
)

// InitCmd writes a default configuration file
var InitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default " + config.ConfigFileName,
	Long: `Write a configuration file populated with default values.

An existing file is only replaced with --force; the previous contents are
kept as .back1, .back2 and .back3.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	InitCmd.Flags().StringP("input", "i", "", "Graph document to record in the config")
	InitCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigFileName
	if len(args) == 1 {
		path = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"pass --force to replace it (a backup is kept)",
		)
	}

	cfg := config.Default()
	cfg.Input, _ = cmd.Flags().GetString("input")
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	pterm.Success.Printf("Wrote %s\n", path)
	return nil
}
