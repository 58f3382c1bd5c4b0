package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/contractor/cmd/contractor/commands"
	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/logger"
)

var rootCmd = &cobra.Command{
	Use:   "contractor",
	Short: "Generate TypeScript declarations and API clients from a type graph",
	Long: `contractor turns a language-neutral type graph into TypeScript.

Every declarable type becomes one module under the output directory, with
imports computed from the module layout. Controllers in the graph become
API client classes rendered from a template.

Available commands:
  generate - Generate declarations and clients
  check    - Report whether generated files are up to date
  init     - Write a default contractor.toml
  config   - Show the effective configuration
  version  - Show version information

Examples:
  contractor generate --input graph.json --output src/api
  contractor generate --clients --template react-axios --watch
  contractor check                 # non-zero exit when out of date`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.Debugw("Logger initialized", "verbosity", logger.LevelName(verbosity))
		if logger.ShouldLogTrace(verbosity) {
			logger.Debugw("Output categories", "enabled", logger.EnabledCategories(verbosity))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit logs as JSON on stderr")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err == nil {
		return
	}

	if !errors.Is(err, commands.ErrOutOfDate) {
		pterm.Error.Println(err.Error())
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "%s %s\n", pterm.Yellow("hint:"), hint)
		}
	}
	os.Exit(1)
}
