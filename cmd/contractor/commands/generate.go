package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/typegen"
	"github.com/teranos/contractor/typegen/pipeline"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate TypeScript declarations and API clients",
	Long: `Generate one TypeScript module per declarable type in the graph, plus one
client module per controller when clients are enabled.

Flags override values from contractor.toml and CONTRACTOR_* environment variables.

Examples:
  contractor generate -i graph.json -o src/api
  contractor generate --strip Acme. --casing kebab --schemas
  contractor generate --clients --template ./templates/client.hbs
  contractor generate --watch          # regenerate when the graph or config changes`,
	RunE: runGenerate,
}

func init() {
	addConfigFlags(GenerateCmd)
	GenerateCmd.Flags().BoolP("watch", "w", false, "Regenerate whenever the graph document or config file changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt)
	defer stop()

	result, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "generation failed")
	}
	printSummary(result)

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		if result.HasFailures() {
			return errors.Newf("%d files could not be written", len(result.Failed()))
		}
		return nil
	}

	pterm.Info.Println("Watching for changes, press Ctrl+C to stop")
	load := func() (*config.Config, error) {
		cfg, _, err := loadConfig(cmd)
		return cfg, err
	}
	report := func(result *typegen.Result, err error) {
		if err != nil {
			pterm.Error.Println(err.Error())
			return
		}
		printSummary(result)
	}
	return pipeline.Watch(ctx, load, report, cfg.Input, configPath)
}

// contextOf returns the command context or a background context in tests
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
