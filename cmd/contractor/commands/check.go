package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/typegen/pipeline"
)

// ErrOutOfDate is returned by check when the output directory differs from a fresh run
var ErrOutOfDate = errors.New("generated files are out of date")

// CheckCmd checks if generated files are up to date
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if generated files are up to date",
	Long: `Generate into a temporary directory and compare the result with the
existing output directory. Nothing in the output directory is modified.

Exit codes:
  0 - Files are up to date
  1 - Files are out of date, or the check failed

Examples:
  contractor check
  contractor check -i graph.json -o src/api`,
	RunE: runCheck,
}

func init() {
	addConfigFlags(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	drift, err := pipeline.Check(contextOf(cmd), cfg)
	if err != nil {
		return errors.Wrap(err, "check failed")
	}

	if drift.UpToDate() {
		pterm.Success.Println("Generated files are up to date")
		return nil
	}

	pterm.Error.Println("Generated files are out of date")
	for _, group := range []struct {
		label string
		files []string
	}{
		{"changed", drift.Changed},
		{"missing", drift.Missing},
		{"stale", drift.Stale},
	} {
		for _, file := range group.files {
			pterm.Printf("  %s %s\n", pterm.Yellow(group.label+":"), file)
		}
	}
	pterm.Info.Println("Run 'contractor generate' to update")
	return ErrOutOfDate
}
