package commands

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pterm/pterm"

	"github.com/teranos/contractor/logger"
	"github.com/teranos/contractor/typegen"
)

// printSummary prints the end-of-run table. Per-file lines appear from -v upwards.
func printSummary(result *typegen.Result) {
	verbosity := logger.Verbosity
	if logger.JSONOutput {
		return
	}
	outputDir := result.Output

	written := result.Written()
	removed := result.Removed()
	failed := result.Failed()

	if logger.ShouldOutput(verbosity, logger.OutputFiles) {
		for _, path := range written {
			pterm.Printf("  %s %s\n", pterm.LightGreen("✓"), relative(outputDir, path))
		}
	}
	if logger.ShouldOutput(verbosity, logger.OutputCleaning) {
		for _, path := range removed {
			pterm.Printf("  %s %s\n", pterm.Gray("-"), relative(outputDir, path))
		}
	}

	failedPaths := make([]string, 0, len(failed))
	for path := range failed {
		failedPaths = append(failedPaths, path)
	}
	sort.Strings(failedPaths)
	for _, path := range failedPaths {
		pterm.Printf("  %s %s: %v\n", pterm.Red("✗"), relative(outputDir, path), failed[path])
	}

	data := pterm.TableData{
		{"Declarations", "Clients", "Written", "Failed", "Removed"},
		{
			fmt.Sprint(result.Declarations),
			fmt.Sprint(result.Clients),
			fmt.Sprint(len(written)),
			fmt.Sprint(len(failed)),
			fmt.Sprint(len(removed)),
		},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	if len(failed) > 0 {
		pterm.Warning.Printf("%d files were locked by another process and were not written\n", len(failed))
		return
	}
	pterm.Success.Printf("Generated %s\n", outputDir)
}

func relative(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
