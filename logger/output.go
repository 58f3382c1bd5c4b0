package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Run summary and errors
//	1 (-v)      - + Each written file, cleaned files
//	2 (-vv)     - + Resolution rules taken, imports computed, config loaded
//	3 (-vvv)    - + Client render models
//	4 (-vvvv)   - + Full generated text

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputSummary OutputCategory = iota // End-of-run summary table
	OutputErrors                        // Errors with hints

	// Level 1 (-v) - Informational
	OutputFiles    // One line per written file
	OutputCleaning // Stale files removed from the output directory

	// Level 2 (-vv) - Detailed
	OutputResolution // Resolver rule decisions
	OutputImports    // Import statements computed per declaration
	OutputConfig     // Config values loaded/applied

	// Level 3 (-vvv) - Debug
	OutputRenderModel // Client render model dumps

	// Level 4 (-vvvv) - Full dump
	OutputGeneratedText // Full generated file contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputSummary: VerbosityUser,
	OutputErrors:  VerbosityUser,

	OutputFiles:    VerbosityInfo,
	OutputCleaning: VerbosityInfo,

	OutputResolution: VerbosityDebug,
	OutputImports:    VerbosityDebug,
	OutputConfig:     VerbosityDebug,

	OutputRenderModel: VerbosityTrace,

	OutputGeneratedText: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

// Enabled reports whether category is shown at the verbosity passed to Initialize
func Enabled(category OutputCategory) bool {
	return ShouldOutput(Verbosity, category)
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputSummary:       "summary",
	OutputErrors:        "errors",
	OutputFiles:         "files",
	OutputCleaning:      "cleaning",
	OutputResolution:    "resolution",
	OutputImports:       "imports",
	OutputConfig:        "config",
	OutputRenderModel:   "render-model",
	OutputGeneratedText: "generated-text",
}

// EnabledCategories lists the names of the categories shown at verbosity, in declaration order
func EnabledCategories(verbosity int) []string {
	var names []string
	for c := OutputSummary; c <= OutputGeneratedText; c++ {
		if ShouldOutput(verbosity, c) {
			names = append(names, CategoryName(c))
		}
	}
	return names
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
