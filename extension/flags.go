// flags.go defines constants for all CLI flag names.
//
// Using constants instead of string literals prevents typos and enables
// compile-time checking when flag names are used in both Flags().Type()
// definitions and GetType() calls.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "bib-tool" -> FlagBibTool).

package extension

// Flag name constants for CLI commands.
const (
	// Boolean flags

	FlagAll    = "all"    // Include all working directories
	FlagClean  = "clean"  // Remove auxiliary files after success
	FlagFailed = "failed" // Only failed runs
	FlagLocal  = "local"  // Use local scope
	FlagLog    = "log"    // Include compiler output

	// String flags

	FlagBibliography = "bibliography" // .bib file for manual mode
	FlagBibTool      = "bib-tool"     // bibtex or biber
	FlagCompiler     = "compiler"     // Engine
	FlagHTTP         = "http"         // Listen address for streamable HTTP
	FlagMerge        = "merge"        // Agent config file to merge into
	FlagMode         = "mode"         // auto or manual
	FlagOlderThan    = "older-than"   // Duration threshold
	FlagOption       = "option"       // Extra engine flag (repeatable)
	FlagTimeout      = "timeout"      // Compile time limit
	FlagImage        = "image"        // Container image reference

	// Integer flags

	FlagLimit  = "limit"  // Limit number of results
	FlagPasses = "passes" // Manual-mode engine runs
)
