package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for lintsweep.
// Running it without a subcommand sweeps the current directory.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lintsweep [output-file]",
		Short: "Run golint over every Go file in a directory tree",
		Long: `lintsweep walks the current directory, runs the configured linter
(golint by default) on every eligible Go file with bounded concurrency,
appends the linter output to a log file and reports the number of
defects found.

Files under vendor/ and files named bigquery.go are skipped by default.
Diagnostics containing "don't use ALL_CAPS" are written to the log but
not counted.

Configuration is loaded from .lintsweep/config.yaml if present. Run logs,
the history database and the output file's append lock are kept under
.lintsweep/ as well.
CLI flags override configuration file settings.

Examples:
  lintsweep                      # Append to golint.log
  lintsweep lint-report.txt      # Append to lint-report.txt
  lintsweep --concurrency 8      # Allow 8 linter processes at once
  lintsweep --timeout 30s        # Give up on a file after 30 seconds
  lintsweep --sort --verbose     # Path-ordered output, detailed logging
  lintsweep history --limit 5    # Show the last five sweeps`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runSweep,
		// main prints the returned error once; cobra must not print it too
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .lintsweep/config.yaml)")
	cmd.Flags().Int("concurrency", 0, "Maximum number of concurrent linter processes (default from config: 4)")
	cmd.Flags().String("linter", "", "Linter command to run on each file (default from config: golint)")
	cmd.Flags().Duration("timeout", 0, "Per-file linter timeout, e.g. 30s (0 = no timeout)")
	cmd.Flags().String("log-dir", "", "Directory for run log files")
	cmd.Flags().Bool("verbose", false, "Show per-file results and progress")
	cmd.Flags().Bool("sort", false, "Write linter output ordered by file path")
	cmd.Flags().Bool("no-history", false, "Do not record this sweep in the history database")

	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
