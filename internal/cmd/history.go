package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/lintsweep/internal/config"
	"github.com/harrison/lintsweep/internal/history"
)

// NewHistoryCommand creates the 'lintsweep history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded sweeps",
		Long: `Display recent sweeps recorded in the history database, newest first.

With --run, display the per-file results of a single sweep instead.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .lintsweep/config.yaml)")
	cmd.Flags().Int("limit", 10, "Maximum number of sweeps to show")
	cmd.Flags().String("run", "", "Show per-file results for this run ID")

	return cmd
}

// runHistory executes the history command
func runHistory(cmd *cobra.Command, args []string) error {
	output := cmd.OutOrStdout()

	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := os.Stat(cfg.History.DBPath); os.IsNotExist(err) {
		fmt.Fprintln(output, "No sweep history found.")
		return nil
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		return showRun(ctx, cmd, store, runID)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("get recent runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(output, "No sweep history found.")
		return nil
	}

	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	cyan.Fprintf(output, "%-36s  %-19s  %6s  %7s  %6s  %8s\n", "RUN ID", "STARTED", "FILES", "DEFECTS", "FAILED", "DURATION")
	for _, r := range runs {
		defects := green.Sprintf("%7d", r.Defects)
		if r.Defects > 0 {
			defects = yellow.Sprintf("%7d", r.Defects)
		}
		failed := fmt.Sprintf("%6d", r.Failed)
		if r.Failed > 0 {
			failed = red.Sprintf("%6d", r.Failed)
		}
		fmt.Fprintf(output, "%-36s  %-19s  %6d  %s  %s  %8s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Files,
			defects,
			failed,
			r.Duration.Round(time.Millisecond),
		)
	}

	return nil
}

// showRun prints the per-file results of one sweep
func showRun(ctx context.Context, cmd *cobra.Command, store *history.Store, runID string) error {
	output := cmd.OutOrStdout()

	records, err := store.FileResults(ctx, runID)
	if err != nil {
		return fmt.Errorf("get file results: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintf(output, "No files recorded for run %s\n", runID)
		return nil
	}

	fmt.Fprintf(output, "Run %s: %d files\n\n", runID, len(records))
	for _, rec := range records {
		if rec.ErrorMessage != "" {
			fmt.Fprintf(output, "  %s  %s\n", color.RedString("FAILED "), rec.Path)
			fmt.Fprintf(output, "           %s\n", rec.ErrorMessage)
			continue
		}
		status := color.GreenString("CLEAN  ")
		if rec.Defects > 0 {
			status = color.YellowString("DEFECTS")
		}
		line := fmt.Sprintf("  %s  %s (%d defects, %d suppressed)", status, rec.Path, rec.Defects, rec.Suppressed)
		if rec.ExitCode != 0 {
			line += fmt.Sprintf(" exit status %d", rec.ExitCode)
		}
		fmt.Fprintln(output, line)
	}

	return nil
}
