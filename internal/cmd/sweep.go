package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harrison/lintsweep/internal/config"
	"github.com/harrison/lintsweep/internal/executor"
	"github.com/harrison/lintsweep/internal/fileutil"
	"github.com/harrison/lintsweep/internal/history"
	"github.com/harrison/lintsweep/internal/linter"
	"github.com/harrison/lintsweep/internal/logger"
	"github.com/harrison/lintsweep/internal/models"
	"github.com/harrison/lintsweep/internal/report"
)

// ruleWidth is the width of the separator printed before the total.
const ruleWidth = 100

// runSweep implements the root command: walk, lint, aggregate, report.
func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	out := cmd.OutOrStdout()

	logLevel := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}
	consoleLog := logger.NewConsoleLogger(cmd.ErrOrStderr(), logLevel)

	fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, logLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()
	consoleLog.LogDebug(fmt.Sprintf("Run log: %s", fileLog.RunFile()))

	log := &multiLogger{
		loggers: []executor.Logger{newConsoleReporter(out), consoleLog, fileLog},
		warners: []warner{consoleLog, fileLog},
	}

	fmt.Fprintf(out, "looking for *%s scripts in subdirectories of %s\n", cfg.Suffix, root)

	filter := fileutil.NewPathFilter(cfg.Suffix, cfg.ExcludeFiles, cfg.ExcludeDirs)
	scan, err := fileutil.Walk(root, filter)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}
	for _, scanErr := range scan.Errors {
		log.LogWarn(fmt.Sprintf("skipping unreadable entry: %v", scanErr))
	}

	result := models.SweepResult{
		RunID:      uuid.NewString(),
		Root:       root,
		OutputFile: cfg.OutputFile,
		StartedAt:  time.Now(),
	}
	gate := executor.NewGate(cfg.Concurrency, cfg.SpawnRate)
	log.LogSweepStart(root, len(scan.Files), gate.Capacity())

	invoker := linter.NewInvoker(cfg.Linter.Command, cfg.Linter.Args...)
	invoker.Timeout = cfg.Timeout

	// The lock lives under .lintsweep so the scanned tree only gains the output file.
	aggregator := report.NewAggregator(cfg.OutputFile, cfg.Suppress).
		WithEcho(out).
		WithSortedOutput(cfg.SortOutput).
		WithLockFile(lockPath(cfg.OutputFile))

	sweeper := executor.NewSweeper(invoker, gate, aggregator, log)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	stopSignals := cancelOnSignal(ctx, cancel, cmd.ErrOrStderr())
	defer stopSignals()

	files, err := sweeper.Sweep(ctx, scan.Files)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	totals, err := aggregator.Aggregate(files)
	if err != nil {
		return err
	}

	result.Files = files
	result.Defects = totals.Defects
	result.Suppressed = totals.Suppressed
	result.Failed = totals.Failed
	result.Duration = time.Since(result.StartedAt)

	if cfg.History.Enabled {
		if err := recordHistory(ctx, cfg.History.DBPath, result); err != nil {
			log.LogWarn(fmt.Sprintf("failed to record sweep history: %v", err))
		}
	}

	log.LogSummary(result)

	fmt.Fprintln(out, "Done linting!")
	fmt.Fprintln(out, strings.Repeat("=", ruleWidth))
	fmt.Fprintf(out, "%d errors found\n", result.Defects)

	return nil
}

// loadConfig reads the config file, applies CLI overrides and validates.
// A positional argument names the output file and beats --config values.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var flags config.Flags
	if cmd.Flags().Changed("concurrency") {
		v, _ := cmd.Flags().GetInt("concurrency")
		flags.Concurrency = &v
	}
	if cmd.Flags().Changed("timeout") {
		v, _ := cmd.Flags().GetDuration("timeout")
		flags.Timeout = &v
	}
	if cmd.Flags().Changed("linter") {
		v, _ := cmd.Flags().GetString("linter")
		flags.Linter = &v
	}
	if cmd.Flags().Changed("log-dir") {
		v, _ := cmd.Flags().GetString("log-dir")
		flags.LogDir = &v
	}
	if cmd.Flags().Changed("sort") {
		v, _ := cmd.Flags().GetBool("sort")
		flags.SortOutput = &v
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		disabled := false
		flags.History = &disabled
	}
	if len(args) > 0 {
		flags.OutputFile = &args[0]
	}

	cfg.MergeWithFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// cancelOnSignal cancels the sweep on SIGINT or SIGTERM so running linters
// are killed instead of orphaned. The returned func stops signal delivery.
func cancelOnSignal(ctx context.Context, cancel context.CancelFunc, w io.Writer) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(w, "\nReceived interrupt signal, stopping linters...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return func() { signal.Stop(sigChan) }
}

// lockPath places the append lock for outputFile in the .lintsweep directory.
func lockPath(outputFile string) string {
	return filepath.Join(config.HomeDirName, filepath.Base(outputFile)+".lock")
}

func recordHistory(ctx context.Context, dbPath string, result models.SweepResult) error {
	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordSweep(ctx, result)
	return err
}
