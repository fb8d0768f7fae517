package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/lintsweep/internal/models"
)

// FileLogger logs sweep events to files in the .lintsweep/logs/ directory.
// It creates a timestamped log file per run and maintains a latest.log
// symlink pointing to the most recent run.
// It is thread-safe and implements the executor.Logger interface.
// It supports log level filtering to control message verbosity.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLoggerWithDirAndLevel creates a new FileLogger with a custom log directory and log level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Generate timestamped filename: run-YYYYMMDD-HHMMSS.log
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== lintsweep Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the current run log.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

// shouldLog checks if a message at the given level should be logged.
func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogSweepStart logs the root, eligible file count and linter concurrency at INFO level.
func (fl *FileLogger) LogSweepStart(root string, fileCount, capacity int) {
	fl.LogInfo(fmt.Sprintf("Sweeping %s: %s eligible, concurrency %d", root, plural(fileCount, "file"), capacity))
}

// LogFileStart logs a linter invocation at TRACE level.
func (fl *FileLogger) LogFileStart(path string) {
	fl.LogTrace(fmt.Sprintf("Linting %s", path))
}

// LogFileResult records one file's outcome. The linter's stdout and stderr
// are written verbatim at DEBUG level so the run log keeps the raw output.
func (fl *FileLogger) LogFileResult(result models.FileResult) {
	if result.Err != nil {
		fl.LogWarn(fmt.Sprintf("%s: %v", result.Path, result.Err))
		return
	}

	if !fl.shouldLog("info") {
		return
	}
	fl.LogInfo(fmt.Sprintf("%s: %s (%s, %d suppressed) in %s",
		result.Path, result.Status(), plural(result.Defects, "defect"), result.Suppressed, formatDuration(result.Duration)))

	if !fl.shouldLog("debug") {
		return
	}
	fl.LogDebug(fmt.Sprintf("%s: linter exit status %d", result.Path, result.ExitCode))
	if result.Stdout != "" {
		fl.writeRunLog(fmt.Sprintf("--- stdout %s ---\n%s\n", result.Path, strings.TrimRight(result.Stdout, "\n")))
	}
	if result.Stderr != "" {
		fl.writeRunLog(fmt.Sprintf("--- stderr %s ---\n%s\n", result.Path, strings.TrimRight(result.Stderr, "\n")))
	}
}

// LogProgress is a no-op; progress bars are console-only.
func (fl *FileLogger) LogProgress(completed, total, defects int) {}

// LogSummary logs the sweep summary with final statistics at INFO level.
func (fl *FileLogger) LogSummary(result models.SweepResult) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	status := "CLEAN"
	switch {
	case result.Failed > 0:
		status = "PARTIAL"
	case result.Defects > 0:
		status = "DEFECTS"
	}

	message := fmt.Sprintf(
		"\n[%s] === SWEEP SUMMARY ===\n"+
			"[%s] Run ID:       %s\n"+
			"[%s] Root:         %s\n"+
			"[%s] Output file:  %s\n"+
			"[%s] Files:        %d\n"+
			"[%s] Defects:      %d\n"+
			"[%s] Suppressed:   %d\n"+
			"[%s] Failed:       %d\n"+
			"[%s] Total time:   %s\n"+
			"[%s] Status:       %s\n"+
			"[%s] Completed at: %s\n",
		ts,
		ts, result.RunID,
		ts, result.Root,
		ts, result.OutputFile,
		ts, result.TotalFiles(),
		ts, result.Defects,
		ts, result.Suppressed,
		ts, result.Failed,
		ts, formatDuration(result.Duration),
		ts, status,
		ts, time.Now().Format(time.RFC3339),
	)

	for _, f := range result.FailedFiles() {
		message += fmt.Sprintf("[%s]   - %s: %v\n", ts, f.Path, f.Err)
	}

	fl.writeRunLog(message)
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
