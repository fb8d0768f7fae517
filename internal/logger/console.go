// Package logger provides logging implementations for lintsweep runs.
//
// The logger package offers structured logging of sweep progress at the file
// and summary levels. Implementations are thread-safe and support various
// output destinations (console, file, etc.).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/lintsweep/internal/models"
)

// ConsoleLogger logs sweep progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled when the writer is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a TTY that should receive colors.
// NO_COLOR (honored by fatih/color) disables colors everywhere.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
// Format: "[HH:MM:SS] [LEVEL] <message>"
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	label := level
	if cl.colorOutput {
		label = levelColor(level).Sprint(level)
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", timestamp(), label, message)
}

func levelColor(level string) *color.Color {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack)
	case "DEBUG":
		return color.New(color.FgCyan)
	case "INFO":
		return color.New(color.FgBlue)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

// LogSweepStart logs the start of a sweep at DEBUG level.
func (cl *ConsoleLogger) LogSweepStart(root string, fileCount, capacity int) {
	cl.LogDebug(fmt.Sprintf("Sweeping %s: %s eligible, concurrency %d", root, plural(fileCount, "file"), capacity))
}

// LogFileStart logs a linter invocation at TRACE level.
func (cl *ConsoleLogger) LogFileStart(path string) {
	cl.LogTrace(fmt.Sprintf("Linting %s", path))
}

// LogFileResult logs the outcome of one file.
// Failures are logged at WARN level, everything else at DEBUG level.
func (cl *ConsoleLogger) LogFileResult(result models.FileResult) {
	if result.Err != nil {
		cl.LogWarn(fmt.Sprintf("%s: %v", result.Path, result.Err))
		return
	}

	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}

	status := result.Status()
	if cl.colorOutput {
		switch status {
		case models.StatusClean:
			status = color.New(color.FgGreen).Sprint(status)
		case models.StatusDefects:
			status = color.New(color.FgYellow).Sprint(status)
		}
	}
	cl.LogDebug(fmt.Sprintf("%s: %s (%s, %d suppressed) in %s",
		result.Path, status, plural(result.Defects, "defect"), result.Suppressed, formatDuration(result.Duration)))

	if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
		cl.LogDebug(fmt.Sprintf("%s stderr: %s", result.Path, stderr))
	}
}

// LogProgress logs a progress bar at DEBUG level.
// Format: "[HH:MM:SS] [DEBUG] Progress: [=====     ] 5/10 (50%) - 3 defects"
func (cl *ConsoleLogger) LogProgress(completed, total, defects int) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}

	pb := NewProgressBar(total, 10, cl.colorOutput)
	pb.Update(completed)
	cl.LogDebug(fmt.Sprintf("Progress: %s - %s", pb.Render(), plural(defects, "defect")))
}

// LogSummary logs the sweep summary at INFO level.
func (cl *ConsoleLogger) LogSummary(result models.SweepResult) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	failed := fmt.Sprintf("%d failed", result.Failed)
	defects := plural(result.Defects, "defect")
	if cl.colorOutput {
		if result.Failed > 0 {
			failed = color.New(color.FgRed).Sprint(failed)
		}
		if result.Defects > 0 {
			defects = color.New(color.FgYellow).Sprint(defects)
		} else {
			defects = color.New(color.FgGreen).Sprint(defects)
		}
	}

	cl.LogInfo(fmt.Sprintf("Swept %s in %s: %s, %d suppressed, %s",
		plural(result.TotalFiles(), "file"), formatDuration(result.Duration), defects, result.Suppressed, failed))

	for _, f := range result.FailedFiles() {
		cl.LogInfo(fmt.Sprintf("  - %s: %v", f.Path, f.Err))
	}
}
