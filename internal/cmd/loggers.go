package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/harrison/lintsweep/internal/executor"
	"github.com/harrison/lintsweep/internal/models"
)

// consoleReporter writes the plain per-file lines users see on stdout.
// Everything else it receives is left to the leveled loggers.
type consoleReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

func newConsoleReporter(w io.Writer) *consoleReporter {
	return &consoleReporter{writer: w}
}

// LogSweepStart is a no-op; the banner is printed before the walk.
func (r *consoleReporter) LogSweepStart(root string, fileCount, capacity int) {}

// LogFileStart prints "CHECKING <path>" as a linter is started.
func (r *consoleReporter) LogFileStart(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.writer, "CHECKING %s\n", path)
}

func (r *consoleReporter) LogFileResult(result models.FileResult) {}

func (r *consoleReporter) LogProgress(completed, total, defects int) {}

func (r *consoleReporter) LogSummary(result models.SweepResult) {}

// warner is implemented by loggers that accept free-form warnings.
type warner interface {
	LogWarn(message string)
}

// multiLogger implements executor.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []executor.Logger
	warners []warner
}

// LogSweepStart forwards to all loggers
func (ml *multiLogger) LogSweepStart(root string, fileCount, capacity int) {
	for _, l := range ml.loggers {
		l.LogSweepStart(root, fileCount, capacity)
	}
}

// LogFileStart forwards to all loggers
func (ml *multiLogger) LogFileStart(path string) {
	for _, l := range ml.loggers {
		l.LogFileStart(path)
	}
}

// LogFileResult forwards to all loggers
func (ml *multiLogger) LogFileResult(result models.FileResult) {
	for _, l := range ml.loggers {
		l.LogFileResult(result)
	}
}

// LogProgress forwards to all loggers
func (ml *multiLogger) LogProgress(completed, total, defects int) {
	for _, l := range ml.loggers {
		l.LogProgress(completed, total, defects)
	}
}

// LogSummary forwards to all loggers
func (ml *multiLogger) LogSummary(result models.SweepResult) {
	for _, l := range ml.loggers {
		l.LogSummary(result)
	}
}

// LogWarn forwards to every logger that accepts warnings
func (ml *multiLogger) LogWarn(message string) {
	for _, w := range ml.warners {
		w.LogWarn(message)
	}
}
