package logger

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrison/lintsweep/internal/models"
)

// TestNewConsoleLogger verifies the constructor creates a ConsoleLogger with the provided writer.
func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "info")

		if logger.writer != buf {
			t.Error("writer not set correctly")
		}
		if logger.logLevel != "info" {
			t.Errorf("expected log level %q, got %q", "info", logger.logLevel)
		}
		if logger.colorOutput {
			t.Error("expected color disabled for non-terminal writer")
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "debug")
		logger.LogInfo("discarded")
		logger.LogFileResult(models.FileResult{Path: "a.go"})
		logger.LogSummary(models.SweepResult{})
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger := NewConsoleLogger(&bytes.Buffer{}, "LOUD")
		if logger.logLevel != "info" {
			t.Errorf("expected log level %q, got %q", "info", logger.logLevel)
		}
	})
}

// TestConsoleLoggerFormat verifies the "[HH:MM:SS] [LEVEL] message" layout.
func TestConsoleLoggerFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "trace")

	logger.LogWarn("scan error")

	line := strings.TrimSuffix(buf.String(), "\n")
	if len(line) < 11 || line[0] != '[' || line[9] != ']' {
		t.Fatalf("expected timestamp prefix, got %q", line)
	}
	if _, err := time.Parse("15:04:05", line[1:9]); err != nil {
		t.Errorf("invalid timestamp %q: %v", line[1:9], err)
	}
	if !strings.HasSuffix(line, "[WARN] scan error") {
		t.Errorf("unexpected line %q", line)
	}
}

func TestConsoleLoggerLogFileResult(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		result     models.FileResult
		wantText   []string
		wantAbsent []string
	}{
		{
			name:  "clean file at debug",
			level: "debug",
			result: models.FileResult{
				Path:     "a.go",
				Duration: 250 * time.Millisecond,
			},
			wantText: []string{"[DEBUG]", "a.go: CLEAN (0 defects, 0 suppressed) in 250ms"},
		},
		{
			name:  "defects with stderr",
			level: "debug",
			result: models.FileResult{
				Path:       "pkg/b.go",
				Defects:    1,
				Suppressed: 2,
				Stderr:     "warning: slow\n",
				Duration:   2 * time.Second,
			},
			wantText: []string{"pkg/b.go: DEFECTS (1 defect, 2 suppressed) in 2s", "pkg/b.go stderr: warning: slow"},
		},
		{
			name:       "clean file hidden at info",
			level:      "info",
			result:     models.FileResult{Path: "a.go"},
			wantAbsent: []string{"a.go"},
		},
		{
			name:  "failure logged as warning at info",
			level: "info",
			result: models.FileResult{
				Path: "c.go",
				Err:  errors.New("output not collected"),
			},
			wantText: []string{"[WARN]", "c.go: output not collected"},
		},
		{
			name:  "failure hidden at error",
			level: "error",
			result: models.FileResult{
				Path: "c.go",
				Err:  errors.New("output not collected"),
			},
			wantAbsent: []string{"c.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.level)

			logger.LogFileResult(tt.result)

			output := buf.String()
			for _, want := range tt.wantText {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in output, got %q", want, output)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(output, absent) {
					t.Errorf("did not expect %q in output, got %q", absent, output)
				}
			}
		})
	}
}

func TestConsoleLoggerLogFileStart(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "debug").LogFileStart("a.go")
	if buf.Len() != 0 {
		t.Errorf("expected no output at debug, got %q", buf.String())
	}

	NewConsoleLogger(buf, "trace").LogFileStart("a.go")
	if !strings.Contains(buf.String(), "[TRACE] Linting a.go") {
		t.Errorf("expected trace line, got %q", buf.String())
	}
}

func TestConsoleLoggerLogProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "debug")

	logger.LogProgress(5, 10, 3)

	want := "Progress: [=====     ] 5/10 (50%) - 3 defects"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("expected %q in output, got %q", want, buf.String())
	}
}

func TestConsoleLoggerLogSweepStart(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "debug")

	logger.LogSweepStart("/src", 1, 4)

	if !strings.Contains(buf.String(), "Sweeping /src: 1 file eligible, concurrency 4") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestConsoleLoggerLogSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	logger.LogSummary(models.SweepResult{
		Files: []models.FileResult{
			{Path: "a.go", Defects: 1},
			{Path: "b.go"},
			{Path: "c.go", Err: errors.New("timed out")},
		},
		Defects:    1,
		Suppressed: 1,
		Failed:     1,
		Duration:   1500 * time.Millisecond,
	})

	output := buf.String()
	for _, want := range []string{
		"Swept 3 files in 1s: 1 defect, 1 suppressed, 1 failed",
		"  - c.go: timed out",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got %q", want, output)
		}
	}
}

// TestConsoleLoggerConcurrent verifies lines are never interleaved.
func TestConsoleLoggerConcurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.LogInfo(fmt.Sprintf("message %d", n))
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "[INFO] message ") {
			t.Errorf("malformed line %q", line)
		}
	}
}
