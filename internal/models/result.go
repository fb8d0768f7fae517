package models

import "time"

// File result status constants
const (
	StatusClean   = "CLEAN"   // Linter produced no counted diagnostics
	StatusDefects = "DEFECTS" // Linter reported at least one counted diagnostic
	StatusFailed  = "FAILED"  // Linter output could not be collected
)

// FileResult represents the outcome of running the linter against a single file
type FileResult struct {
	Path       string        // File that was linted
	Stdout     string        // Decoded linter stdout (possibly empty)
	Stderr     string        // Decoded linter stderr, informational only
	ExitCode   int           // Linter exit status, recorded but never treated as failure
	Defects    int           // Non-empty stdout lines that are not suppressed
	Suppressed int           // Non-empty stdout lines matching a suppression
	Duration   time.Duration // Time spent waiting on the subprocess
	Err        error         // Per-file failure, nil when output was collected
}

// Status reports the file result status derived from its error and defect count.
func (r FileResult) Status() string {
	switch {
	case r.Err != nil:
		return StatusFailed
	case r.Defects > 0:
		return StatusDefects
	default:
		return StatusClean
	}
}

// HasOutput reports whether the linter wrote anything to stdout.
func (r FileResult) HasOutput() bool {
	return r.Stdout != ""
}

// SweepResult represents the aggregate result of linting a directory tree
type SweepResult struct {
	RunID      string        // Unique identifier of the sweep
	Root       string        // Directory that was scanned
	OutputFile string        // File the linter output was appended to
	Files      []FileResult  // Per-file results in completion order
	Defects    int           // Sum of FileResult.Defects
	Suppressed int           // Sum of FileResult.Suppressed
	Failed     int           // Number of files with a non-nil Err
	StartedAt  time.Time     // When the sweep began
	Duration   time.Duration // Total wall time of the sweep
}

// TotalFiles returns the number of files that were linted.
func (s *SweepResult) TotalFiles() int {
	return len(s.Files)
}

// FailedFiles returns the results whose output could not be collected.
func (s *SweepResult) FailedFiles() []FileResult {
	var failed []FileResult
	for _, f := range s.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}
