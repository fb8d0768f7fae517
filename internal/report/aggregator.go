// Package report turns per-file linter output into a defect tally and the
// appended output file.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/harrison/lintsweep/internal/filelock"
	"github.com/harrison/lintsweep/internal/models"
)

// Totals summarizes a set of file results.
type Totals struct {
	Files      int
	Defects    int
	Suppressed int
	Failed     int
}

// Aggregator counts defects and persists linter output.
type Aggregator struct {
	outputFile string
	suppress   []string
	lockFile   string
	sortOutput bool
	echo       io.Writer
}

// NewAggregator creates an Aggregator appending to outputFile. Lines
// containing any of the suppress substrings are written but not counted.
func NewAggregator(outputFile string, suppress []string) *Aggregator {
	patterns := make([]string, 0, len(suppress))
	for _, s := range suppress {
		if s != "" {
			patterns = append(patterns, s)
		}
	}
	return &Aggregator{
		outputFile: outputFile,
		lockFile:   outputFile + ".lock",
		suppress:   patterns,
	}
}

// WithEcho sets a writer that receives every non-empty output blob as it is
// written. A nil writer disables echoing.
func (a *Aggregator) WithEcho(w io.Writer) *Aggregator {
	a.echo = w
	return a
}

// WithSortedOutput orders blobs by file path instead of completion order.
func (a *Aggregator) WithSortedOutput(sorted bool) *Aggregator {
	a.sortOutput = sorted
	return a
}

// WithLockFile sets the lock file guarding the append. By default the lock
// sits next to the output file as "<output>.lock".
func (a *Aggregator) WithLockFile(path string) *Aggregator {
	a.lockFile = path
	return a
}

// Count returns the number of counted and suppressed diagnostic lines in one
// linter stdout. Empty lines are ignored; every other line is one defect
// unless it contains a suppressed substring.
func (a *Aggregator) Count(stdout string) (defects, suppressed int) {
	if stdout == "" {
		return 0, 0
	}
	for _, line := range splitLines(stdout) {
		if a.isSuppressed(line) {
			suppressed++
			continue
		}
		defects++
	}
	return defects, suppressed
}

func (a *Aggregator) isSuppressed(line string) bool {
	for _, s := range a.suppress {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

// Aggregate sums the per-file counts and appends every non-empty stdout to
// the output file in a single locked batch. The file is created even when
// there is nothing to write.
func (a *Aggregator) Aggregate(results []models.FileResult) (Totals, error) {
	totals := Totals{Files: len(results)}

	ordered := results
	if a.sortOutput {
		ordered = make([]models.FileResult, len(results))
		copy(ordered, results)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Path < ordered[j].Path
		})
	}

	var chunks [][]byte
	for _, r := range ordered {
		totals.Defects += r.Defects
		totals.Suppressed += r.Suppressed
		if r.Err != nil {
			totals.Failed++
		}
		if !r.HasOutput() {
			continue
		}
		chunks = append(chunks, []byte(r.Stdout))
	}

	if err := filelock.LockAndAppend(a.lockFile, a.outputFile, chunks...); err != nil {
		return totals, fmt.Errorf("failed to write output file: %w", err)
	}

	if a.echo != nil {
		for _, chunk := range chunks {
			io.WriteString(a.echo, string(chunk))
			if chunk[len(chunk)-1] != '\n' {
				io.WriteString(a.echo, "\n")
			}
		}
	}

	return totals, nil
}

// splitLines returns the non-empty lines of s. A bare \r, \v, \f, the
// \x1c-\x1e separators, NEL and U+2028/U+2029 all end a line; a \r\n pair
// only produces an empty field, which is dropped.
func splitLines(s string) []string {
	return strings.FieldsFunc(s, isLineBreak)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
