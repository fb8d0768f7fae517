package executor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/lintsweep/internal/linter"
	"github.com/harrison/lintsweep/internal/models"
)

// fakeRunner returns canned output per path and records concurrency.
type fakeRunner struct {
	outputs   map[string]string
	exitCodes map[string]int
	errs      map[string]error
	delay     time.Duration

	mu       sync.Mutex
	calls    map[string]int
	spans    []span
	inFlight atomic.Int32
	peak     atomic.Int32
}

type span struct {
	start, end time.Time
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs:   make(map[string]string),
		exitCodes: make(map[string]int),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (f *fakeRunner) Run(ctx context.Context, path string) (linter.Output, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	start := time.Now()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return linter.Output{}, ctx.Err()
		}
	}

	f.mu.Lock()
	f.calls[path]++
	f.spans = append(f.spans, span{start: start, end: time.Now()})
	f.mu.Unlock()

	if err := f.errs[path]; err != nil {
		return linter.Output{}, err
	}
	return linter.Output{Stdout: f.outputs[path], ExitCode: f.exitCodes[path]}, nil
}

// capsCounter counts non-empty lines, suppressing ALL_CAPS warnings.
type capsCounter struct{}

func (capsCounter) Count(stdout string) (int, int) {
	var defects, suppressed int
	for _, line := range strings.Split(stdout, "\n") {
		switch {
		case line == "":
		case strings.Contains(line, "don't use ALL_CAPS"):
			suppressed++
		default:
			defects++
		}
	}
	return defects, suppressed
}

// recordingLogger captures logger calls.
type recordingLogger struct {
	mu       sync.Mutex
	started  []string
	results  []models.FileResult
	progress []int
}

func (l *recordingLogger) LogSweepStart(root string, fileCount, capacity int) {}

func (l *recordingLogger) LogFileStart(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = append(l.started, path)
}

func (l *recordingLogger) LogFileResult(result models.FileResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, result)
}

func (l *recordingLogger) LogProgress(completed, total, defects int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.progress = append(l.progress, completed)
}

func (l *recordingLogger) LogSummary(result models.SweepResult) {}

func paths(results []models.FileResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Path)
	}
	sort.Strings(out)
	return out
}

func TestSweep_Scenario(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["a.go"] = "a.go:1: exported function Foo should have comment\n" +
		"a.go:2: don't use ALL_CAPS in Go names; use CamelCase\n"
	log := &recordingLogger{}

	sweeper := NewSweeper(runner, NewGate(4, 0), capsCounter{}, log)
	results, err := sweeper.Sweep(context.Background(), []string{"a.go", "b.go"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.go", "b.go"}, paths(results))

	var defects, suppressed int
	for _, r := range results {
		defects += r.Defects
		suppressed += r.Suppressed
		assert.NoError(t, r.Err)
	}
	assert.Equal(t, 1, defects)
	assert.Equal(t, 1, suppressed)

	assert.Len(t, log.started, 2)
	assert.Len(t, log.results, 2)
	assert.ElementsMatch(t, []int{1, 2}, log.progress)
}

func TestSweep_ExitCodeCarried(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["a.go"] = "a.go:1: finding\n"
	runner.exitCodes["a.go"] = 1

	results, err := NewSweeper(runner, NewGate(2, 0), capsCounter{}, nil).
		Sweep(context.Background(), []string{"a.go", "b.go"})
	require.NoError(t, err)

	for _, r := range results {
		switch r.Path {
		case "a.go":
			assert.Equal(t, 1, r.ExitCode)
			assert.Equal(t, 1, r.Defects, "non-zero exit is not a failure")
			assert.NoError(t, r.Err)
		case "b.go":
			assert.Equal(t, 0, r.ExitCode)
		}
	}
}

func TestSweep_EachPathLintedOnce(t *testing.T) {
	runner := newFakeRunner()
	var files []string
	for i := 0; i < 50; i++ {
		files = append(files, fmt.Sprintf("pkg%d/file.go", i))
	}

	results, err := NewSweeper(runner, NewGate(4, 0), capsCounter{}, nil).Sweep(context.Background(), files)
	require.NoError(t, err)
	assert.Len(t, results, len(files))

	for _, f := range files {
		assert.Equal(t, 1, runner.calls[f], "calls for %s", f)
	}
}

func TestSweep_NeverExceedsCapacity(t *testing.T) {
	runner := newFakeRunner()
	runner.delay = 10 * time.Millisecond

	var files []string
	for i := 0; i < 24; i++ {
		files = append(files, fmt.Sprintf("f%d.go", i))
	}

	_, err := NewSweeper(runner, NewGate(4, 0), capsCounter{}, nil).Sweep(context.Background(), files)
	require.NoError(t, err)

	assert.LessOrEqual(t, runner.peak.Load(), int32(4))
	assert.Greater(t, runner.peak.Load(), int32(1), "expected some parallelism")
}

func TestSweep_CapacityOneSerializes(t *testing.T) {
	runner := newFakeRunner()
	runner.delay = 20 * time.Millisecond

	_, err := NewSweeper(runner, NewGate(1, 0), capsCounter{}, nil).
		Sweep(context.Background(), []string{"a.go", "b.go", "c.go"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), runner.peak.Load())

	spans := append([]span(nil), runner.spans...)
	sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })
	for i := 1; i < len(spans); i++ {
		assert.False(t, spans[i].start.Before(spans[i-1].end), "invocation %d overlaps the previous one", i)
	}
}

func TestSweep_EmptyInput(t *testing.T) {
	runner := newFakeRunner()
	results, err := NewSweeper(runner, NewGate(4, 0), capsCounter{}, nil).Sweep(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, runner.calls)
}

func TestSweep_PerFileFailureIsCaptured(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["ok.go"] = "ok.go:1: finding\n"
	runner.errs["bad.go"] = fmt.Errorf("%w: stdout of bad.go", linter.ErrDecode)

	results, err := NewSweeper(runner, NewGate(2, 0), capsCounter{}, nil).
		Sweep(context.Background(), []string{"ok.go", "bad.go"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		switch r.Path {
		case "bad.go":
			require.Error(t, r.Err)
			assert.ErrorIs(t, r.Err, linter.ErrDecode)
			var fe *FileError
			require.ErrorAs(t, r.Err, &fe)
			assert.Equal(t, "bad.go", fe.Path)
			assert.Equal(t, models.StatusFailed, r.Status())
		case "ok.go":
			assert.NoError(t, r.Err)
			assert.Equal(t, 1, r.Defects)
		}
	}
}

func TestSweep_SpawnFailureAbortsBatch(t *testing.T) {
	runner := newFakeRunner()
	runner.delay = 5 * time.Millisecond
	runner.errs["a.go"] = fmt.Errorf("%w: golint: executable file not found", linter.ErrSpawn)

	results, err := NewSweeper(runner, NewGate(1, 0), capsCounter{}, nil).
		Sweep(context.Background(), []string{"a.go", "b.go", "c.go", "d.go"})
	require.Error(t, err)
	assert.Nil(t, results, "partial results must not be surfaced")
	assert.ErrorIs(t, err, linter.ErrSpawn)

	var fe *FileError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "a.go", fe.Path)
}

func TestSweep_CallerCancellation(t *testing.T) {
	runner := newFakeRunner()
	runner.delay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewSweeper(runner, NewGate(2, 0), capsCounter{}, nil).
		Sweep(ctx, []string{"a.go", "b.go", "c.go"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestSweep_Validation(t *testing.T) {
	var nilSweeper *Sweeper
	_, err := nilSweeper.Sweep(context.Background(), []string{"a.go"})
	assert.Error(t, err)

	_, err = NewSweeper(nil, NewGate(1, 0), capsCounter{}, nil).Sweep(context.Background(), []string{"a.go"})
	assert.Error(t, err)

	_, err = NewSweeper(newFakeRunner(), nil, capsCounter{}, nil).Sweep(context.Background(), []string{"a.go"})
	assert.Error(t, err)

	_, err = NewSweeper(newFakeRunner(), NewGate(1, 0), nil, nil).Sweep(context.Background(), []string{"a.go"})
	assert.Error(t, err)
}
