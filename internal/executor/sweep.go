package executor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/lintsweep/internal/linter"
	"github.com/harrison/lintsweep/internal/models"
)

// Logger defines the interface for logging sweep progress and results.
type Logger interface {
	LogSweepStart(root string, fileCount, capacity int)
	LogFileStart(path string)
	LogFileResult(result models.FileResult)
	LogProgress(completed, total, defects int)
	LogSummary(result models.SweepResult)
}

// LineCounter classifies linter stdout into counted and suppressed lines.
type LineCounter interface {
	Count(stdout string) (defects, suppressed int)
}

// Sweeper lints a set of files concurrently. One goroutine is started per
// file; the Gate decides how many of them run the linter at the same time.
type Sweeper struct {
	runner  linter.Runner
	gate    *Gate
	counter LineCounter
	logger  Logger
}

// NewSweeper constructs a Sweeper. The logger parameter is optional and can
// be nil to disable logging.
func NewSweeper(runner linter.Runner, gate *Gate, counter LineCounter, logger Logger) *Sweeper {
	return &Sweeper{
		runner:  runner,
		gate:    gate,
		counter: counter,
		logger:  logger,
	}
}

// Sweep lints every path and returns one result per path in completion
// order. It waits for all files before returning.
//
// A file whose output cannot be collected (timeout, undecodable output) is
// reported through FileResult.Err and does not stop the sweep. A linter that
// cannot be started at all stops the sweep: remaining files are cancelled and
// the error is returned with no results.
func (s *Sweeper) Sweep(ctx context.Context, paths []string) ([]models.FileResult, error) {
	if s == nil {
		return nil, fmt.Errorf("sweeper is nil")
	}
	if s.runner == nil {
		return nil, fmt.Errorf("linter runner is required")
	}
	if s.gate == nil {
		return nil, fmt.Errorf("gate is required")
	}
	if s.counter == nil {
		return nil, fmt.Errorf("line counter is required")
	}

	total := len(paths)
	if total == 0 {
		return []models.FileResult{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	resultsCh := make(chan models.FileResult, total)

	// Progress only; the authoritative total is summed from the results
	var completed, defects atomic.Int64

	for _, path := range paths {
		path := path
		g.Go(func() error {
			result, err := s.lintFile(gctx, path)
			if err != nil {
				return err
			}
			resultsCh <- result

			done := completed.Add(1)
			running := defects.Add(int64(result.Defects))
			if s.logger != nil {
				s.logger.LogFileResult(result)
				s.logger.LogProgress(int(done), total, int(running))
			}
			return nil
		})
	}

	err := g.Wait()
	close(resultsCh)
	if err != nil {
		return nil, err
	}

	results := make([]models.FileResult, 0, total)
	for result := range resultsCh {
		results = append(results, result)
	}
	return results, nil
}

// lintFile runs the linter on one file while holding a Gate permit.
// The permit is released on every path out of this function.
func (s *Sweeper) lintFile(ctx context.Context, path string) (models.FileResult, error) {
	if err := s.gate.Acquire(ctx); err != nil {
		return models.FileResult{}, err
	}
	defer s.gate.Release()

	if s.logger != nil {
		s.logger.LogFileStart(path)
	}

	start := time.Now()
	out, err := s.runner.Run(ctx, path)
	result := models.FileResult{
		Path:     path,
		Duration: time.Since(start),
	}

	if err != nil {
		switch {
		case errors.Is(err, linter.ErrSpawn):
			return result, NewFileError(path, "spawn failed", err)
		case ctx.Err() != nil:
			return result, ctx.Err()
		default:
			result.Err = NewFileError(path, "output not collected", err)
			return result, nil
		}
	}

	result.Stdout = out.Stdout
	result.Stderr = out.Stderr
	result.ExitCode = out.ExitCode
	result.Defects, result.Suppressed = s.counter.Count(out.Stdout)
	return result, nil
}
