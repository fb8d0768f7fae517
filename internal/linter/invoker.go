// Package linter runs the external lint tool against a single source file.
package linter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
	"unicode/utf8"
)

var (
	// ErrSpawn reports that the linter process could not be started at all,
	// typically because the binary is missing or not executable.
	ErrSpawn = errors.New("linter could not be started")

	// ErrDecode reports linter output that is not valid UTF-8.
	ErrDecode = errors.New("linter output is not valid UTF-8")

	// ErrTimeout reports an invocation killed by the per-file timeout.
	ErrTimeout = errors.New("linter timed out")
)

// waitDelay bounds how long Wait keeps draining pipes after the process exits
// or is killed, in case a grandchild still holds them open.
const waitDelay = 2 * time.Second

// Runner runs the linter against one file.
type Runner interface {
	Run(ctx context.Context, path string) (Output, error)
}

// Output holds the decoded streams of one linter invocation.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Invoker is a reusable Runner that executes a linter binary.
// It follows the http.Client pattern: create once, use many times.
// Thread-safe for concurrent use.
type Invoker struct {
	// Command is the linter binary.
	// Defaults to "golint" (found in PATH).
	Command string

	// Args are placed before the file path on every invocation.
	Args []string

	// Timeout bounds a single invocation. Zero means no timeout.
	Timeout time.Duration
}

// NewInvoker creates an Invoker for command with optional leading args.
func NewInvoker(command string, args ...string) *Invoker {
	return &Invoker{
		Command: command,
		Args:    args,
	}
}

// Run executes `<Command> <Args...> <path>` and returns both output streams
// once the process exits. The exit status is recorded but never treated as
// an error; the presence of stdout lines is what signals findings.
//
// Errors:
//   - ErrSpawn when the process cannot be started
//   - ErrTimeout when Timeout elapses first
//   - ErrDecode when either stream is not valid UTF-8
//   - ctx.Err() when the caller's context is cancelled
func (inv *Invoker) Run(ctx context.Context, path string) (Output, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if inv.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	command := inv.Command
	if command == "" {
		command = "golint"
	}

	args := make([]string, 0, len(inv.Args)+1)
	args = append(args, inv.Args...)
	args = append(args, path)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return Output{}, ctx.Err()
		}
		return Output{}, fmt.Errorf("%w: %s: %w", ErrSpawn, command, err)
	}

	waitErr := cmd.Wait()

	// Cancellation by the caller takes precedence over our own deadline
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if err := runCtx.Err(); err != nil {
		return Output{}, fmt.Errorf("%w after %s: %s", ErrTimeout, inv.Timeout, path)
	}

	out := Output{ExitCode: cmd.ProcessState.ExitCode()}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return Output{}, fmt.Errorf("linter %s on %s: %w", command, path, waitErr)
		}
	}

	if !utf8.Valid(stdout.Bytes()) {
		return Output{}, fmt.Errorf("%w: stdout of %s", ErrDecode, path)
	}
	if !utf8.Valid(stderr.Bytes()) {
		return Output{}, fmt.Errorf("%w: stderr of %s", ErrDecode, path)
	}

	out.Stdout = stdout.String()
	out.Stderr = stderr.String()
	return out, nil
}
