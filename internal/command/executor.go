package command

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/UsatovPavel/RIID/internal/clock"
)

// Result is the captured outcome of one command.
type Result struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Executor runs commands for tasks, logging each invocation and turning
// non-zero exits into *ExitError.
type Executor struct {
	runner Runner
	live   io.Writer
	clock  clock.Clock
}

// NewExecutor creates an executor backed by runner. If live is non-nil,
// command output is streamed to it line by line.
func NewExecutor(runner Runner, live io.Writer) *Executor {
	if live != nil {
		live = &lockedWriter{out: live}
	}
	return &Executor{runner: runner, live: live, clock: clock.RealClock{}}
}

// Run executes cmd. A non-zero exit, or a process that could not be
// started, returns the result and an *ExitError.
func (e *Executor) Run(ctx context.Context, cmd Cmd) (*Result, error) {
	log := zerolog.Ctx(ctx)
	if len(cmd.Args) == 0 {
		return nil, ErrEmpty
	}

	log.Debug().
		Str("command", cmd.String()).
		Str("dir", cmd.Dir).
		Msg("executing command")

	start := e.clock.Now()
	stdout, stderr, exitCode, runErr := e.runner.Run(ctx, cmd, e.live)
	result := &Result{
		Command:  cmd.String(),
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		Duration: e.clock.Now().Sub(start),
	}

	if runErr == nil && exitCode == 0 {
		log.Debug().
			Str("command", cmd.Args[0]).
			Dur("duration_ms", result.Duration).
			Msg("command completed")
		return result, nil
	}

	if exitCode == 0 {
		exitCode = 1
		result.ExitCode = 1
	}
	if stderr == "" && runErr != nil {
		// The process could not be started or was killed before writing anything.
		stderr = runErr.Error()
	}

	log.Error().
		Str("command", cmd.Args[0]).
		Int("exit_code", exitCode).
		Dur("duration_ms", result.Duration).
		Str("stderr", tail(stderr, 20)).
		Msg("command failed")

	return result, &ExitError{Command: cmd.String(), Code: exitCode, Stderr: stderr}
}

// tail returns at most n trailing lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
