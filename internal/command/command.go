// Package command runs the external processes behind build tasks: javac,
// the analyzers, the JUnit console launcher and the container runtime.
//
// Commands are argv slices from the build configuration and are executed
// directly, without a shell.
package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/UsatovPavel/RIID/internal/constants"
)

// Cmd describes one process invocation.
type Cmd struct {
	// Args is the argv; Args[0] is the executable.
	Args []string

	// Dir is the working directory.
	Dir string

	// Env is appended to the current environment.
	Env []string

	// Label prefixes each streamed output line.
	Label string
}

// String renders the argv for logs, quoting arguments that contain spaces.
func (c Cmd) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			parts[i] = `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
			continue
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}

// Runner executes a command and returns its captured output.
// If live is non-nil, output is streamed to it while also being captured.
type Runner interface {
	Run(ctx context.Context, cmd Cmd, live io.Writer) (stdout, stderr string, exitCode int, err error)
}

// DefaultRunner implements Runner using os/exec. On cancellation the
// process receives SIGTERM and, after Grace, SIGKILL.
type DefaultRunner struct {
	Grace time.Duration
}

// Run starts the process and waits for it.
func (r *DefaultRunner) Run(ctx context.Context, c Cmd, live io.Writer) (stdout, stderr string, exitCode int, err error) {
	if len(c.Args) == 0 {
		return "", "", 1, ErrEmpty
	}

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...) //nolint:gosec // argv comes from build configuration
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = r.grace()

	var outBuf, errBuf bytes.Buffer
	if live != nil {
		prefixed := NewPrefixWriter(live, c.Label)
		defer func() { _ = prefixed.Flush() }()
		cmd.Stdout = io.MultiWriter(&outBuf, prefixed)
		cmd.Stderr = io.MultiWriter(&errBuf, prefixed)
	} else {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	}

	err = cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = 1
		}
	}

	return stdout, stderr, exitCode, err
}

func (r *DefaultRunner) grace() time.Duration {
	if r.Grace > 0 {
		return r.Grace
	}
	return constants.TerminateGracePeriod
}

// Ensure DefaultRunner implements Runner.
var _ Runner = (*DefaultRunner)(nil)
