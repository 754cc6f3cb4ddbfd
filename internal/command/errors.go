package command

import (
	"errors"
	"fmt"

	rerrors "github.com/UsatovPavel/RIID/internal/errors"
)

// ErrEmpty is returned for a Cmd without arguments.
var ErrEmpty = rerrors.ErrEmptyCommand

// ExitError reports a process that exited with a non-zero code.
// It unwraps to ErrCommandFailed.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exited with code %d", e.Command, e.Code)
}

// Unwrap returns the category sentinel.
func (e *ExitError) Unwrap() error {
	return rerrors.ErrCommandFailed
}

// ExitCode extracts the process exit code from err.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
