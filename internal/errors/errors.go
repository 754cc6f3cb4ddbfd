// Package errors provides centralized error handling for riid-build.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the driver. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrUnknownTask indicates a task name on the command line that the graph does not define.
	ErrUnknownTask = errors.New("unknown task")

	// ErrUnknownParameter indicates a -P project property the driver does not recognize.
	ErrUnknownParameter = errors.New("unknown build parameter")

	// ErrInvalidParameter indicates a recognized -P property with a value that cannot be parsed.
	ErrInvalidParameter = errors.New("invalid build parameter")

	// ErrInvalidJavaVersion indicates a javaVersion that is not an integer in the supported range.
	ErrInvalidJavaVersion = errors.New("invalid java version")

	// ErrInvalidManifest indicates the dependency manifest could not be parsed or names an unknown scope.
	ErrInvalidManifest = errors.New("invalid dependency manifest")

	// ErrInvalidCoordinate indicates a dependency coordinate that is not group:artifact[:version].
	ErrInvalidCoordinate = errors.New("invalid dependency coordinate")

	// ErrUnknownScope indicates a dependency scope (configuration) that is not recognized.
	ErrUnknownScope = errors.New("unknown dependency scope")

	// ErrUnknownSourceSet indicates a source set name that is not declared.
	ErrUnknownSourceSet = errors.New("unknown source set")

	// ErrDuplicateTask indicates two tasks registered under the same name.
	ErrDuplicateTask = errors.New("duplicate task")

	// ErrGraphCycle indicates that dependency or finalizer edges form a cycle.
	ErrGraphCycle = errors.New("task graph contains a cycle")

	// ErrTaskFailed indicates that one or more tasks failed during execution.
	ErrTaskFailed = errors.New("task failed")

	// ErrBuildFailed indicates that the invocation finished with at least one failed task.
	ErrBuildFailed = errors.New("build failed")

	// ErrCommandFailed indicates that a subprocess exited with a non-zero code.
	ErrCommandFailed = errors.New("command failed")

	// ErrCommandNotConfigured indicates that a mock command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrEmptyCommand indicates that a configured command has no arguments.
	ErrEmptyCommand = errors.New("command is empty")

	// ErrBuildLocked indicates that another invocation holds the build directory lock.
	ErrBuildLocked = errors.New("build directory is locked")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrNoTasksRequested indicates that the driver was invoked without any task names.
	ErrNoTasksRequested = errors.New("no tasks requested")

	// ErrNotATestTask indicates a plan was requested for a task that does not run tests.
	ErrNotATestTask = errors.New("not a test task")

	// ErrOperationCanceled indicates the invocation was interrupted.
	ErrOperationCanceled = errors.New("operation canceled")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
// Configuration errors detected before any task runs are wrapped this way.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

// IsConfigurationError reports whether err belongs to the configuration error
// kind: problems with the invocation itself rather than with task execution.
func IsConfigurationError(err error) bool {
	for _, sentinel := range []error{
		ErrUnknownTask,
		ErrUnknownParameter,
		ErrInvalidParameter,
		ErrInvalidJavaVersion,
		ErrInvalidManifest,
		ErrInvalidCoordinate,
		ErrUnknownScope,
		ErrConfigInvalid,
		ErrNoTasksRequested,
		ErrNotATestTask,
		ErrInvalidOutputFormat,
		ErrGraphCycle,
		ErrDuplicateTask,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
