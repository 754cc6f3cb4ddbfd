// Package graph models the build as a directed acyclic graph of tasks with
// dependency and finalizer edges, and executes it with a bounded worker pool.
package graph

import "context"

// Action is the executable body of a task.
type Action func(ctx context.Context) error

// UpToDateFunc reports whether a task's outputs are current and the body can
// be skipped.
type UpToDateFunc func(ctx context.Context) (bool, error)

// Task is a named unit of build work. Identity is the name.
type Task struct {
	Name        string
	Group       string
	Description string

	// DependsOn lists tasks that must reach a satisfied state first.
	DependsOn []string

	// FinalizedBy lists tasks that run after this one whatever its outcome.
	FinalizedBy []string

	// Enabled is false for tasks that are switched off by build parameters.
	// A disabled task is reported skipped and satisfies its dependents.
	Enabled bool

	// UpToDate is consulted before Action. Nil means never up to date.
	UpToDate UpToDateFunc

	// Action is nil for lifecycle tasks that only aggregate dependencies.
	Action Action
}

// IsLifecycle reports whether t has no body of its own.
func (t *Task) IsLifecycle() bool { return t.Action == nil }

// State is the execution state of a task within one invocation.
type State string

// Task states.
const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateSkipped   State = "skipped"
	StateUpToDate  State = "up_to_date"
	StateNotRun    State = "not_run"
	StateCanceled  State = "canceled"
)

// Terminal reports whether s is final.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateSkipped, StateUpToDate, StateNotRun, StateCanceled:
		return true
	case StatePending, StateRunning:
		return false
	}
	return false
}

// Satisfied reports whether dependents of a task in state s may run.
func (s State) Satisfied() bool {
	return s == StateSucceeded || s == StateSkipped || s == StateUpToDate
}

// Label returns the upper-case form used in console output.
func (s State) Label() string {
	switch s {
	case StateSucceeded:
		return "OK"
	case StateFailed:
		return "FAILED"
	case StateSkipped:
		return "SKIPPED"
	case StateUpToDate:
		return "UP-TO-DATE"
	case StateNotRun:
		return "NOT RUN"
	case StateCanceled:
		return "CANCELED"
	case StateRunning:
		return "RUNNING"
	case StatePending:
		return "PENDING"
	}
	return string(s)
}
