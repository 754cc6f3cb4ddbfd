package tui

import rerrors "github.com/UsatovPavel/RIID/internal/errors"

// ActionableError wraps an error with a suggested next step.
//
// Example usage:
//
//	err := NewActionableError("a requested task does not exist", "Run 'riid-build tasks --all'")
//	output.Error(err)
//	// Outputs: ✗ a requested task does not exist
//	//          ▸ Try: Run 'riid-build tasks --all'
type ActionableError struct {
	// Message is the primary error message.
	Message string

	// Suggestion provides actionable guidance for resolving the error.
	Suggestion string

	// Context is appended to the message in parentheses when present.
	Context string

	err error
}

// NewActionableError creates a new ActionableError with message and suggestion.
func NewActionableError(msg, suggestion string) *ActionableError {
	return &ActionableError{Message: msg, Suggestion: suggestion}
}

// FromError maps err to its user-facing message and suggestion. The raw
// error text becomes the context when it adds information.
func FromError(err error) *ActionableError {
	msg, action := rerrors.Actionable(err)
	ae := &ActionableError{Message: msg, Suggestion: action, err: err}
	if raw := err.Error(); raw != msg {
		ae.Context = raw
	}
	return ae
}

// Error implements the error interface.
func (e *ActionableError) Error() string {
	if e.Context != "" {
		return e.Message + " (" + e.Context + ")"
	}
	return e.Message
}

// Unwrap returns the mapped error, if any.
func (e *ActionableError) Unwrap() error { return e.err }

// WithContext sets the context and returns e for chaining.
func (e *ActionableError) WithContext(ctx string) *ActionableError {
	e.Context = ctx
	return e
}
