package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice (not a map) because errors.Is() requires chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	// ===================
	// Invocation
	// ===================
	{
		err: ErrUnknownTask,
		info: ErrorInfo{
			Message: "A requested task does not exist.",
			Action:  "Run 'riid-build tasks --all' to list the available tasks.",
		},
	},
	{
		err: ErrUnknownParameter,
		info: ErrorInfo{
			Message: "Unrecognized build parameter.",
			Action:  "Supported parameters: -PjavaVersion=<int>, -PskipQuality, -PincludeStress, -PdisableLocal.",
		},
	},
	{
		err: ErrInvalidJavaVersion,
		info: ErrorInfo{
			Message: "The javaVersion parameter is not a valid Java feature version.",
			Action:  "Pass an integer such as -PjavaVersion=21.",
		},
	},
	{
		err: ErrInvalidParameter,
		info: ErrorInfo{
			Message: "A build parameter has an invalid value.",
			Action:  "Flags accept no value, 'true' or 'false'.",
		},
	},
	{
		err: ErrNoTasksRequested,
		info: ErrorInfo{
			Message: "No tasks were requested.",
			Action:  "Name at least one task, e.g. 'riid-build check'.",
		},
	},
	{
		err: ErrNotATestTask,
		info: ErrorInfo{
			Message: "The task does not run tests.",
			Action:  "Use a test task such as 'test', 'testStress' or 'testApp'.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrInvalidManifest,
		info: ErrorInfo{
			Message: "The dependency manifest is invalid.",
			Action:  "Check dependencies.hcl for syntax errors and unknown scope names.",
		},
	},
	{
		err: ErrInvalidCoordinate,
		info: ErrorInfo{
			Message: "A dependency coordinate is malformed.",
			Action:  "Use group:artifact:version or project:<sourceSet>.",
		},
	},
	{
		err: ErrUnknownScope,
		info: ErrorInfo{
			Message: "Unknown dependency scope.",
			Action:  "Run 'riid-build dependencies' to list the recognized scopes.",
		},
	},
	{
		err: ErrConfigInvalid,
		info: ErrorInfo{
			Message: "Invalid configuration.",
			Action:  "Check riid-build.yaml and RIID_* environment variables.",
		},
	},
	{
		err: ErrGraphCycle,
		info: ErrorInfo{
			Message: "The task graph contains a cycle.",
			Action:  "",
		},
	},

	// ===================
	// Execution
	// ===================
	{
		err: ErrBuildLocked,
		info: ErrorInfo{
			Message: "Another riid-build invocation is using this build directory.",
			Action:  "Wait for it to finish or remove a stale build/.riid-build.lock.",
		},
	},
	{
		err: ErrBuildFailed,
		info: ErrorInfo{
			Message: "Build failed. Check the task output above.",
			Action:  "Re-run with --verbose for subprocess output.",
		},
	},
	{
		err: ErrCommandFailed,
		info: ErrorInfo{
			Message: "An external command failed.",
			Action:  "Re-run with --verbose to see the command output.",
		},
	},
	{
		err: ErrOperationCanceled,
		info: ErrorInfo{
			Message: "Build was interrupted.",
			Action:  "",
		},
	},
}

//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Direct sentinel matches hit the map; wrapped errors fall back to errors.Is().
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action. The action is empty when there is nothing useful to suggest.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
