package cli

import (
	stderrors "errors"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/UsatovPavel/RIID/internal/command"
	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/tui"
)

// Exit codes for the CLI. A failed subprocess-backed task exits with the
// subprocess's own code instead of ExitError.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates a general error.
	ExitError = 1
	// ExitInvalidInput indicates a configuration error; no task was executed.
	ExitInvalidInput = 2
)

// Output format constants.
const (
	// OutputText is the default human-readable output format.
	OutputText = tui.FormatText
	// OutputJSON is the machine-readable JSON output format.
	OutputJSON = tui.FormatJSON
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging, task start lines and streamed
	// subprocess output.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// ProjectDir is the project root. Empty means the working directory.
	ProjectDir string
	// Props are the raw -P build parameters.
	Props []string
}

// RunFlags holds the flags of the task-running root command.
type RunFlags struct {
	// Workers bounds concurrent tasks. Zero means the configured default.
	Workers int
	// DryRun prints the execution plan without running anything.
	DryRun bool
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.PersistentFlags().StringVar(&flags.ProjectDir, "project-dir", "", "project root (default: working directory)")
	cmd.PersistentFlags().StringArrayVarP(&flags.Props, "project-prop", "P", nil,
		"build parameter name[=value]: javaVersion, skipQuality, includeStress, disableLocal")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// AddRunFlags adds the flags that only apply when running tasks.
func AddRunFlags(cmd *cobra.Command, flags *RunFlags) {
	cmd.Flags().IntVar(&flags.Workers, "workers", 0, "maximum concurrent tasks (default: number of CPUs)")
	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "m", false, "print the execution plan without running tasks")
}

// BindGlobalFlags binds global flags to Viper for environment variable
// support with the RIID_ prefix (e.g., RIID_OUTPUT, RIID_VERBOSE).
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	// Root().PersistentFlags() finds the flags even from a subcommand's
	// PersistentPreRunE.
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet", "project-dir"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix("RIID")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return nil
}

// applyEnv copies environment-provided values into flags that were not set
// on the command line.
func applyEnv(v *viper.Viper, cmd *cobra.Command, flags *GlobalFlags) {
	rootFlags := cmd.Root().PersistentFlags()
	if !rootFlags.Changed("output") {
		flags.Output = v.GetString("output")
	}
	if !rootFlags.Changed("verbose") && !rootFlags.Changed("quiet") {
		flags.Verbose = v.GetBool("verbose")
		flags.Quiet = v.GetBool("quiet") && !flags.Verbose
	}
	if !rootFlags.Changed("project-dir") {
		flags.ProjectDir = v.GetString("project-dir")
	}
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	return slices.Contains(ValidOutputFormats(), format)
}

// ExitCodeForError returns the process exit code for err: ExitSuccess for
// nil, ExitInvalidInput for configuration and usage errors, the exit code of
// the first failed subprocess when there is one, and ExitError otherwise.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.IsExitCode2Error(err) || errors.IsConfigurationError(err) {
		return ExitInvalidInput
	}

	if stderrors.Is(err, errors.ErrInvalidOutputFormat) {
		return ExitInvalidInput
	}

	if code, ok := command.ExitCode(err); ok && code > 0 {
		return code
	}

	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}

	return ExitError
}

// isInvalidInputError catches Cobra's built-in flag validation errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts at most",
		"accepts 1 arg",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
