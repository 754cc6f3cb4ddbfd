// Package cli provides the riid-build command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/UsatovPavel/RIID/internal/command"
	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the logger initialized in PersistentPreRunE.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// It MUST only be called after the root command's PersistentPreRunE has
// executed; before that it returns a zero-value logger that discards output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// Option customizes the root command. Used by tests to inject a fake
// process runner and capture log output.
type Option func(*environment)

// environment carries the injectable collaborators of one command tree.
type environment struct {
	runner    command.Runner
	logWriter io.Writer
}

// WithRunner replaces the subprocess runner.
func WithRunner(r command.Runner) Option {
	return func(rt *environment) { rt.runner = r }
}

// WithLogWriter sends log output to w instead of stderr and the log file.
func WithLogWriter(w io.Writer) Option {
	return func(rt *environment) { rt.logWriter = w }
}

// newRootCmd creates the root command. Invoked with task names it runs them;
// subcommands inspect the build.
func newRootCmd(flags *GlobalFlags, info BuildInfo, opts ...Option) *cobra.Command {
	v := viper.New()
	rt := &environment{}
	for _, opt := range opts {
		opt(rt)
	}
	runFlags := &RunFlags{}

	cmd := &cobra.Command{
		Use:   "riid-build [flags] <task>...",
		Short: "riid-build - build driver for the Riid project",
		Long: `riid-build compiles, tests, analyzes and packages the Riid Java project.

Tasks form a dependency graph and run concurrently on a bounded worker pool.
Build parameters are passed as project properties:
  -PjavaVersion=<int>   Java toolchain feature release
  -PskipQuality         disable the quality analyzers
  -PincludeStress       include stress tests in 'test'
  -PdisableLocal        exclude local tests from 'test'

Examples:
  riid-build check
  riid-build -PjavaVersion=21 test testStress
  riid-build --dry-run build`,
		Version: formatVersion(info),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			applyEnv(v, cmd, flags)

			if !IsValidOutputFormat(flags.Output) {
				return errors.NewExitCode2Error(fmt.Errorf("%w: %q must be one of %v",
					errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats()))
			}

			var logger zerolog.Logger
			if rt.logWriter != nil {
				logger = InitLoggerWithWriter(flags.Verbose, flags.Quiet, rt.logWriter)
			} else {
				logger = InitLogger(flags.Verbose, flags.Quiet)
			}
			globalLoggerMu.Lock()
			globalLogger = logger
			globalLoggerMu.Unlock()

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTasks(cmd, flags, runFlags, rt, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)
	AddRunFlags(cmd, runFlags)

	AddTasksCommand(cmd, flags, rt)
	AddPlanCommand(cmd, flags, rt)
	AddDependenciesCommand(cmd, flags, rt)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command and reports a failure on stderr. The
// returned error maps to the process exit code through ExitCodeForError.
func Execute(ctx context.Context, info BuildInfo, args []string, opts ...Option) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info, opts...)
	cmd.SetArgs(args)
	defer CloseLogFile()

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		out := tui.NewOutput(cmd.ErrOrStderr(), flags.Output)
		out.Error(tui.FromError(err))
	}
	return err
}
