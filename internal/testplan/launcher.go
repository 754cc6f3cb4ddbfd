package testplan

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/UsatovPavel/RIID/internal/command"
	"github.com/UsatovPavel/RIID/internal/config"
	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/sourceset"
	"github.com/UsatovPavel/RIID/internal/toolchain"
)

// Launcher runs test tasks through the JUnit Platform console launcher.
type Launcher struct {
	exec       *command.Executor
	sets       *sourceset.Container
	toolchain  toolchain.Toolchain
	cfg        config.TestsConfig
	projectDir string
	buildDir   string
}

// NewLauncher creates a Launcher. projectDir and buildDir are absolute.
func NewLauncher(exec *command.Executor, sets *sourceset.Container, tc toolchain.Toolchain,
	cfg config.TestsConfig, projectDir, buildDir string,
) *Launcher {
	return &Launcher{
		exec:       exec,
		sets:       sets,
		toolchain:  tc,
		cfg:        cfg,
		projectDir: projectDir,
		buildDir:   buildDir,
	}
}

// ResultsDir returns the directory receiving t's JUnit XML reports.
func (l *Launcher) ResultsDir(t TestTask) string {
	return filepath.Join(l.buildDir, constants.TestResultsDir, t.Name)
}

// CoverageFile returns the JaCoCo execution data written by the test task.
func (l *Launcher) CoverageFile() string {
	return filepath.Join(l.buildDir, "jacoco", "test.exec")
}

// Args builds the launcher command line for t.
func (l *Launcher) Args(ctx context.Context, t TestTask) ([]string, error) {
	set, err := l.sets.Get(t.SourceSet)
	if err != nil {
		return nil, err
	}
	cp, err := set.RuntimeClasspath(ctx)
	if err != nil {
		return nil, err
	}

	args := []string{l.toolchain.Java()}
	args = append(args, l.cfg.JVMArgs...)
	if l.cfg.CoverageAgent != "" && t.Name == constants.TaskTest {
		args = append(args, "-javaagent:"+l.cfg.CoverageAgent+"=destfile="+l.CoverageFile())
	}
	args = append(args,
		"-jar", l.cfg.LauncherJar,
		"execute",
		"--class-path", strings.Join(cp, string(os.PathListSeparator)),
		"--scan-class-path", set.ClassesDir,
		"--reports-dir", l.ResultsDir(t),
	)
	return append(args, t.Selection.Args()...), nil
}

// Run executes t. A failing test run surfaces as a *command.ExitError.
func (l *Launcher) Run(ctx context.Context, t TestTask) error {
	args, err := l.Args(ctx, t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(l.ResultsDir(t), 0o750); err != nil {
		return errors.Wrapf(err, "create results directory for %s", t.Name)
	}

	zerolog.Ctx(ctx).Debug().
		Str("task", t.Name).
		Strs("include_tags", t.Selection.IncludeTags).
		Strs("exclude_tags", t.Selection.ExcludeTags).
		Strs("class_patterns", t.Selection.ClassPatterns).
		Msg("launching tests")

	_, err = l.exec.Run(ctx, command.Cmd{Args: args, Dir: l.projectDir, Label: t.Name})
	return err
}

// Plan scans t's source set and returns the classes and methods t selects.
func (l *Launcher) Plan(t TestTask) ([]Selected, error) {
	set, err := l.sets.Get(t.SourceSet)
	if err != nil {
		return nil, err
	}
	classes, err := Scan(set.ExistingJavaDirs())
	if err != nil {
		return nil, err
	}
	return Select(t.Selection, classes), nil
}
