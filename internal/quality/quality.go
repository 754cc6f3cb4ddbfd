// Package quality runs the static analyzers and the coverage report of the
// quality gate as opaque external commands.
package quality

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/UsatovPavel/RIID/internal/command"
	"github.com/UsatovPavel/RIID/internal/config"
	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/sourceset"
	"github.com/UsatovPavel/RIID/internal/toolchain"
)

// Analyzer binds one quality task to its command template, its source set
// and its report path relative to the reports directory. Native is set when
// the tool writes a format other than HTML; {report} then names the native
// file and the gate renders Report from it.
type Analyzer struct {
	Task      string
	SourceSet string
	Report    string
	Native    string
	Command   []string
}

// Gate runs analyzers for a project.
type Gate struct {
	exec       *command.Executor
	sets       *sourceset.Container
	toolchain  toolchain.Toolchain
	cfg        config.QualityConfig
	projectDir string
	buildDir   string
}

// NewGate creates a Gate. projectDir and buildDir are absolute.
func NewGate(exec *command.Executor, sets *sourceset.Container, tc toolchain.Toolchain,
	cfg config.QualityConfig, projectDir, buildDir string,
) *Gate {
	return &Gate{
		exec:       exec,
		sets:       sets,
		toolchain:  tc,
		cfg:        cfg,
		projectDir: projectDir,
		buildDir:   buildDir,
	}
}

// Analyzers returns the six analyzer tasks in report order.
func (g *Gate) Analyzers() []Analyzer {
	return []Analyzer{
		{constants.TaskCheckstyleMain, constants.SourceSetMain, constants.ReportCheckstyleMain, constants.ReportCheckstyleMainXML, g.cfg.Checkstyle},
		{constants.TaskCheckstyleTest, constants.SourceSetTest, constants.ReportCheckstyleTest, constants.ReportCheckstyleTestXML, g.cfg.Checkstyle},
		{constants.TaskPMDMain, constants.SourceSetMain, constants.ReportPMDMain, "", g.cfg.PMD},
		{constants.TaskPMDTest, constants.SourceSetTest, constants.ReportPMDTest, "", g.cfg.PMD},
		{constants.TaskSpotbugsMain, constants.SourceSetMain, constants.ReportSpotbugsMain, "", g.cfg.Spotbugs},
		{constants.TaskSpotbugsTest, constants.SourceSetTest, constants.ReportSpotbugsTest, "", g.cfg.Spotbugs},
	}
}

// Coverage returns the JaCoCo report task over the main source set.
func (g *Gate) Coverage() Analyzer {
	return Analyzer{
		Task:      constants.TaskJacocoReport,
		SourceSet: constants.SourceSetMain,
		Report:    constants.ReportJacoco,
		Command:   g.cfg.Jacoco,
	}
}

// ReportsDir returns the absolute reports directory.
func (g *Gate) ReportsDir() string {
	return filepath.Join(g.buildDir, constants.ReportsDir)
}

// ReportPath returns the absolute path of a's report.
func (g *Gate) ReportPath(a Analyzer) string {
	return filepath.Join(g.ReportsDir(), filepath.FromSlash(a.Report))
}

// NativePath returns the absolute path of a's native report, or "" when the
// tool writes HTML directly.
func (g *Gate) NativePath(a Analyzer) string {
	if a.Native == "" {
		return ""
	}
	return filepath.Join(g.ReportsDir(), filepath.FromSlash(a.Native))
}

// Discard removes the reports of a so an earlier run cannot pass for the
// current one.
func (g *Gate) Discard(a Analyzer) error {
	for _, path := range []string{g.ReportPath(a), g.NativePath(a)} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "remove stale report of %s", a.Task)
		}
	}
	return nil
}

// Run executes a after clearing its previous report and creating its report
// directory. A native report is rendered to HTML even when the tool exits
// non-zero, since analyzers fail on findings.
func (g *Gate) Run(ctx context.Context, a Analyzer) error {
	if len(a.Command) == 0 {
		return errors.Wrapf(errors.ErrCommandNotConfigured, "%s", a.Task)
	}

	set, err := g.sets.Get(a.SourceSet)
	if err != nil {
		return err
	}

	if err := g.Discard(a); err != nil {
		return err
	}
	report := g.ReportPath(a)
	if err := os.MkdirAll(filepath.Dir(report), 0o750); err != nil {
		return errors.Wrapf(err, "create report directory for %s", a.Task)
	}

	vars, err := g.vars(ctx, set)
	if err != nil {
		return err
	}
	vars.Report = report
	vars.ReportDir = filepath.Dir(report)
	native := g.NativePath(a)
	if native != "" {
		vars.Report = native
	}

	args := Expand(a.Command, vars)
	_, runErr := g.exec.Run(ctx, command.Cmd{Args: args, Dir: g.projectDir, Label: a.Task})

	if native != "" && fileExists(native) {
		if err := RenderCheckstyle(native, report); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("task", a.Task).Msg("report not rendered")
		}
	}
	if runErr != nil {
		return runErr
	}

	zerolog.Ctx(ctx).Info().Str("task", a.Task).Str("report", report).Msg("analyzer finished")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Spotless runs the formatter over the main and test sources, rewriting
// them when apply is set.
func (g *Gate) Spotless(ctx context.Context, apply bool) error {
	tmpl, label := g.cfg.SpotlessCheck, constants.TaskSpotlessCheck
	if apply {
		tmpl, label = g.cfg.SpotlessApply, constants.TaskSpotlessApply
	}
	if len(tmpl) == 0 {
		return errors.Wrapf(errors.ErrCommandNotConfigured, "%s", label)
	}

	var vars Vars
	for _, name := range []string{constants.SourceSetMain, constants.SourceSetTest} {
		set, err := g.sets.Get(name)
		if err != nil {
			return err
		}
		files, err := set.JavaFiles()
		if err != nil {
			return err
		}
		vars.SourceFiles = append(vars.SourceFiles, files...)
		vars.Sources = append(vars.Sources, set.ExistingJavaDirs()...)
	}
	if len(vars.SourceFiles) == 0 {
		zerolog.Ctx(ctx).Info().Str("task", label).Msg("no java sources to format")
		return nil
	}
	vars.JavaVersion = strconv.Itoa(g.toolchain.Version)
	vars.BuildDir = g.buildDir

	_, err := g.exec.Run(ctx, command.Cmd{Args: Expand(tmpl, vars), Dir: g.projectDir, Label: label})
	return err
}

func (g *Gate) vars(ctx context.Context, set *sourceset.SourceSet) (Vars, error) {
	files, err := set.JavaFiles()
	if err != nil {
		return Vars{}, err
	}
	cp, err := set.CompileClasspath(ctx)
	if err != nil {
		return Vars{}, err
	}

	cfgPath := g.cfg.CheckstyleConfig
	if cfgPath != "" && !filepath.IsAbs(cfgPath) {
		cfgPath = filepath.Join(g.projectDir, cfgPath)
	}

	return Vars{
		Sources:     set.ExistingJavaDirs(),
		SourceFiles: files,
		Classes:     []string{set.ClassesDir},
		Classpath:   cp,
		Config:      cfgPath,
		JavaVersion: strconv.Itoa(g.toolchain.Version),
		BuildDir:    g.buildDir,
	}, nil
}
