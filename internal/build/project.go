// Package build assembles the task graph of a project from its configuration
// and build parameters, and executes requested tasks against it.
package build

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/UsatovPavel/RIID/internal/clock"
	"github.com/UsatovPavel/RIID/internal/command"
	"github.com/UsatovPavel/RIID/internal/compile"
	"github.com/UsatovPavel/RIID/internal/config"
	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/container"
	"github.com/UsatovPavel/RIID/internal/dependency"
	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/flock"
	"github.com/UsatovPavel/RIID/internal/graph"
	"github.com/UsatovPavel/RIID/internal/params"
	"github.com/UsatovPavel/RIID/internal/quality"
	"github.com/UsatovPavel/RIID/internal/report"
	"github.com/UsatovPavel/RIID/internal/sourceset"
	"github.com/UsatovPavel/RIID/internal/testplan"
	"github.com/UsatovPavel/RIID/internal/toolchain"
)

// Options configures a Project.
type Options struct {
	// ProjectDir is the project root. Empty means the working directory.
	ProjectDir string

	// Config is the loaded configuration. Nil means the defaults.
	Config *config.Config

	// Params are the -P build parameters of this invocation.
	Params params.Params

	// Runner executes subprocesses. Nil means a command.DefaultRunner.
	Runner command.Runner

	// Stdout receives user-facing announcements such as the combined report path.
	Stdout io.Writer

	// Live receives streamed subprocess output. Nil disables streaming.
	Live io.Writer

	// Clock times tasks and the run summary. Nil means the system clock.
	Clock clock.Clock

	// BuildID identifies the invocation. Empty means a random UUID.
	BuildID string
}

// Project is a configured build: its toolchain, source sets and task graph.
type Project struct {
	dir      string
	buildDir string
	buildID  string
	cfg      *config.Config
	params   params.Params
	clock    clock.Clock

	toolchain  toolchain.Toolchain
	resolver   *dependency.Resolver
	sets       *sourceset.Container
	compiler   *compile.Compiler
	gate       *quality.Gate
	launcher   *testplan.Launcher
	docker     *container.Orchestrator
	aggregator *report.Aggregator

	graph *graph.Graph
}

// New configures a project. Every error it returns is a configuration error:
// an invalid toolchain, an invalid dependency manifest or a malformed graph.
func New(ctx context.Context, opts Options) (*Project, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	dir := opts.ProjectDir
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolve project directory")
	}

	buildDir := cfg.Paths.BuildDir
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(dir, buildDir)
	}

	tc, err := toolchain.Select(opts.Params, cfg.Toolchain)
	if err != nil {
		return nil, err
	}

	repo := cfg.Dependencies.Repository
	if repo == "" {
		repo = config.DefaultRepository()
	}
	resolver := dependency.NewResolver(repo)
	resolver.SetVariable("java_version", strconv.Itoa(tc.Version))

	manifest := cfg.Dependencies.Manifest
	if !filepath.IsAbs(manifest) {
		manifest = filepath.Join(dir, manifest)
	}
	if err := dependency.LoadManifest(ctx, manifest, resolver); err != nil {
		return nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = &command.DefaultRunner{Grace: cfg.Command.TerminateGrace}
	}
	exec := command.NewExecutor(runner, opts.Live)

	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	buildID := opts.BuildID
	if buildID == "" {
		buildID = uuid.NewString()
	}

	sets := sourceset.NewContainer(dir, buildDir, resolver)
	p := &Project{
		dir:       dir,
		buildDir:  buildDir,
		buildID:   buildID,
		cfg:       cfg,
		params:    opts.Params,
		clock:     clk,
		toolchain: tc,
		resolver:  resolver,
		sets:      sets,
		compiler:  compile.NewCompiler(exec, tc, dir, filepath.Join(buildDir, constants.TmpDir)),
		gate:      quality.NewGate(exec, sets, tc, cfg.Quality, dir, buildDir),
		launcher:  testplan.NewLauncher(exec, sets, tc, cfg.Tests, dir, buildDir),
		docker:    container.NewOrchestrator(exec, cfg.Docker, dir),
		aggregator: report.NewAggregator(
			filepath.Join(buildDir, constants.ReportsDir), constants.QualityReports(), opts.Stdout),
	}

	g := graph.New()
	for _, t := range p.tasks() {
		if err := g.Add(t); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	p.graph = g

	if cfg.Tests.CoverageAgent == "" {
		zerolog.Ctx(ctx).Debug().
			Str("task", constants.TaskJacocoReport).
			Msg("coverage report disabled: tests.coverage_agent is not set")
	}
	zerolog.Ctx(ctx).Debug().
		Str("project", dir).
		Str("toolchain", tc.String()).
		Int("tasks", len(g.Names())).
		Msg("project configured")
	return p, nil
}

// Dir returns the absolute project directory.
func (p *Project) Dir() string { return p.dir }

// BuildDir returns the absolute build directory.
func (p *Project) BuildDir() string { return p.buildDir }

// BuildID returns the invocation identifier.
func (p *Project) BuildID() string { return p.buildID }

// Toolchain returns the selected toolchain.
func (p *Project) Toolchain() toolchain.Toolchain { return p.toolchain }

// Params returns the build parameters.
func (p *Project) Params() params.Params { return p.params }

// Graph returns the task graph.
func (p *Project) Graph() *graph.Graph { return p.graph }

// Resolver returns the dependency resolver.
func (p *Project) Resolver() *dependency.Resolver { return p.resolver }

// SourceSets returns the source set container.
func (p *Project) SourceSets() *sourceset.Container { return p.sets }

// JarPath returns the path of the shadowed jar.
func (p *Project) JarPath() string {
	return filepath.Join(p.buildDir, constants.LibsDir, p.cfg.Archive.JarName)
}

// Plan returns the execution plan for the requested tasks.
func (p *Project) Plan(requested ...string) (*graph.Plan, error) {
	if len(requested) == 0 {
		return nil, errors.ErrNoTasksRequested
	}
	return p.graph.Plan(requested...)
}

// TestSelection scans the sources of a test task and returns what it selects.
func (p *Project) TestSelection(name string) (testplan.TestTask, []testplan.Selected, error) {
	t, ok := testplan.Find(p.params, name)
	if !ok {
		return testplan.TestTask{}, nil, errors.Wrapf(errors.ErrNotATestTask, "%q", name)
	}
	selected, err := p.launcher.Plan(t)
	return t, selected, err
}

// Run executes the requested tasks while holding the build directory lock
// and writes the run summary. The report is returned even when tasks failed.
func (p *Project) Run(ctx context.Context, plan *graph.Plan, workers int, observer graph.Observer) (*graph.Report, error) {
	log := zerolog.Ctx(ctx)

	lock, err := flock.Acquire(filepath.Join(p.buildDir, constants.LockFileName))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn().Err(err).Msg("failed to release build lock")
		}
	}()

	if workers <= 0 {
		workers = p.cfg.Workers
	}
	exec := graph.NewExecutor(workers, graph.WithObserver(observer), graph.WithClock(p.clock))

	started := p.clock.Now()
	rep, runErr := exec.Run(ctx, plan)
	finished := p.clock.Now()

	summary := NewSummary(p, plan, rep, started, finished)
	if err := summary.Write(p.SummaryPath()); err != nil {
		log.Warn().Err(err).Msg("failed to write build summary")
	}
	return rep, runErr
}

// SummaryPath returns the path of the YAML run summary.
func (p *Project) SummaryPath() string {
	return filepath.Join(p.buildDir, constants.ReportsDir, constants.SummaryFileName)
}

// clean removes everything under the build directory except the lock file
// held by this invocation.
func (p *Project) clean(ctx context.Context) error {
	entries, err := os.ReadDir(p.buildDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read %s", p.buildDir)
	}
	removed := 0
	for _, e := range entries {
		if e.Name() == constants.LockFileName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(p.buildDir, e.Name())); err != nil {
			return errors.Wrapf(err, "remove %s", e.Name())
		}
		removed++
	}
	zerolog.Ctx(ctx).Info().Str("dir", p.buildDir).Int("entries", removed).Msg("build directory cleaned")
	return nil
}
