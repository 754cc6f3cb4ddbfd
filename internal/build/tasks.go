package build

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/UsatovPavel/RIID/internal/archive"
	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/graph"
	"github.com/UsatovPavel/RIID/internal/quality"
	"github.com/UsatovPavel/RIID/internal/testplan"
)

// compileTasks maps each source set to the task compiling it.
var compileTasks = map[string]string{
	constants.SourceSetMain:            constants.TaskCompileJava,
	constants.SourceSetTestFixtures:    constants.TaskCompileTestFixturesJava,
	constants.SourceSetTest:            constants.TaskCompileTestJava,
	constants.SourceSetIntegrationTest: constants.TaskCompileIntegrationTestJava,
	constants.SourceSetPerformanceTest: constants.TaskCompilePerformanceTestJava,
	constants.SourceSetModuledTest:     constants.TaskCompileModuledTestJava,
}

// CompileTask returns the name of the task compiling a source set.
func CompileTask(set string) string {
	return compileTasks[set]
}

func neverUpToDate(context.Context) (bool, error) { return false, nil }

func (p *Project) tasks() []*graph.Task {
	var tasks []*graph.Task
	tasks = append(tasks, p.compileTaskList()...)
	tasks = append(tasks, p.lifecycleTasks()...)
	tasks = append(tasks, p.qualityTasks()...)
	tasks = append(tasks, p.testTasks()...)
	tasks = append(tasks, p.dockerTasks()...)
	return tasks
}

func (p *Project) compileTaskList() []*graph.Task {
	fixtures := []string{constants.TaskCompileJava, constants.TaskCompileTestFixturesJava}
	deps := map[string][]string{
		constants.SourceSetMain:            nil,
		constants.SourceSetTestFixtures:    {constants.TaskCompileJava},
		constants.SourceSetTest:            fixtures,
		constants.SourceSetIntegrationTest: fixtures,
		constants.SourceSetPerformanceTest: fixtures,
		constants.SourceSetModuledTest:     fixtures,
	}

	var tasks []*graph.Task
	for _, name := range p.sets.Names() {
		set, _ := p.sets.Get(name)
		tasks = append(tasks, &graph.Task{
			Name:        compileTasks[name],
			Description: "Compiles the " + name + " Java sources.",
			DependsOn:   deps[name],
			Enabled:     true,
			UpToDate: func(ctx context.Context) (bool, error) {
				return p.compiler.UpToDate(ctx, set)
			},
			Action: func(ctx context.Context) error {
				return p.compiler.Compile(ctx, set)
			},
		})
	}
	return tasks
}

func (p *Project) lifecycleTasks() []*graph.Task {
	return []*graph.Task{
		{
			Name:        constants.TaskClasses,
			Group:       constants.GroupBuild,
			Description: "Assembles the main classes.",
			DependsOn:   []string{constants.TaskCompileJava},
			Enabled:     true,
		},
		{
			Name:        constants.TaskTestClasses,
			Group:       constants.GroupBuild,
			Description: "Assembles the test classes.",
			DependsOn:   []string{constants.TaskCompileTestJava},
			Enabled:     true,
		},
		{
			Name:        constants.TaskShadowJar,
			Group:       constants.GroupBuild,
			Description: "Assembles the application jar with its runtime dependencies.",
			DependsOn:   []string{constants.TaskClasses},
			Enabled:     true,
			Action:      p.shadowJar,
		},
		{
			Name:        constants.TaskAssemble,
			Group:       constants.GroupBuild,
			Description: "Assembles the outputs of this project.",
			DependsOn:   []string{constants.TaskShadowJar},
			Enabled:     true,
		},
		{
			Name:        constants.TaskBuild,
			Group:       constants.GroupBuild,
			Description: "Assembles and checks this project.",
			DependsOn:   []string{constants.TaskAssemble, constants.TaskCheck},
			Enabled:     true,
		},
		{
			Name:        constants.TaskClean,
			Group:       constants.GroupBuild,
			Description: "Deletes the build directory.",
			Enabled:     true,
			Action:      p.clean,
		},
	}
}

func (p *Project) shadowJar(ctx context.Context) error {
	main, err := p.sets.Get(constants.SourceSetMain)
	if err != nil {
		return err
	}
	cp, err := main.RuntimeClasspath(ctx)
	if err != nil {
		return err
	}

	spec := archive.Spec{Output: p.JarPath(), MainClass: p.cfg.Archive.MainClass}
	for _, entry := range cp {
		if strings.HasSuffix(entry, ".jar") {
			spec.Jars = append(spec.Jars, entry)
		} else {
			spec.Dirs = append(spec.Dirs, entry)
		}
	}
	_, err = archive.Build(ctx, spec)
	return err
}

func (p *Project) qualityTasks() []*graph.Task {
	enabled := !p.params.SkipQuality()

	var tasks []*graph.Task
	for _, a := range p.gate.Analyzers() {
		var deps []string
		if !strings.HasPrefix(a.Task, "checkstyle") {
			// PMD and SpotBugs read compiled classes.
			deps = []string{CompileTask(a.SourceSet)}
		}
		tasks = append(tasks, &graph.Task{
			Name:        a.Task,
			Group:       constants.GroupQuality,
			Description: "Writes " + a.Report + " for the " + a.SourceSet + " sources.",
			DependsOn:   deps,
			FinalizedBy: []string{constants.TaskAllReports},
			Enabled:     enabled,
			Action:      p.analyze(a),
		})
	}

	cov := p.gate.Coverage()
	tasks = append(tasks,
		&graph.Task{
			Name:        cov.Task,
			Group:       constants.GroupQuality,
			Description: "Writes the coverage report of the test task. Disabled unless tests.coverage_agent is set.",
			DependsOn:   []string{constants.TaskTest},
			Enabled:     enabled && p.cfg.Tests.CoverageAgent != "",
			Action:      p.analyze(cov),
		},
		&graph.Task{
			Name:        constants.TaskSpotlessCheck,
			Group:       constants.GroupQuality,
			Description: "Checks Java formatting. Disabled unless quality.spotless is set.",
			Enabled:     p.cfg.Quality.Spotless,
			Action:      func(ctx context.Context) error { return p.gate.Spotless(ctx, false) },
		},
		&graph.Task{
			Name:        constants.TaskSpotlessApply,
			Group:       constants.GroupQuality,
			Description: "Rewrites Java sources to the expected format. Disabled unless quality.spotless is set.",
			Enabled:     p.cfg.Quality.Spotless,
			Action:      func(ctx context.Context) error { return p.gate.Spotless(ctx, true) },
		},
		&graph.Task{
			Name:        constants.TaskCheck,
			Group:       constants.GroupVerification,
			Description: "Runs the static analyzers.",
			DependsOn:   constants.QualityTasks(),
			FinalizedBy: []string{constants.TaskAllReports},
			Enabled:     true,
		},
		&graph.Task{
			Name:        constants.TaskAllReports,
			Group:       constants.GroupReporting,
			Description: "Concatenates the analyzer reports into reports/all-reports.html.",
			Enabled:     true,
			Action: func(ctx context.Context) error {
				p.discardDisabledReports(ctx)
				// A write failure is already logged and must not fail the build.
				_ = p.aggregator.Aggregate(ctx)
				return nil
			},
		},
	)
	return tasks
}

// discardDisabledReports removes the reports of analyzers disabled in this
// invocation, so the combined report shows them as missing.
func (p *Project) discardDisabledReports(ctx context.Context) {
	for _, a := range append(p.gate.Analyzers(), p.gate.Coverage()) {
		if t, ok := p.graph.Task(a.Task); ok && t.Enabled {
			continue
		}
		if err := p.gate.Discard(a); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("task", a.Task).Msg("stale report not removed")
		}
	}
}

func (p *Project) analyze(a quality.Analyzer) graph.Action {
	return func(ctx context.Context) error { return p.gate.Run(ctx, a) }
}

func (p *Project) testTasks() []*graph.Task {
	var tasks []*graph.Task
	for _, tt := range testplan.Tasks(p.params) {
		tasks = append(tasks, &graph.Task{
			Name:        tt.Name,
			Group:       constants.GroupVerification,
			Description: tt.Description,
			DependsOn:   []string{CompileTask(tt.SourceSet)},
			Enabled:     true,
			UpToDate:    neverUpToDate,
			Action:      func(ctx context.Context) error { return p.launcher.Run(ctx, tt) },
		})
	}
	return append(tasks, &graph.Task{
		Name:        constants.TaskTestAll,
		Group:       constants.GroupVerification,
		Description: "Runs the default tests and the stress tests.",
		DependsOn:   []string{constants.TaskTest, constants.TaskTestStress},
		Enabled:     true,
	})
}

func (p *Project) dockerTasks() []*graph.Task {
	return []*graph.Task{
		{
			Name:        constants.TaskDockerBuild,
			Group:       constants.GroupDocker,
			Description: "Builds the demo image (" + p.cfg.Docker.DemoImage + ").",
			Enabled:     true,
			Action:      p.docker.BuildDemo,
		},
		{
			Name:        constants.TaskDockerBuildTestImage,
			Group:       constants.GroupDocker,
			Description: "Builds the test image (" + p.cfg.Docker.Target + " target).",
			Enabled:     true,
			Action:      p.docker.BuildTestImage,
		},
		{
			Name:        constants.TaskDockerRunTests,
			Group:       constants.GroupDocker,
			Description: "Runs the test task inside the test image.",
			DependsOn:   []string{constants.TaskDockerBuildTestImage},
			Enabled:     true,
			Action:      func(ctx context.Context) error { return p.docker.RunTests(ctx, p.params) },
		},
		{
			Name:        constants.TaskDockerTest,
			Group:       constants.GroupDocker,
			Description: "Builds the test image and runs the tests inside it.",
			DependsOn:   []string{constants.TaskDockerRunTests},
			Enabled:     true,
		},
	}
}
