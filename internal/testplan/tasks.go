package testplan

import (
	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/params"
)

// TestTask is one runnable partition of the test suite.
type TestTask struct {
	Name        string
	Description string
	SourceSet   string
	Selection   Selection
}

// Tasks returns every test task for the given build parameters.
//
// Only the default test task honors the conditional excludes: stress tests
// unless includeStress, local tests when disableLocal and architecture tests
// when skipQuality.
func Tasks(p params.Params) []TestTask {
	test := constants.SourceSetTest

	tasks := []TestTask{
		{
			Name:        constants.TaskTest,
			Description: "Runs the unit tests.",
			SourceSet:   test,
			Selection:   Selection{ExcludeTags: DefaultExcludes(p)},
		},
		{
			Name:        constants.TaskTestStress,
			Description: "Runs the tests tagged stress.",
			SourceSet:   test,
			Selection:   Selection{IncludeTags: []string{constants.TagStress}},
		},
		{
			Name:        constants.TaskTestLocal,
			Description: "Runs the tests tagged local.",
			SourceSet:   test,
			Selection:   Selection{IncludeTags: []string{constants.TagLocal}},
		},
		{
			Name:        constants.TaskTestNoFilesystem,
			Description: "Runs the tests that do not touch the filesystem.",
			SourceSet:   test,
			Selection:   Selection{ExcludeTags: []string{constants.TagFilesystem}},
		},
	}

	for _, pkg := range []struct{ task, pattern, area string }{
		{constants.TaskTestApp, "riid.app.*", "application"},
		{constants.TaskTestConfig, "riid.config.*", "configuration"},
		{constants.TaskTestClient, "riid.client.*", "client"},
		{constants.TaskTestDispatcher, "riid.dispatcher.*", "dispatcher"},
		{constants.TaskTestRuntime, "riid.runtime.*", "runtime"},
	} {
		tasks = append(tasks, TestTask{
			Name:        pkg.task,
			Description: "Runs the " + pkg.area + " tests (" + pkg.pattern + ").",
			SourceSet:   test,
			Selection:   Selection{ClassPatterns: []string{pkg.pattern}},
		})
	}

	for _, set := range []struct{ name, kind string }{
		{constants.SourceSetIntegrationTest, "integration"},
		{constants.SourceSetPerformanceTest, "performance"},
		{constants.SourceSetModuledTest, "module-path"},
	} {
		tasks = append(tasks, TestTask{
			Name:        set.name,
			Description: "Runs the " + set.kind + " tests.",
			SourceSet:   set.name,
		})
	}
	return tasks
}

// Find returns the test task called name.
func Find(p params.Params, name string) (TestTask, bool) {
	for _, t := range Tasks(p) {
		if t.Name == name {
			return t, true
		}
	}
	return TestTask{}, false
}

// DefaultExcludes returns the tags the default test task leaves out.
func DefaultExcludes(p params.Params) []string {
	var tags []string
	if !p.IncludeStress() {
		tags = append(tags, constants.TagStress)
	}
	if p.DisableLocal() {
		tags = append(tags, constants.TagLocal)
	}
	if p.SkipQuality() {
		tags = append(tags, constants.TagArchUnit)
	}
	return tags
}
