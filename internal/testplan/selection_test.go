package testplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/params"
)

func mustParams(t *testing.T, props ...string) params.Params {
	t.Helper()
	p, err := params.Parse(props)
	require.NoError(t, err)
	return p
}

func TestSelection_Matches(t *testing.T) {
	tests := []struct {
		name      string
		sel       Selection
		className string
		tags      []string
		want      bool
	}{
		{"empty matches all", Selection{}, "riid.app.MainTest", []string{"stress"}, true},
		{"exclude drops tagged", Selection{ExcludeTags: []string{"stress"}}, "riid.A", []string{"stress"}, false},
		{"exclude keeps untagged", Selection{ExcludeTags: []string{"stress"}}, "riid.A", nil, true},
		{"include requires tag", Selection{IncludeTags: []string{"local"}}, "riid.A", nil, false},
		{"include keeps tagged", Selection{IncludeTags: []string{"local"}}, "riid.A", []string{"local", "x"}, true},
		{"exclude beats include", Selection{IncludeTags: []string{"local"}, ExcludeTags: []string{"x"}}, "riid.A", []string{"local", "x"}, false},
		{"pattern matches package", Selection{ClassPatterns: []string{"riid.app.*"}}, "riid.app.cli.MainTest", nil, true},
		{"pattern rejects other package", Selection{ClassPatterns: []string{"riid.app.*"}}, "riid.application.MainTest", nil, false},
		{"pattern dot is literal", Selection{ClassPatterns: []string{"riid.app.*"}}, "riidXappYTest", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.Matches(tt.className, tt.tags))
		})
	}
}

func TestSelection_Args(t *testing.T) {
	sel := Selection{
		IncludeTags:   []string{"local"},
		ExcludeTags:   []string{"stress", "archunit"},
		ClassPatterns: []string{"riid.config.*"},
	}
	assert.Equal(t, []string{
		"--include-tag", "local",
		"--exclude-tag", "stress",
		"--exclude-tag", "archunit",
		"--include-classname", `^riid\.config\..*$`,
	}, sel.Args())

	assert.Equal(t, []string{"--include-classname", ".*"}, Selection{}.Args())
}

func TestDefaultExcludes(t *testing.T) {
	tests := []struct {
		name  string
		props []string
		want  []string
	}{
		{"defaults", nil, []string{constants.TagStress}},
		{"include stress", []string{"includeStress"}, nil},
		{"disable local", []string{"disableLocal"}, []string{constants.TagStress, constants.TagLocal}},
		{"skip quality", []string{"skipQuality", "includeStress"}, []string{constants.TagArchUnit}},
		{"all", []string{"skipQuality", "disableLocal"}, []string{"stress", "local", "archunit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultExcludes(mustParams(t, tt.props...)))
		})
	}
}

func TestTasks(t *testing.T) {
	tasks := Tasks(mustParams(t, "disableLocal"))

	var names []string
	for _, task := range tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{
		"test", "testStress", "testLocal", "testNoFilesystem",
		"testApp", "testConfig", "testClient", "testDispatcher", "testRuntime",
		"integrationTest", "performanceTest", "moduledTest",
	}, names)

	test, ok := Find(mustParams(t, "disableLocal"), "test")
	require.True(t, ok)
	assert.Equal(t, []string{"stress", "local"}, test.Selection.ExcludeTags)

	// Conditional excludes apply to the default task only.
	stress, ok := Find(mustParams(t, "disableLocal"), "testStress")
	require.True(t, ok)
	assert.Equal(t, []string{"stress"}, stress.Selection.IncludeTags)
	assert.Empty(t, stress.Selection.ExcludeTags)

	dispatcher, ok := Find(params.Params{}, "testDispatcher")
	require.True(t, ok)
	assert.Equal(t, "test", dispatcher.SourceSet)
	assert.Equal(t, []string{"riid.dispatcher.*"}, dispatcher.Selection.ClassPatterns)

	integration, ok := Find(params.Params{}, "integrationTest")
	require.True(t, ok)
	assert.Equal(t, "integrationTest", integration.SourceSet)
	assert.Equal(t, Selection{}, integration.Selection)

	_, ok = Find(params.Params{}, "check")
	assert.False(t, ok)
}

func TestCompiledPattern_Cached(t *testing.T) {
	first := compiledPattern("riid.dispatcher.*")
	assert.Same(t, first, compiledPattern("riid.dispatcher.*"))
	assert.True(t, first.MatchString("riid.dispatcher.QueueTest"))
	assert.NotSame(t, first, compiledPattern("riid.config.*"))
}
