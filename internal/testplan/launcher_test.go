package testplan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UsatovPavel/RIID/internal/command"
	"github.com/UsatovPavel/RIID/internal/config"
	"github.com/UsatovPavel/RIID/internal/dependency"
	rerrors "github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/params"
	"github.com/UsatovPavel/RIID/internal/sourceset"
	"github.com/UsatovPavel/RIID/internal/toolchain"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

const storeTest = `package riid.runtime;

import org.junit.jupiter.api.Tag;
import org.junit.jupiter.api.Test;

/* Block comment mentioning class Fake { } */
@Tag("filesystem")
class StoreTest {
    @Test
    void writesLayers() {}

    // @Test void commentedOut() {}

    @Tag("stress")
    @Test
    void writesManyLayers() {
        helper();
    }

    @Tags({@Tag("local"), @Tag("slow")})
    @ParameterizedTest
    @ValueSource(strings = {"a", "b"})
    void readsFromDisk(String name) {}

    private void helper() {}
}
`

const dispatcherTest = `package riid.dispatcher;

import org.junit.jupiter.api.Test;

public class DispatcherTest {
    @Test void dispatches() {}
}
`

const notATest = `package riid.app;

public class Main {
    public static void main(String[] args) {}
}
`

func setup(t *testing.T, cfg config.TestsConfig) (string, *command.MockRunner, *Launcher) {
	t.Helper()
	project := t.TempDir()
	write(t, filepath.Join(project, "src/test/java/riid/runtime/StoreTest.java"), storeTest)
	write(t, filepath.Join(project, "src/test/java/riid/dispatcher/DispatcherTest.java"), dispatcherTest)
	write(t, filepath.Join(project, "src/test/java/riid/app/Main.java"), notATest)

	sets := sourceset.NewContainer(project, "build", dependency.NewResolver(filepath.Join(project, "repo")))
	mock := command.NewMockRunner()
	mock.SetResponse([]string{"java"}, command.MockResponse{})
	l := NewLauncher(command.NewExecutor(mock, nil), sets, toolchain.Toolchain{Version: 21},
		cfg, project, filepath.Join(project, "build"))
	return project, mock, l
}

func TestScan(t *testing.T) {
	project, _, _ := setup(t, config.DefaultConfig().Tests)

	classes, err := Scan([]string{filepath.Join(project, "src/test/java"), filepath.Join(project, "missing")})
	require.NoError(t, err)
	require.Len(t, classes, 2)

	assert.Equal(t, "riid.dispatcher.DispatcherTest", classes[0].Name)
	assert.Equal(t, []TestMethod{{Name: "dispatches"}}, classes[0].Methods)

	store := classes[1]
	assert.Equal(t, "riid.runtime.StoreTest", store.Name)
	assert.Equal(t, []string{"filesystem"}, store.Tags)
	assert.Equal(t, []TestMethod{
		{Name: "writesLayers"},
		{Name: "writesManyLayers", Tags: []string{"stress"}},
		{Name: "readsFromDisk", Tags: []string{"local", "slow"}},
	}, store.Methods)
	assert.Equal(t, []string{"filesystem", "stress"}, store.EffectiveTags(store.Methods[1]))
}

func TestLauncher_Plan(t *testing.T) {
	_, _, l := setup(t, config.DefaultConfig().Tests)

	test, _ := Find(params.Params{}, "test")
	selected, err := l.Plan(test)
	require.NoError(t, err)
	assert.Equal(t, []Selected{
		{Class: "riid.dispatcher.DispatcherTest", Methods: []string{"dispatches"}},
		{Class: "riid.runtime.StoreTest", Methods: []string{"writesLayers", "readsFromDisk"}},
	}, selected)

	noFS, _ := Find(params.Params{}, "testNoFilesystem")
	selected, err = l.Plan(noFS)
	require.NoError(t, err)
	assert.Equal(t, []Selected{
		{Class: "riid.dispatcher.DispatcherTest", Methods: []string{"dispatches"}},
	}, selected)

	runtime, _ := Find(params.Params{}, "testRuntime")
	selected, err = l.Plan(runtime)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "riid.runtime.StoreTest", selected[0].Class)
	assert.Len(t, selected[0].Methods, 3)
}

func TestLauncher_Run(t *testing.T) {
	cfg := config.DefaultConfig().Tests
	cfg.JVMArgs = []string{"-Xmx1g"}
	cfg.CoverageAgent = "/opt/jacocoagent.jar"
	project, mock, l := setup(t, cfg)

	test, _ := Find(params.Params{}, "test")
	require.NoError(t, l.Run(testContext(), test))

	calls := mock.CallsTo("java")
	require.Len(t, calls, 1)
	args := calls[0].Args
	build := filepath.Join(project, "build")
	assert.Equal(t, []string{
		"java", "-Xmx1g",
		"-javaagent:/opt/jacocoagent.jar=destfile=" + filepath.Join(build, "jacoco", "test.exec"),
		"-jar", "junit-platform-console-standalone.jar",
		"execute",
		"--class-path",
	}, args[:7])
	assert.Equal(t, filepath.Join(build, "classes", "java", "test"), args[7][:len(filepath.Join(build, "classes", "java", "test"))])
	assert.Equal(t, []string{
		"--scan-class-path", filepath.Join(build, "classes", "java", "test"),
		"--reports-dir", filepath.Join(build, "test-results", "test"),
		"--exclude-tag", "stress",
		"--include-classname", ".*",
	}, args[8:])
	assert.DirExists(t, filepath.Join(build, "test-results", "test"))
}

func TestLauncher_Run_NoAgentOutsideTestTask(t *testing.T) {
	cfg := config.DefaultConfig().Tests
	cfg.CoverageAgent = "/opt/jacocoagent.jar"
	_, mock, l := setup(t, cfg)

	stress, _ := Find(params.Params{}, "testStress")
	require.NoError(t, l.Run(testContext(), stress))

	args := mock.CallsTo("java")[0].Args
	assert.Equal(t, "-jar", args[1])
	assert.Contains(t, args, "--include-tag")
}

func TestLauncher_Run_Failure(t *testing.T) {
	_, mock, l := setup(t, config.DefaultConfig().Tests)
	mock.SetResponse([]string{"java"}, command.MockResponse{ExitCode: 1, Stderr: "1 test failed"})

	test, _ := Find(params.Params{}, "integrationTest")
	err := l.Run(testContext(), test)
	require.ErrorIs(t, err, rerrors.ErrCommandFailed)
}
