package quality

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
	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/dependency"
	rerrors "github.com/UsatovPavel/RIID/internal/errors"
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

func newGate(t *testing.T, cfg config.QualityConfig) (string, *command.MockRunner, *Gate) {
	t.Helper()
	project := t.TempDir()
	write(t, filepath.Join(project, "src/main/java/riid/app/Main.java"), "class Main {}")
	write(t, filepath.Join(project, "src/test/java/riid/app/MainTest.java"), "class MainTest {}")

	sets := sourceset.NewContainer(project, "build", dependency.NewResolver(filepath.Join(project, "repo")))
	mock := command.NewMockRunner()
	mock.SetDefault(command.MockResponse{})
	gate := NewGate(command.NewExecutor(mock, nil), sets, toolchain.Toolchain{Version: 21},
		cfg, project, filepath.Join(project, "build"))
	return project, mock, gate
}

func TestExpand(t *testing.T) {
	v := Vars{
		Sources:     []string{"/p/src/main/java", "/p/src/extra"},
		SourceFiles: []string{"/p/A.java"},
		Classes:     []string{"/p/build/classes/java/main"},
		Classpath:   []string{"/a.jar", "/b.jar"},
		Report:      "/p/build/reports/pmd/main.html",
		ReportDir:   "/p/build/reports/pmd",
		Config:      "/p/config/checkstyle/checkstyle.xml",
		JavaVersion: "21",
		BuildDir:    "/p/build",
	}

	got := Expand([]string{
		"tool", "{sources}", "--cp", "{classpath}", "--out={report}",
		"-c", "{config}", "--release", "{javaVersion}", "{buildDir}/jacoco/test.exec",
		"--dirs={sources}", "{classes}", "--html", "{reportDir}",
	}, v)

	assert.Equal(t, []string{
		"tool", "/p/src/main/java", "/p/src/extra",
		"--cp", "/a.jar" + string(os.PathListSeparator) + "/b.jar",
		"--out=/p/build/reports/pmd/main.html",
		"-c", "/p/config/checkstyle/checkstyle.xml",
		"--release", "21", "/p/build/jacoco/test.exec",
		"--dirs=/p/src/main/java,/p/src/extra",
		"/p/build/classes/java/main",
		"--html", "/p/build/reports/pmd",
	}, got)
}

func TestExpand_EmptyListDropsArgument(t *testing.T) {
	got := Expand([]string{"fmt", "{sourceFiles}", "--flag"}, Vars{})
	assert.Equal(t, []string{"fmt", "--flag"}, got)
}

func TestGate_Analyzers(t *testing.T) {
	_, _, gate := newGate(t, config.DefaultConfig().Quality)

	var tasks, reports []string
	for _, a := range gate.Analyzers() {
		tasks = append(tasks, a.Task)
		reports = append(reports, a.Report)
	}
	assert.Equal(t, constants.QualityTasks(), tasks)
	assert.Equal(t, constants.QualityReports(), reports)
}

func TestGate_Run(t *testing.T) {
	project, mock, gate := newGate(t, config.DefaultConfig().Quality)

	analyzers := gate.Analyzers()
	require.NoError(t, gate.Run(testContext(), analyzers[0]))

	calls := mock.CallsTo("checkstyle")
	require.Len(t, calls, 1)
	native := filepath.Join(project, "build", "reports", "checkstyle", "main.xml")
	assert.Equal(t, []string{
		"checkstyle",
		"-c", filepath.Join(project, "config", "checkstyle", "checkstyle.xml"),
		"-f", "xml",
		"-o", native,
		filepath.Join(project, "src", "main", "java"),
	}, calls[0].Args)
	assert.Equal(t, constants.TaskCheckstyleMain, calls[0].Label)
	assert.DirExists(t, filepath.Dir(native))
}

func TestGate_Run_RendersCheckstyleXML(t *testing.T) {
	project, mock, gate := newGate(t, config.DefaultConfig().Quality)
	native := filepath.Join(project, "build", "reports", "checkstyle", "main.xml")
	output := `<?xml version="1.0" encoding="UTF-8"?>
<checkstyle version="10.17.0">
<file name="/p/src/main/java/riid/app/Main.java">
<error line="3" column="5" severity="warning" message="Missing a Javadoc comment &lt;init&gt;." source="com.puppycrawl.tools.checkstyle.checks.javadoc.MissingJavadocMethodCheck"/>
</file>
</checkstyle>`
	mock.SetResponse([]string{"checkstyle"}, command.MockResponse{
		ExitCode: 1,
		Hook:     func(command.Cmd) { write(t, native, output) },
	})

	err := gate.Run(testContext(), gate.Analyzers()[0])
	require.Error(t, err, "checkstyle exits non-zero on findings")

	data, err := os.ReadFile(filepath.Join(project, "build", "reports", "checkstyle", "main.html"))
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "<body>")
	assert.Contains(t, doc, "1 file(s), 1 finding(s)")
	assert.Contains(t, doc, ">Main.java</td>")
	assert.Contains(t, doc, "<td>3:5</td>")
	assert.Contains(t, doc, "Missing a Javadoc comment &lt;init&gt;.")
	assert.NotContains(t, doc, "<checkstyle")
}

func TestRenderCheckstyle_Unparseable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.xml")
	write(t, src, "Starting audit...\n<oops>")

	require.NoError(t, RenderCheckstyle(src, filepath.Join(dir, "main.html")))
	data, err := os.ReadFile(filepath.Join(dir, "main.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<pre>Starting audit...\n&lt;oops&gt;</pre>")
}

func TestGate_Run_DiscardsPreviousReport(t *testing.T) {
	project, _, gate := newGate(t, config.DefaultConfig().Quality)
	stale := filepath.Join(project, "build", "reports", "pmd", "main.html")
	write(t, stale, "<html><body>old</body></html>")

	require.NoError(t, gate.Run(testContext(), gate.Analyzers()[2]))
	assert.NoFileExists(t, stale, "the tool wrote nothing this time")
}

func TestGate_Discard(t *testing.T) {
	project, _, gate := newGate(t, config.DefaultConfig().Quality)
	html := filepath.Join(project, "build", "reports", "checkstyle", "test.html")
	xml := filepath.Join(project, "build", "reports", "checkstyle", "test.xml")
	write(t, html, "old")
	write(t, xml, "old")

	require.NoError(t, gate.Discard(gate.Analyzers()[1]))
	assert.NoFileExists(t, html)
	assert.NoFileExists(t, xml)
	require.NoError(t, gate.Discard(gate.Analyzers()[1]), "nothing to remove")
}

func TestGate_Run_TestSourceSet(t *testing.T) {
	project, mock, gate := newGate(t, config.DefaultConfig().Quality)

	require.NoError(t, gate.Run(testContext(), gate.Analyzers()[5]))

	calls := mock.CallsTo("spotbugs")
	require.Len(t, calls, 1)
	args := calls[0].Args
	assert.Equal(t, filepath.Join(project, "build", "classes", "java", "test"), args[len(args)-1])
	assert.Contains(t, args, filepath.Join(project, "build", "reports", "spotbugs", "test.html"))
}

func TestGate_Run_Failure(t *testing.T) {
	_, mock, gate := newGate(t, config.DefaultConfig().Quality)
	mock.SetResponse([]string{"pmd"}, command.MockResponse{ExitCode: 4, Stderr: "violations"})

	err := gate.Run(testContext(), gate.Analyzers()[2])
	require.ErrorIs(t, err, rerrors.ErrCommandFailed)
	code, ok := command.ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 4, code)
}

func TestGate_Run_NotConfigured(t *testing.T) {
	cfg := config.DefaultConfig().Quality
	cfg.PMD = nil
	_, _, gate := newGate(t, cfg)

	err := gate.Run(testContext(), gate.Analyzers()[2])
	require.ErrorIs(t, err, rerrors.ErrCommandNotConfigured)
}

func TestGate_Coverage(t *testing.T) {
	project, mock, gate := newGate(t, config.DefaultConfig().Quality)

	cov := gate.Coverage()
	assert.Equal(t, constants.TaskJacocoReport, cov.Task)
	require.NoError(t, gate.Run(testContext(), cov))

	calls := mock.CallsTo("java")
	require.Len(t, calls, 1)
	build := filepath.Join(project, "build")
	assert.Equal(t, []string{
		"java", "-jar", "jacococli.jar", "report", build + "/jacoco/test.exec",
		"--classfiles", filepath.Join(build, "classes", "java", "main"),
		"--sourcefiles", filepath.Join(project, "src", "main", "java"),
		"--html", filepath.Join(build, "reports", "jacoco", "test", "html"),
	}, calls[0].Args)
}

func TestGate_Spotless(t *testing.T) {
	project, mock, gate := newGate(t, config.DefaultConfig().Quality)

	require.NoError(t, gate.Spotless(testContext(), false))
	require.NoError(t, gate.Spotless(testContext(), true))

	calls := mock.CallsTo("google-java-format")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{
		"google-java-format", "--dry-run", "--set-exit-if-changed",
		filepath.Join(project, "src", "main", "java", "riid", "app", "Main.java"),
		filepath.Join(project, "src", "test", "java", "riid", "app", "MainTest.java"),
	}, calls[0].Args)
	assert.Equal(t, "--replace", calls[1].Args[1])
}
