package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UsatovPavel/RIID/internal/constants"
	rerrors "github.com/UsatovPavel/RIID/internal/errors"
)

// isolateHome points HOME at an empty directory so no real ~/.riid/build.yaml leaks in.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RIID_HOME", "")
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	isolateHome(t)

	cfg, err := Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, constants.DefaultJavaVersion, cfg.Toolchain.JavaVersion)
	assert.Equal(t, "build", cfg.Paths.BuildDir)
	assert.Equal(t, "riid.app.Main", cfg.Archive.MainClass)
	assert.Equal(t, []string{"riid-build"}, cfg.Docker.DriverCommand)
	assert.False(t, cfg.Quality.Spotless)
	assert.Equal(t, constants.TerminateGracePeriod, cfg.Command.TerminateGrace)
}

func TestLoadFromPaths_ProjectConfigOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "global.yaml")
	project := filepath.Join(dir, "project.yaml")

	writeFile(t, global, `
toolchain:
  java_version: 17
  java_home: /opt/jdk
archive:
  main_class: riid.app.RiidCli
`)
	writeFile(t, project, `
toolchain:
  java_version: 21
`)

	cfg, err := LoadFromPaths(context.Background(), project, global)
	require.NoError(t, err)

	assert.Equal(t, 21, cfg.Toolchain.JavaVersion, "project should override global")
	assert.Equal(t, "/opt/jdk", cfg.Toolchain.JavaHome, "global value should survive the merge")
	assert.Equal(t, "riid.app.RiidCli", cfg.Archive.MainClass)
}

func TestLoadFromPaths_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFromPaths(context.Background(),
		filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "nope-either.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Docker, cfg.Docker)
}

func TestLoad_ProjectConfigFile(t *testing.T) {
	isolateHome(t)
	project := t.TempDir()
	writeFile(t, filepath.Join(project, constants.ProjectConfigName), `
quality:
  spotless: true
docker:
  driver_command: ["./gradlew"]
command:
  terminate_grace: 3s
`)

	cfg, err := Load(context.Background(), project)
	require.NoError(t, err)

	assert.True(t, cfg.Quality.Spotless)
	assert.Equal(t, []string{"./gradlew"}, cfg.Docker.DriverCommand)
	assert.Equal(t, 3*time.Second, cfg.Command.TerminateGrace)
}

func TestLoad_GlobalConfigFile(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, constants.RiidHome, constants.GlobalConfigName), `
workers: 3
`)

	cfg, err := Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_EnvVarOverridesConfigFile(t *testing.T) {
	isolateHome(t)
	project := t.TempDir()
	writeFile(t, filepath.Join(project, constants.ProjectConfigName), `
toolchain:
  java_version: 17
`)
	t.Setenv("RIID_TOOLCHAIN_JAVA_VERSION", "21")
	t.Setenv("RIID_TESTS_JVM_ARGS", "-ea,-Xmx1g")

	cfg, err := Load(context.Background(), project)
	require.NoError(t, err)

	assert.Equal(t, 21, cfg.Toolchain.JavaVersion)
	assert.Equal(t, []string{"-ea", "-Xmx1g"}, cfg.Tests.JVMArgs)
}

func TestLoadWithOverrides_AppliesCLIOverrides(t *testing.T) {
	isolateHome(t)

	cfg, err := LoadWithOverrides(context.Background(), t.TempDir(), &Config{Workers: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, "build", cfg.Paths.BuildDir, "zero override values are ignored")
}

func TestLoadWithOverrides_NilOverrides(t *testing.T) {
	isolateHome(t)

	cfg, err := LoadWithOverrides(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Workers)
}

func TestLoadFromPaths_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "toolchain: [unclosed")

	_, err := LoadFromPaths(context.Background(), path, "")
	require.Error(t, err)
}

func TestLoadFromPaths_ValidationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	writeFile(t, path, `
toolchain:
  java_version: 7
`)

	_, err := LoadFromPaths(context.Background(), path, "")
	require.ErrorIs(t, err, rerrors.ErrInvalidJavaVersion)
}

func TestPaths(t *testing.T) {
	home := isolateHome(t)

	dir, err := GlobalConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".riid"), dir)

	path, err := GlobalConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".riid", "build.yaml"), path)

	assert.Equal(t, filepath.Join("proj", "riid-build.yaml"), ProjectConfigPath("proj"))
	assert.Equal(t, filepath.Join(home, ".m2", "repository"), DefaultRepository())

	t.Setenv("RIID_HOME", filepath.Join(home, "alt"))
	dir, err = GlobalConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "alt"), dir)
}
