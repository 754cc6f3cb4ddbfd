// Package config provides configuration management for riid-build with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (RIID_* prefix)
//  3. Project config (<project>/riid-build.yaml)
//  4. Global config (~/.riid/build.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for riid-build.
type Config struct {
	// Toolchain selects the Java compiler and runtime.
	Toolchain ToolchainConfig `yaml:"toolchain" mapstructure:"toolchain"`

	// Paths contains project-relative locations.
	Paths PathsConfig `yaml:"paths" mapstructure:"paths"`

	// Dependencies locates the manifest and the artifact repository.
	Dependencies DependenciesConfig `yaml:"dependencies" mapstructure:"dependencies"`

	// Quality contains the analyzer commands of the quality gate.
	Quality QualityConfig `yaml:"quality" mapstructure:"quality"`

	// Tests configures the JUnit Platform console launcher.
	Tests TestsConfig `yaml:"tests" mapstructure:"tests"`

	// Docker configures the container runtime wrappers.
	Docker DockerConfig `yaml:"docker" mapstructure:"docker"`

	// Archive configures the shadowed jar.
	Archive ArchiveConfig `yaml:"archive" mapstructure:"archive"`

	// Command configures subprocess handling.
	Command CommandConfig `yaml:"command" mapstructure:"command"`

	// Workers bounds the number of tasks executing at once.
	// Zero means runtime.NumCPU().
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ToolchainConfig selects the Java toolchain.
type ToolchainConfig struct {
	// JavaVersion is the feature release used when -PjavaVersion is absent.
	// Zero means the built-in default.
	JavaVersion int `yaml:"java_version" mapstructure:"java_version"`

	// JavaHome is the JDK installation directory. Empty means look up
	// javac and java on PATH.
	JavaHome string `yaml:"java_home" mapstructure:"java_home"`
}

// PathsConfig contains project-relative locations.
type PathsConfig struct {
	// BuildDir is where every output is written.
	// Default: "build"
	BuildDir string `yaml:"build_dir" mapstructure:"build_dir"`
}

// DependenciesConfig locates declared dependencies.
type DependenciesConfig struct {
	// Manifest is the HCL dependency manifest, relative to the project.
	// Default: "dependencies.hcl"
	Manifest string `yaml:"manifest" mapstructure:"manifest"`

	// Repository is a Maven-layout directory holding resolved jars.
	// Empty means ~/.m2/repository.
	Repository string `yaml:"repository" mapstructure:"repository"`
}

// QualityConfig holds analyzer command templates.
//
// Each command is an argv with placeholders expanded per task:
// {sources}, {sourceFiles}, {classes}, {classpath}, {report}, {reportDir},
// {config}, {javaVersion} and {buildDir}. For Checkstyle {report} names the
// XML output the HTML report is rendered from.
type QualityConfig struct {
	Checkstyle []string `yaml:"checkstyle" mapstructure:"checkstyle"`
	PMD        []string `yaml:"pmd" mapstructure:"pmd"`
	Spotbugs   []string `yaml:"spotbugs" mapstructure:"spotbugs"`
	Jacoco     []string `yaml:"jacoco" mapstructure:"jacoco"`

	// CheckstyleConfig is the rule file passed as {config}.
	// Default: "config/checkstyle/checkstyle.xml"
	CheckstyleConfig string `yaml:"checkstyle_config" mapstructure:"checkstyle_config"`

	// Spotless enables the formatting tasks. Default: false.
	Spotless      bool     `yaml:"spotless" mapstructure:"spotless"`
	SpotlessCheck []string `yaml:"spotless_check" mapstructure:"spotless_check"`
	SpotlessApply []string `yaml:"spotless_apply" mapstructure:"spotless_apply"`
}

// TestsConfig configures the JUnit Platform console launcher.
type TestsConfig struct {
	// LauncherJar is the standalone console launcher jar.
	LauncherJar string `yaml:"launcher_jar" mapstructure:"launcher_jar"`

	// JVMArgs are passed to java before -jar.
	JVMArgs []string `yaml:"jvm_args" mapstructure:"jvm_args"`

	// CoverageAgent is the JaCoCo agent jar attached to the test task.
	// Empty disables coverage recording.
	CoverageAgent string `yaml:"coverage_agent" mapstructure:"coverage_agent"`
}

// DockerConfig configures the container tasks.
type DockerConfig struct {
	Binary     string `yaml:"binary" mapstructure:"binary"`
	DemoImage  string `yaml:"demo_image" mapstructure:"demo_image"`
	TestImage  string `yaml:"test_image" mapstructure:"test_image"`
	Target     string `yaml:"target" mapstructure:"target"`
	Volume     string `yaml:"volume" mapstructure:"volume"`
	MountPoint string `yaml:"mount_point" mapstructure:"mount_point"`

	// DriverCommand is the argv that runs riid-build inside the test image.
	DriverCommand []string `yaml:"driver_command" mapstructure:"driver_command"`
}

// ArchiveConfig configures the shadowed jar.
type ArchiveConfig struct {
	MainClass string `yaml:"main_class" mapstructure:"main_class"`
	JarName   string `yaml:"jar_name" mapstructure:"jar_name"`
}

// CommandConfig configures subprocess handling.
type CommandConfig struct {
	// TerminateGrace is the delay between SIGTERM and SIGKILL for canceled subprocesses.
	// Default: 10s
	TerminateGrace time.Duration `yaml:"terminate_grace" mapstructure:"terminate_grace"`
}
