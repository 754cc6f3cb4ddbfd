// Package constants provides centralized constant values used throughout riid-build.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by riid-build for organizing data.
const (
	// RiidHome is the hidden directory name where riid-build stores user-level data.
	// This directory is created in the user's home directory.
	RiidHome = ".riid"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// BuildDir is the project-relative build output directory.
	BuildDir = "build"

	// ReportsDir is the reports directory relative to BuildDir.
	ReportsDir = "reports"

	// ClassesDir is the compiled classes directory relative to BuildDir.
	ClassesDir = "classes/java"

	// ResourcesDir is the processed resources directory relative to BuildDir.
	ResourcesDir = "resources"

	// LibsDir is the archive output directory relative to BuildDir.
	LibsDir = "libs"

	// TestResultsDir is the JUnit XML results directory relative to BuildDir.
	TestResultsDir = "test-results"

	// TmpDir holds scratch files such as javac argument files, relative to BuildDir.
	TmpDir = "tmp"
)

// Toolchain defaults.
const (
	// DefaultJavaVersion is the Java feature release used when neither the
	// javaVersion parameter nor the config sets one.
	DefaultJavaVersion = 25

	// MinJavaVersion is the lowest accepted Java feature release.
	MinJavaVersion = 8

	// MaxJavaVersion is the highest accepted Java feature release.
	MaxJavaVersion = 99
)

// Subprocess termination.
const (
	// TerminateGracePeriod is how long a canceled subprocess has between
	// SIGTERM and SIGKILL.
	TerminateGracePeriod = 10 * time.Second
)

// Archive defaults.
const (
	// DefaultMainClass is the Main-Class attribute of the shadowed archive.
	DefaultMainClass = "riid.app.Main"

	// DefaultJarName is the file name of the shadowed archive under build/libs.
	DefaultJarName = "riid.jar"
)

// Container defaults.
const (
	// DefaultDockerBinary is the container runtime executable.
	DefaultDockerBinary = "docker"

	// DemoImage is the tag of the application image.
	DemoImage = "riid-demo"

	// TestImage is the tag of the test image.
	TestImage = "riid-test"

	// TestImageTarget is the multi-stage build target of the test image.
	TestImageTarget = "builder"

	// CacheVolume is the named volume holding the build cache inside the container.
	CacheVolume = "gradle-cache"

	// CacheMountPoint is where CacheVolume is mounted inside the container.
	CacheMountPoint = "/root/.gradle"

	// DefaultDriverCommand is the driver executable invoked inside the test container.
	DefaultDriverCommand = "riid-build"
)

// Log rotation settings for ~/.riid/logs/riid-build.log.
const (
	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 5

	// LogMaxAgeDays is how long rotated files are kept.
	LogMaxAgeDays = 30

	// LogCompress gzips rotated files.
	LogCompress = true
)

// EnvHome overrides the location of the riid home directory.
const EnvHome = "RIID_HOME"
