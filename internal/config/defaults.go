package config

import "github.com/UsatovPavel/RIID/internal/constants"

// DefaultConfig returns a new Config with the built-in defaults.
// These defaults are the base layer that config files, environment
// variables and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Toolchain: ToolchainConfig{
			JavaVersion: constants.DefaultJavaVersion,
		},
		Paths: PathsConfig{
			BuildDir: constants.BuildDir,
		},
		Dependencies: DependenciesConfig{
			Manifest: constants.ManifestFileName,
		},
		Quality: QualityConfig{
			Checkstyle:       defaultCheckstyleCommand(),
			PMD:              defaultPMDCommand(),
			Spotbugs:         defaultSpotbugsCommand(),
			Jacoco:           defaultJacocoCommand(),
			CheckstyleConfig: constants.CheckstyleConfig,
			SpotlessCheck:    defaultSpotlessCheckCommand(),
			SpotlessApply:    defaultSpotlessApplyCommand(),
		},
		Tests: TestsConfig{
			LauncherJar: "junit-platform-console-standalone.jar",
		},
		Docker: DockerConfig{
			Binary:        constants.DefaultDockerBinary,
			DemoImage:     constants.DemoImage,
			TestImage:     constants.TestImage,
			Target:        constants.TestImageTarget,
			Volume:        constants.CacheVolume,
			MountPoint:    constants.CacheMountPoint,
			DriverCommand: []string{constants.DefaultDriverCommand},
		},
		Archive: ArchiveConfig{
			MainClass: constants.DefaultMainClass,
			JarName:   constants.DefaultJarName,
		},
		Command: CommandConfig{
			TerminateGrace: constants.TerminateGracePeriod,
		},
	}
}

func defaultCheckstyleCommand() []string {
	return []string{"checkstyle", "-c", "{config}", "-f", "xml", "-o", "{report}", "{sources}"}
}

func defaultPMDCommand() []string {
	return []string{
		"pmd", "check",
		"--dir", "{sources}",
		"--rulesets", "rulesets/java/quickstart.xml",
		"--aux-classpath", "{classpath}",
		"--format", "html",
		"--report-file", "{report}",
		"--no-progress",
	}
}

func defaultSpotbugsCommand() []string {
	return []string{"spotbugs", "-textui", "-html", "-output", "{report}", "-auxclasspath", "{classpath}", "{classes}"}
}

func defaultJacocoCommand() []string {
	return []string{
		"java", "-jar", "jacococli.jar", "report", "{buildDir}/jacoco/test.exec",
		"--classfiles", "{classes}",
		"--sourcefiles", "{sources}",
		"--html", "{reportDir}",
	}
}

func defaultSpotlessCheckCommand() []string {
	return []string{"google-java-format", "--dry-run", "--set-exit-if-changed", "{sourceFiles}"}
}

func defaultSpotlessApplyCommand() []string {
	return []string{"google-java-format", "--replace", "{sourceFiles}"}
}
