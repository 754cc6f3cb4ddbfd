package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/UsatovPavel/RIID/internal/errors"
)

// newViperInstance creates a new Viper instance with the standard riid-build setup.
// This includes environment variable prefix (RIID_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("RIID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, err.Error())
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration for the project rooted at projectDir.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (RIID_* prefix)
//  2. Project config (<projectDir>/riid-build.yaml)
//  3. Global config (~/.riid/build.yaml)
//  4. Built-in defaults
//
// Missing config files are not an error.
func Load(ctx context.Context, projectDir string) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	if err := mergeConfigFile(v, ProjectConfigPath(projectDir)); err != nil {
		return nil, errors.Wrap(err, "failed to read project config file")
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Int("toolchain.java_version", cfg.Toolchain.JavaVersion).
		Str("paths.build_dir", cfg.Paths.BuildDir).
		Int("workers", cfg.Workers).
		Dur("command.terminate_grace", cfg.Command.TerminateGrace).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.riid/build.yaml).
// Returns nil if the file doesn't exist or the home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil || !fileExists(globalConfigPath) {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// mergeConfigFile merges path over the current values if it exists.
func mergeConfigFile(v *viper.Viper, path string) error {
	if path == "" || !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return err
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, projectDir string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, projectDir)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
//
// projectConfigPath is the path to project-level config (higher priority).
// globalConfigPath is the path to global config (lower priority).
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the mapstructure tag names exactly, and every
// key must have a default for RIID_* environment variables to be seen.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("toolchain.java_version", d.Toolchain.JavaVersion)
	v.SetDefault("toolchain.java_home", d.Toolchain.JavaHome)

	v.SetDefault("paths.build_dir", d.Paths.BuildDir)

	v.SetDefault("dependencies.manifest", d.Dependencies.Manifest)
	v.SetDefault("dependencies.repository", d.Dependencies.Repository)

	v.SetDefault("quality.checkstyle", d.Quality.Checkstyle)
	v.SetDefault("quality.pmd", d.Quality.PMD)
	v.SetDefault("quality.spotbugs", d.Quality.Spotbugs)
	v.SetDefault("quality.jacoco", d.Quality.Jacoco)
	v.SetDefault("quality.checkstyle_config", d.Quality.CheckstyleConfig)
	v.SetDefault("quality.spotless", d.Quality.Spotless)
	v.SetDefault("quality.spotless_check", d.Quality.SpotlessCheck)
	v.SetDefault("quality.spotless_apply", d.Quality.SpotlessApply)

	v.SetDefault("tests.launcher_jar", d.Tests.LauncherJar)
	v.SetDefault("tests.jvm_args", []string{})
	v.SetDefault("tests.coverage_agent", d.Tests.CoverageAgent)

	v.SetDefault("docker.binary", d.Docker.Binary)
	v.SetDefault("docker.demo_image", d.Docker.DemoImage)
	v.SetDefault("docker.test_image", d.Docker.TestImage)
	v.SetDefault("docker.target", d.Docker.Target)
	v.SetDefault("docker.volume", d.Docker.Volume)
	v.SetDefault("docker.mount_point", d.Docker.MountPoint)
	v.SetDefault("docker.driver_command", d.Docker.DriverCommand)

	v.SetDefault("archive.main_class", d.Archive.MainClass)
	v.SetDefault("archive.jar_name", d.Archive.JarName)

	v.SetDefault("command.terminate_grace", d.Command.TerminateGrace.String())

	v.SetDefault("workers", d.Workers)
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.Toolchain.JavaHome != "" {
		cfg.Toolchain.JavaHome = overrides.Toolchain.JavaHome
	}
	if overrides.Paths.BuildDir != "" {
		cfg.Paths.BuildDir = overrides.Paths.BuildDir
	}
	if len(overrides.Docker.DriverCommand) > 0 {
		cfg.Docker.DriverCommand = overrides.Docker.DriverCommand
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Durations are parsed from strings and comma-separated environment
// values are split into slices.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
