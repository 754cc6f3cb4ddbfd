package config

import (
	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - toolchain.java_version is zero or within the supported range
//   - paths.build_dir must not be empty
//   - archive.main_class and archive.jar_name must not be empty
//   - docker binary, images and driver command must not be empty
//   - workers must not be negative
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if v := cfg.Toolchain.JavaVersion; v != 0 && (v < constants.MinJavaVersion || v > constants.MaxJavaVersion) {
		return errors.Wrapf(errors.ErrInvalidJavaVersion,
			"toolchain.java_version must be between %d and %d, got %d",
			constants.MinJavaVersion, constants.MaxJavaVersion, v)
	}

	if cfg.Paths.BuildDir == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "paths.build_dir must not be empty")
	}

	if cfg.Workers < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "workers must not be negative, got %d", cfg.Workers)
	}

	if err := validateArchiveConfig(&cfg.Archive); err != nil {
		return err
	}

	if err := validateDockerConfig(&cfg.Docker); err != nil {
		return err
	}

	if cfg.Tests.LauncherJar == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "tests.launcher_jar must not be empty")
	}

	if cfg.Command.TerminateGrace < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"command.terminate_grace must not be negative, got %s", cfg.Command.TerminateGrace)
	}

	return nil
}

func validateArchiveConfig(cfg *ArchiveConfig) error {
	if cfg.MainClass == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "archive.main_class must not be empty")
	}
	if cfg.JarName == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "archive.jar_name must not be empty")
	}
	return nil
}

func validateDockerConfig(cfg *DockerConfig) error {
	switch {
	case cfg.Binary == "":
		return errors.Wrap(errors.ErrConfigInvalid, "docker.binary must not be empty")
	case cfg.DemoImage == "" || cfg.TestImage == "":
		return errors.Wrap(errors.ErrConfigInvalid, "docker image names must not be empty")
	case len(cfg.DriverCommand) == 0:
		return errors.Wrap(errors.ErrConfigInvalid, "docker.driver_command must not be empty")
	}
	return nil
}
