package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/errors"
)

// GlobalConfigDir returns the path to the user-level riid directory.
// This is typically ~/.riid on Unix systems; RIID_HOME overrides it.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.RiidHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.riid/build.yaml on Unix systems.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the path to the project configuration file.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, constants.ProjectConfigName)
}

// DefaultRepository returns the local Maven repository, ~/.m2/repository.
func DefaultRepository() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".m2", "repository")
	}
	return filepath.Join(home, ".m2", "repository")
}
