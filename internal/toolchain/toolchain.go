// Package toolchain selects the Java feature release every source set is
// compiled for and locates the JDK executables.
package toolchain

import (
	"path/filepath"
	"strconv"

	"github.com/UsatovPavel/RIID/internal/config"
	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/params"
)

// Toolchain is the selected Java toolchain.
type Toolchain struct {
	// Version is the Java feature release, e.g. 25.
	Version int

	// JavaHome is the JDK directory, empty to resolve executables on PATH.
	JavaHome string
}

// Select picks the Java version: the javaVersion parameter when given, else
// the configured toolchain.java_version, else the built-in default.
func Select(p params.Params, cfg config.ToolchainConfig) (Toolchain, error) {
	version := constants.DefaultJavaVersion
	if cfg.JavaVersion != 0 {
		version = cfg.JavaVersion
	}
	if v, ok := p.JavaVersion(); ok {
		version = v
	}

	if version < constants.MinJavaVersion || version > constants.MaxJavaVersion {
		return Toolchain{}, errors.Wrapf(errors.ErrInvalidJavaVersion, "java version %d", version)
	}

	return Toolchain{Version: version, JavaHome: cfg.JavaHome}, nil
}

// Javac returns the javac executable.
func (t Toolchain) Javac() string { return t.tool("javac") }

// Java returns the java executable.
func (t Toolchain) Java() string { return t.tool("java") }

// ReleaseArgs returns the javac arguments targeting the selected release.
func (t Toolchain) ReleaseArgs() []string {
	return []string{"--release", strconv.Itoa(t.Version)}
}

// String renders the toolchain for logs.
func (t Toolchain) String() string {
	if t.JavaHome == "" {
		return "java " + strconv.Itoa(t.Version)
	}
	return "java " + strconv.Itoa(t.Version) + " (" + t.JavaHome + ")"
}

func (t Toolchain) tool(name string) string {
	if t.JavaHome == "" {
		return name
	}
	return filepath.Join(t.JavaHome, "bin", name)
}
