package dependency

import (
	"path/filepath"
	"strings"

	"github.com/UsatovPavel/RIID/internal/errors"
)

// projectPrefix marks a coordinate that refers to a source set of this project.
const projectPrefix = "project:"

// Coordinate identifies one dependency: either an external artifact
// (group:artifact[:version]) or a project source set (project:<set>).
type Coordinate struct {
	Group    string
	Artifact string
	Version  string

	// Project is the source set name for project coordinates.
	Project string
}

// ParseCoordinate parses "group:artifact", "group:artifact:version" or "project:<set>".
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	if set, ok := strings.CutPrefix(s, projectPrefix); ok {
		if set == "" || strings.Contains(set, ":") {
			return Coordinate{}, errors.Wrapf(errors.ErrInvalidCoordinate, "%q", s)
		}
		return Coordinate{Project: set}, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Coordinate{}, errors.Wrapf(errors.ErrInvalidCoordinate, "%q", s)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, errors.Wrapf(errors.ErrInvalidCoordinate, "%q", s)
		}
	}

	c := Coordinate{Group: parts[0], Artifact: parts[1]}
	if len(parts) == 3 {
		c.Version = parts[2]
	}
	return c, nil
}

// IsProject reports whether c refers to a source set of this project.
func (c Coordinate) IsProject() bool { return c.Project != "" }

// Module returns "group:artifact" without the version.
func (c Coordinate) Module() string { return c.Group + ":" + c.Artifact }

// String renders c in the form it was declared.
func (c Coordinate) String() string {
	if c.IsProject() {
		return projectPrefix + c.Project
	}
	if c.Version == "" {
		return c.Module()
	}
	return c.Module() + ":" + c.Version
}

// JarPath returns the location of the artifact jar in a Maven-layout
// repository. It returns false for project and version-less coordinates.
func (c Coordinate) JarPath(repository string) (string, bool) {
	if c.IsProject() || c.Version == "" {
		return "", false
	}
	groupPath := filepath.Join(strings.Split(c.Group, ".")...)
	return filepath.Join(repository, groupPath, c.Artifact, c.Version,
		c.Artifact+"-"+c.Version+".jar"), true
}
