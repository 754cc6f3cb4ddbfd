package dependency

import (
	"context"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/UsatovPavel/RIID/internal/errors"
)

// ProjectOutputs returns the output directories of a project source set.
type ProjectOutputs func(ctx context.Context, set string) ([]string, error)

// Resolver holds the recognized scopes and their declared coordinates.
// It is populated once before the task graph runs and read concurrently
// afterwards.
type Resolver struct {
	scopes      map[string]*Scope
	order       []string
	constraints map[string]string
	variables   map[string]string
	repository  string
}

// NewResolver returns a Resolver with every recognized scope declared empty.
// repository is the Maven-layout directory holding artifact jars.
func NewResolver(repository string) *Resolver {
	r := &Resolver{
		scopes:      make(map[string]*Scope),
		constraints: make(map[string]string),
		variables:   make(map[string]string),
		repository:  repository,
	}
	for _, s := range builtinScopes() {
		r.scopes[s.Name] = &s
		r.order = append(r.order, s.Name)
	}
	return r
}

// Declare appends coordinates to a recognized scope.
func (r *Resolver) Declare(scope string, coords ...string) error {
	s, ok := r.scopes[scope]
	if !ok {
		return errors.Wrapf(errors.ErrUnknownScope, "%q", scope)
	}
	for _, raw := range coords {
		c, err := ParseCoordinate(raw)
		if err != nil {
			return errors.Wrapf(err, "scope %s", scope)
		}
		s.Coordinates = append(s.Coordinates, c)
	}
	return nil
}

// Constrain pins the version used for a version-less group:artifact.
func (r *Resolver) Constrain(module, version string) {
	r.constraints[module] = version
}

// SetVariable makes name available to manifest expressions. It must be
// called before the manifest is parsed.
func (r *Resolver) SetVariable(name, value string) {
	r.variables[name] = value
}

// Scopes returns the recognized scope names in declaration order.
func (r *Resolver) Scopes() []string {
	return slices.Clone(r.order)
}

// Scope returns a recognized scope.
func (r *Resolver) Scope(name string) (Scope, bool) {
	s, ok := r.scopes[name]
	if !ok {
		return Scope{}, false
	}
	return *s, true
}

// Resolve returns the coordinates of scope and of every scope it extends,
// own coordinates first then ancestors breadth-first, without duplicates.
// Version-less coordinates take their version from a constraint when one exists.
func (r *Resolver) Resolve(scope string) ([]Coordinate, error) {
	if _, ok := r.scopes[scope]; !ok {
		return nil, errors.Wrapf(errors.ErrUnknownScope, "%q", scope)
	}

	var out []Coordinate
	seenCoord := make(map[string]bool)
	seenScope := map[string]bool{scope: true}
	queue := []string{scope}

	for len(queue) > 0 {
		s := r.scopes[queue[0]]
		queue = queue[1:]

		for _, c := range s.Coordinates {
			if c.Version == "" && !c.IsProject() {
				if v, ok := r.constraints[c.Module()]; ok {
					c.Version = v
				}
			}
			key := c.String()
			if !c.IsProject() {
				key = c.Module()
			}
			if seenCoord[key] {
				continue
			}
			seenCoord[key] = true
			out = append(out, c)
		}

		for _, parent := range s.Extends {
			if !seenScope[parent] {
				seenScope[parent] = true
				queue = append(queue, parent)
			}
		}
	}
	return out, nil
}

// Classpath resolves the given scopes into classpath entries in order.
// Project coordinates expand to the outputs returned by projects. Artifact
// coordinates map to jars in the repository; version-less coordinates
// contribute nothing and are logged.
func (r *Resolver) Classpath(ctx context.Context, projects ProjectOutputs, scopes ...string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	var entries []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			entries = append(entries, p)
		}
	}

	for _, scope := range scopes {
		coords, err := r.Resolve(scope)
		if err != nil {
			return nil, err
		}
		for _, c := range coords {
			if c.IsProject() {
				if projects == nil {
					continue
				}
				dirs, err := projects(ctx, c.Project)
				if err != nil {
					return nil, errors.Wrapf(err, "resolve %s", c)
				}
				for _, d := range dirs {
					add(d)
				}
				continue
			}

			jar, ok := c.JarPath(r.repository)
			if !ok {
				logger.Warn().
					Str("scope", scope).
					Str("coordinate", c.String()).
					Msg("dependency has no version, skipping classpath entry")
				continue
			}
			if _, err := os.Stat(jar); err != nil {
				logger.Warn().
					Str("scope", scope).
					Str("jar", jar).
					Msg("dependency jar not found in repository")
			}
			add(jar)
		}
	}
	return entries, nil
}
