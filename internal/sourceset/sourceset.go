// Package sourceset declares the Java source sets of the project and
// resolves their classpaths lazily, once per invocation.
package sourceset

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/dependency"
	"github.com/UsatovPavel/RIID/internal/errors"
)

// SourceSet is a named group of Java source and resource directories with
// its own compile and runtime classpaths.
type SourceSet struct {
	Name string

	// JavaDirs and ResourceDirs are absolute input directories.
	JavaDirs     []string
	ResourceDirs []string

	// ClassesDir and ResourcesOutDir are absolute output directories.
	ClassesDir      string
	ResourcesOutDir string

	compileScopes []string
	compileSets   []string
	runtimeScopes []string
	runtimeSets   []string

	container *Container

	compileOnce sync.Once
	compileCP   []string
	compileErr  error

	runtimeOnce sync.Once
	runtimeCP   []string
	runtimeErr  error
}

// Outputs returns the directories this set produces.
func (s *SourceSet) Outputs() []string {
	return []string{s.ClassesDir, s.ResourcesOutDir}
}

// CompileClasspath resolves the compile classpath on first use.
func (s *SourceSet) CompileClasspath(ctx context.Context) ([]string, error) {
	s.compileOnce.Do(func() {
		s.compileCP, s.compileErr = s.container.classpath(ctx, s.compileSets, s.compileScopes)
	})
	return s.compileCP, s.compileErr
}

// RuntimeClasspath resolves the runtime classpath on first use. It starts
// with the set's own outputs.
func (s *SourceSet) RuntimeClasspath(ctx context.Context) ([]string, error) {
	s.runtimeOnce.Do(func() {
		s.runtimeCP, s.runtimeErr = s.container.classpath(ctx, s.runtimeSets, s.runtimeScopes)
	})
	return s.runtimeCP, s.runtimeErr
}

// JavaFiles lists the .java files under JavaDirs in lexical order.
// Missing directories contribute nothing.
func (s *SourceSet) JavaFiles() ([]string, error) {
	var files []string
	for _, dir := range s.JavaDirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && path == dir {
					return filepath.SkipDir
				}
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".java") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "scan %s", dir)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ExistingJavaDirs returns the JavaDirs present on disk.
func (s *SourceSet) ExistingJavaDirs() []string {
	return existing(s.JavaDirs)
}

// ExistingResourceDirs returns the ResourceDirs present on disk.
func (s *SourceSet) ExistingResourceDirs() []string {
	return existing(s.ResourceDirs)
}

func existing(dirs []string) []string {
	var out []string
	for _, d := range dirs {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			out = append(out, d)
		}
	}
	return out
}

// Container holds every declared source set.
type Container struct {
	resolver *dependency.Resolver
	sets     map[string]*SourceSet
	order    []string
}

// NewContainer declares the standard source sets of a project rooted at
// projectDir with outputs under buildDir.
func NewContainer(projectDir, buildDir string, resolver *dependency.Resolver) *Container {
	c := &Container{resolver: resolver, sets: make(map[string]*SourceSet)}
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(projectDir, buildDir)
	}

	main := constants.SourceSetMain
	test := constants.SourceSetTest
	fixtures := constants.SourceSetTestFixtures

	c.add(projectDir, buildDir, main, "src/main",
		[]string{dependency.Implementation, dependency.CompileOnly}, nil,
		[]string{dependency.Implementation, dependency.RuntimeOnly}, nil)

	c.add(projectDir, buildDir, fixtures, "src/testFixtures",
		[]string{dependency.TestFixturesImplementation, dependency.CompileOnly}, []string{main},
		[]string{dependency.TestFixturesImplementation}, []string{main})

	c.add(projectDir, buildDir, test, "src/test",
		[]string{dependency.TestImplementation, dependency.TestCompileOnly}, []string{main, fixtures},
		[]string{dependency.TestImplementation, dependency.TestRuntimeOnly}, []string{main, fixtures})

	for _, set := range []struct{ name, dir string }{
		{constants.SourceSetIntegrationTest, "src/test/integration"},
		{constants.SourceSetPerformanceTest, "src/test/performance"},
		{constants.SourceSetModuledTest, "src/test/moduled"},
	} {
		impl := dependency.ImplementationScope(set.name)
		c.add(projectDir, buildDir, set.name, set.dir,
			[]string{impl}, []string{main},
			[]string{impl, dependency.RuntimeOnlyScope(set.name)}, []string{main})
	}
	return c
}

func (c *Container) add(projectDir, buildDir, name, srcRoot string,
	compileScopes, compileSets, runtimeScopes, runtimeSets []string,
) {
	root := filepath.Join(projectDir, filepath.FromSlash(srcRoot))
	s := &SourceSet{
		Name:            name,
		JavaDirs:        []string{filepath.Join(root, "java")},
		ResourceDirs:    []string{filepath.Join(root, "resources")},
		ClassesDir:      filepath.Join(buildDir, filepath.FromSlash(constants.ClassesDir), name),
		ResourcesOutDir: filepath.Join(buildDir, constants.ResourcesDir, name),
		compileScopes:   compileScopes,
		compileSets:     compileSets,
		runtimeScopes:   runtimeScopes,
		runtimeSets:     append([]string{name}, runtimeSets...),
		container:       c,
	}
	c.sets[name] = s
	c.order = append(c.order, name)
}

// Get returns a declared source set.
func (c *Container) Get(name string) (*SourceSet, error) {
	s, ok := c.sets[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownSourceSet, "%q", name)
	}
	return s, nil
}

// Names returns the declared source set names in declaration order.
func (c *Container) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Outputs resolves project:<set> coordinates to that set's output directories.
func (c *Container) Outputs(_ context.Context, name string) ([]string, error) {
	s, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	return s.Outputs(), nil
}

func (c *Container) classpath(ctx context.Context, sets, scopes []string) ([]string, error) {
	var cp []string
	seen := make(map[string]bool)
	for _, name := range sets {
		dirs, err := c.Outputs(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, d := range dirs {
			if !seen[d] {
				seen[d] = true
				cp = append(cp, d)
			}
		}
	}

	entries, err := c.resolver.Classpath(ctx, c.Outputs, scopes...)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !seen[e] {
			seen[e] = true
			cp = append(cp, e)
		}
	}
	return cp, nil
}
