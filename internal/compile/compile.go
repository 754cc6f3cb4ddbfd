// Package compile turns a source set into class files with javac and copies
// its resources next to them.
package compile

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/UsatovPavel/RIID/internal/command"
	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/sourceset"
	"github.com/UsatovPavel/RIID/internal/toolchain"
)

// Compiler compiles source sets for the selected toolchain.
type Compiler struct {
	exec       *command.Executor
	toolchain  toolchain.Toolchain
	projectDir string
	tmpDir     string
}

// NewCompiler creates a Compiler. tmpDir holds javac argument files and
// the input fingerprint of each compiled source set.
func NewCompiler(exec *command.Executor, tc toolchain.Toolchain, projectDir, tmpDir string) *Compiler {
	return &Compiler{exec: exec, toolchain: tc, projectDir: projectDir, tmpDir: tmpDir}
}

// Compile runs javac over every source file of set and copies its resources.
// A set without sources only copies resources.
func (c *Compiler) Compile(ctx context.Context, set *sourceset.SourceSet) error {
	log := zerolog.Ctx(ctx)

	files, err := set.JavaFiles()
	if err != nil {
		return err
	}

	if len(files) > 0 {
		if err := c.javac(ctx, set, files); err != nil {
			return err
		}
	} else {
		log.Debug().Str("source_set", set.Name).Msg("no java sources")
	}

	copied, err := CopyResources(set.ExistingResourceDirs(), set.ResourcesOutDir)
	if err != nil {
		return errors.Wrapf(err, "copy resources of %s", set.Name)
	}

	if err := c.saveState(ctx, set, files); err != nil {
		return errors.Wrapf(err, "record inputs of %s", set.Name)
	}

	log.Info().
		Str("source_set", set.Name).
		Int("sources", len(files)).
		Int("resources", copied).
		Msg("source set compiled")
	return nil
}

func (c *Compiler) javac(ctx context.Context, set *sourceset.SourceSet, files []string) error {
	cp, err := set.CompileClasspath(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(set.ClassesDir, 0o750); err != nil {
		return errors.Wrapf(err, "create %s", set.ClassesDir)
	}

	// An argument file keeps large source lists under the argv limit.
	if err := os.MkdirAll(c.tmpDir, 0o750); err != nil {
		return errors.Wrapf(err, "create %s", c.tmpDir)
	}
	argFile := filepath.Join(c.tmpDir, "javac-"+set.Name+".args")
	if err := os.WriteFile(argFile, []byte(quoteArgs(files)), 0o600); err != nil {
		return errors.Wrapf(err, "write %s", argFile)
	}

	args := []string{c.toolchain.Javac()}
	args = append(args, c.toolchain.ReleaseArgs()...)
	args = append(args, "-encoding", "UTF-8", "-d", set.ClassesDir)
	if len(cp) > 0 {
		args = append(args, "-classpath", strings.Join(cp, string(os.PathListSeparator)))
	}
	args = append(args, "@"+argFile)

	_, err = c.exec.Run(ctx, command.Cmd{Args: args, Dir: c.projectDir, Label: "compile " + set.Name})
	return err
}

// quoteArgs renders one quoted path per line in javac @file syntax.
func quoteArgs(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(filepath.ToSlash(p), `"`, `\"`))
		b.WriteString("\"\n")
	}
	return b.String()
}

// UpToDate reports whether set was last compiled from the current release,
// source list and classpath, and every class file is newer than every
// source and resource file. A set never compiled before or with no class
// output is not up to date.
func (c *Compiler) UpToDate(ctx context.Context, set *sourceset.SourceSet) (bool, error) {
	files, err := set.JavaFiles()
	if err != nil {
		return false, err
	}

	same, err := c.stateMatches(ctx, set, files)
	if err != nil || !same {
		return false, err
	}

	var newestInput time.Time
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return false, err
		}
		if info.ModTime().After(newestInput) {
			newestInput = info.ModTime()
		}
	}
	for _, dir := range set.ExistingResourceDirs() {
		t, err := newest(dir)
		if err != nil {
			return false, err
		}
		if t.After(newestInput) {
			newestInput = t
		}
	}
	if newestInput.IsZero() {
		return true, nil
	}
	if len(files) == 0 {
		// Resources only: compare against the copied resources.
		out, err := oldest(set.ResourcesOutDir, "")
		if err != nil || out.IsZero() {
			return false, nil //nolint:nilerr // missing output means stale
		}
		return out.After(newestInput), nil
	}

	oldestClass, err := oldest(set.ClassesDir, ".class")
	if err != nil || oldestClass.IsZero() {
		return false, nil //nolint:nilerr // missing output means stale
	}
	return oldestClass.After(newestInput), nil
}

func newest(dir string) (time.Time, error) {
	var t time.Time
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(t) {
			t = info.ModTime()
		}
		return nil
	})
	return t, err
}

func oldest(dir, suffix string) (time.Time, error) {
	var t time.Time
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, suffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if t.IsZero() || info.ModTime().Before(t) {
			t = info.ModTime()
		}
		return nil
	})
	return t, err
}

// CopyResources copies every file under srcDirs into dst, preserving
// relative paths. It returns the number of files copied.
func CopyResources(srcDirs []string, dst string) (int, error) {
	count := 0
	for _, src := range srcDirs {
		err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			target := filepath.Join(dst, rel)
			if d.IsDir() {
				return os.MkdirAll(target, 0o750)
			}
			if err := copyFile(path, target); err != nil {
				return err
			}
			count++
			return nil
		})
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // walking project resources
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	out, err := os.Create(dst) //nolint:gosec // destination under the build directory
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
