package compile

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/fileutil"
	"github.com/UsatovPavel/RIID/internal/sourceset"
)

// inputState fingerprints everything besides source contents that a
// compilation depends on. Classes built from a different state are stale
// even when they are newer than their sources.
type inputState struct {
	Release   int          `yaml:"release"`
	Javac     string       `yaml:"javac"`
	Sources   []string     `yaml:"sources"`
	Classpath []entryState `yaml:"classpath"`
}

// entryState describes one classpath entry. For a directory Size and Files
// sum over its regular files and ModTime is the newest of them.
type entryState struct {
	Path    string `yaml:"path"`
	Size    int64  `yaml:"size"`
	Files   int    `yaml:"files,omitempty"`
	ModTime int64  `yaml:"mtime"`
}

// statePath is where the fingerprint of the last successful compilation of
// set is kept.
func (c *Compiler) statePath(set *sourceset.SourceSet) string {
	return filepath.Join(c.tmpDir, set.Name+".state")
}

func (c *Compiler) currentState(ctx context.Context, set *sourceset.SourceSet, files []string) ([]byte, error) {
	cp, err := set.CompileClasspath(ctx)
	if err != nil {
		return nil, err
	}

	st := inputState{
		Release: c.toolchain.Version,
		Javac:   c.toolchain.Javac(),
		Sources: files,
	}
	for _, entry := range cp {
		es, err := statEntry(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "fingerprint %s", entry)
		}
		st.Classpath = append(st.Classpath, es)
	}
	return yaml.Marshal(st)
}

// saveState records the inputs of a successful compilation.
func (c *Compiler) saveState(ctx context.Context, set *sourceset.SourceSet, files []string) error {
	data, err := c.currentState(ctx, set, files)
	if err != nil {
		return err
	}
	return fileutil.AtomicWrite(c.statePath(set), data)
}

// stateMatches reports whether the recorded inputs equal the current ones.
// A missing record never matches.
func (c *Compiler) stateMatches(ctx context.Context, set *sourceset.SourceSet, files []string) (bool, error) {
	saved, err := os.ReadFile(c.statePath(set))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	current, err := c.currentState(ctx, set, files)
	if err != nil {
		return false, err
	}
	return bytes.Equal(saved, current), nil
}

func statEntry(path string) (entryState, error) {
	es := entryState{Path: path}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return es, nil
	}
	if err != nil {
		return es, err
	}
	if !info.IsDir() {
		es.Size = info.Size()
		es.ModTime = info.ModTime().UnixNano()
		return es, nil
	}

	err = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		es.Files++
		es.Size += fi.Size()
		if mt := fi.ModTime().UnixNano(); mt > es.ModTime {
			es.ModTime = mt
		}
		return nil
	})
	return es, err
}
