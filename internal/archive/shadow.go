// Package archive writes the self-contained application jar: project
// classes and resources merged with the contents of every runtime
// dependency jar, under a manifest naming the entry point.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"

	"github.com/UsatovPavel/RIID/internal/errors"
)

const manifestName = "META-INF/MANIFEST.MF"

// Spec describes one shadowed jar.
type Spec struct {
	// Output is the jar path.
	Output string

	// MainClass is written as the Main-Class manifest attribute.
	MainClass string

	// Dirs are class and resource directories added first.
	Dirs []string

	// Jars are dependency archives whose entries are merged in order.
	Jars []string
}

// Stats summarizes a written jar.
type Stats struct {
	Entries    int
	Duplicates int
	Dropped    int
}

// Build writes the jar atomically. The first entry with a given name wins;
// dependency manifests and signature files are dropped.
func Build(ctx context.Context, spec Spec) (Stats, error) {
	var stats Stats
	if spec.MainClass == "" {
		return stats, errors.Wrap(errors.ErrConfigInvalid, "main class must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(spec.Output), 0o750); err != nil {
		return stats, errors.Wrapf(err, "create %s", filepath.Dir(spec.Output))
	}

	tmp := spec.Output + ".tmp"
	f, err := os.Create(tmp) //nolint:gosec // path under the build directory
	if err != nil {
		return stats, errors.Wrapf(err, "create %s", tmp)
	}
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}

	w := zip.NewWriter(f)
	seen := map[string]bool{manifestName: true}

	if err := writeManifest(w, spec.MainClass); err != nil {
		cleanup()
		return stats, err
	}
	stats.Entries++

	for _, dir := range spec.Dirs {
		if err := addDir(w, dir, seen, &stats); err != nil {
			cleanup()
			return stats, errors.Wrapf(err, "add %s", dir)
		}
	}
	for _, jar := range spec.Jars {
		if err := mergeJar(ctx, w, jar, seen, &stats); err != nil {
			cleanup()
			return stats, errors.Wrapf(err, "merge %s", jar)
		}
	}

	if err := w.Close(); err != nil {
		cleanup()
		return stats, errors.Wrap(err, "finish jar")
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return stats, errors.Wrap(err, "sync jar")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return stats, errors.Wrap(err, "close jar")
	}
	if err := os.Rename(tmp, spec.Output); err != nil {
		_ = os.Remove(tmp)
		return stats, errors.Wrap(err, "rename jar")
	}

	zerolog.Ctx(ctx).Info().
		Str("jar", spec.Output).
		Int("entries", stats.Entries).
		Int("duplicates", stats.Duplicates).
		Msg("shadow jar written")
	return stats, nil
}

func writeManifest(w *zip.Writer, mainClass string) error {
	mw, err := w.CreateHeader(&zip.FileHeader{Name: manifestName, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(mw, "Manifest-Version: 1.0\r\nMain-Class: %s\r\nCreated-By: riid-build\r\n\r\n", mainClass)
	return err
}

func addDir(w *zip.Writer, dir string, seen map[string]bool, stats *Stats) error {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == dir {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, p := range files {
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if seen[name] {
			stats.Duplicates++
			continue
		}
		seen[name] = true
		if err := addFile(w, p, name); err != nil {
			return err
		}
		stats.Entries++
	}
	return nil
}

func addFile(w *zip.Writer, src, name string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	in, err := os.Open(src) //nolint:gosec // walking build outputs
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := w.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	return err
}

func mergeJar(ctx context.Context, w *zip.Writer, jar string, seen map[string]bool, stats *Stats) error {
	r, err := zip.OpenReader(jar)
	if err != nil {
		if os.IsNotExist(err) {
			zerolog.Ctx(ctx).Warn().Str("jar", jar).Msg("dependency jar missing, not merged")
			return nil
		}
		return err
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if dropEntry(f.Name) {
			stats.Dropped++
			continue
		}
		if seen[f.Name] {
			stats.Duplicates++
			continue
		}
		seen[f.Name] = true
		if err := w.Copy(f); err != nil {
			return err
		}
		stats.Entries++
	}
	return nil
}

// dropEntry reports whether a dependency entry must not be carried into the
// merged jar: its manifest and its signature files.
func dropEntry(name string) bool {
	upper := strings.ToUpper(name)
	if upper == manifestName {
		return true
	}
	if path.Dir(upper) != "META-INF" {
		return false
	}
	switch path.Ext(upper) {
	case ".SF", ".DSA", ".RSA", ".EC":
		return true
	}
	return false
}
