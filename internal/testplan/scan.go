package testplan

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/UsatovPavel/RIID/internal/errors"
)

// TestMethod is a test method and the tags declared on it.
type TestMethod struct {
	Name string
	Tags []string
}

// TestClass is a top-level test class found in the sources.
type TestClass struct {
	Name    string
	Tags    []string
	Methods []TestMethod
}

// EffectiveTags returns the class tags followed by m's own tags.
func (c TestClass) EffectiveTags(m TestMethod) []string {
	out := append([]string(nil), c.Tags...)
	for _, t := range m.Tags {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

var (
	packageRe    = regexp.MustCompile(`^package\s+([\w.]+)\s*;`)
	tagRe        = regexp.MustCompile(`@Tag\(\s*"([^"]+)"\s*\)`)
	testMarkerRe = regexp.MustCompile(`@(Test|ParameterizedTest|RepeatedTest|TestFactory|TestTemplate)\b`)
	annotationRe = regexp.MustCompile(`@[\w.]+(\((?:[^()]|\([^()]*\))*\))?`)
	classDeclRe  = regexp.MustCompile(`\b(?:class|record)\s+(\w+)`)
	methodDeclRe = regexp.MustCompile(`(\w+)\s*\(`)
)

// Scan lists the test classes declared under dirs, sorted by name. Classes
// without test methods are omitted. Only the first top-level class of each
// file is considered.
func Scan(dirs []string) ([]TestClass, error) {
	var classes []TestClass
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && path == dir {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".java") {
				return nil
			}
			c, ok, err := scanFile(path)
			if err != nil {
				return errors.Wrapf(err, "scan %s", path)
			}
			if ok {
				classes = append(classes, c)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func scanFile(path string) (TestClass, bool, error) {
	f, err := os.Open(path) //nolint:gosec // walking project sources
	if err != nil {
		return TestClass{}, false, err
	}
	defer func() { _ = f.Close() }()

	var (
		pkg       string
		class     TestClass
		haveClass bool
		pending   []string
		isTest    bool
		inComment bool
	)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		line, inComment = stripComments(line, inComment)
		if line == "" {
			continue
		}

		if m := packageRe.FindStringSubmatch(line); m != nil {
			pkg = m[1]
			continue
		}
		for _, m := range tagRe.FindAllStringSubmatch(line, -1) {
			pending = append(pending, m[1])
		}
		if testMarkerRe.MatchString(line) {
			isTest = true
		}

		rest := strings.TrimSpace(annotationRe.ReplaceAllString(line, ""))
		if rest == "" {
			continue
		}

		switch {
		case !haveClass:
			if m := classDeclRe.FindStringSubmatch(rest); m != nil {
				class.Name = m[1]
				if pkg != "" {
					class.Name = pkg + "." + m[1]
				}
				class.Tags = pending
				haveClass = true
			}
		case isTest:
			if m := methodDeclRe.FindStringSubmatch(rest); m != nil {
				class.Methods = append(class.Methods, TestMethod{Name: m[1], Tags: pending})
			}
		}
		pending, isTest = nil, false
	}
	if err := sc.Err(); err != nil {
		return TestClass{}, false, err
	}
	return class, haveClass && len(class.Methods) > 0, nil
}

// stripComments removes // and /* */ comments from a line, tracking block
// comments that span lines.
func stripComments(line string, inComment bool) (string, bool) {
	var b strings.Builder
	for len(line) > 0 {
		if inComment {
			end := strings.Index(line, "*/")
			if end < 0 {
				return strings.TrimSpace(b.String()), true
			}
			line = line[end+2:]
			inComment = false
			continue
		}
		start := strings.Index(line, "/*")
		single := strings.Index(line, "//")
		if single >= 0 && (start < 0 || single < start) {
			b.WriteString(line[:single])
			break
		}
		if start < 0 {
			b.WriteString(line)
			break
		}
		b.WriteString(line[:start])
		line = line[start+2:]
		inComment = true
	}
	return strings.TrimSpace(b.String()), inComment
}

// Selected is a class chosen by a selection with the methods that run.
type Selected struct {
	Class   string   `json:"class"`
	Methods []string `json:"methods"`
}

// Select applies s to classes and returns the classes with at least one
// selected method.
func Select(s Selection, classes []TestClass) []Selected {
	var out []Selected
	for _, c := range classes {
		var methods []string
		for _, m := range c.Methods {
			if s.Matches(c.Name, c.EffectiveTags(m)) {
				methods = append(methods, m.Name)
			}
		}
		if len(methods) > 0 {
			out = append(out, Selected{Class: c.Name, Methods: methods})
		}
	}
	return out
}
