// Package testplan partitions the test suite into tasks by tag, by package
// pattern and by source set, and runs each partition through the JUnit
// Platform console launcher.
package testplan

import (
	"regexp"
	"slices"
	"strings"
	"sync"
)

// patterns caches compiled class-name patterns by their source pattern.
var patterns sync.Map //nolint:gochecknoglobals // compile cache shared by all selections

// Selection filters test cases. An empty selection matches everything.
type Selection struct {
	// IncludeTags keeps only tests carrying at least one of these tags.
	IncludeTags []string

	// ExcludeTags drops tests carrying any of these tags.
	ExcludeTags []string

	// ClassPatterns keeps only classes whose fully qualified name matches one
	// of these patterns. '*' matches any run of characters.
	ClassPatterns []string
}

// Args renders the selection as console launcher options.
func (s Selection) Args() []string {
	var args []string
	for _, t := range s.IncludeTags {
		args = append(args, "--include-tag", t)
	}
	for _, t := range s.ExcludeTags {
		args = append(args, "--exclude-tag", t)
	}
	if len(s.ClassPatterns) == 0 {
		// The launcher otherwise only picks classes named like *Test.
		return append(args, "--include-classname", ".*")
	}
	for _, p := range s.ClassPatterns {
		args = append(args, "--include-classname", PatternRegexp(p))
	}
	return args
}

// Matches reports whether a test case of className carrying tags is selected.
func (s Selection) Matches(className string, tags []string) bool {
	if len(s.ClassPatterns) > 0 && !slices.ContainsFunc(s.ClassPatterns, func(p string) bool {
		return compiledPattern(p).MatchString(className)
	}) {
		return false
	}
	for _, t := range tags {
		if slices.Contains(s.ExcludeTags, t) {
			return false
		}
	}
	if len(s.IncludeTags) == 0 {
		return true
	}
	return slices.ContainsFunc(tags, func(t string) bool { return slices.Contains(s.IncludeTags, t) })
}

// compiledPattern returns the compiled form of pattern, compiling it on
// first use.
func compiledPattern(pattern string) *regexp.Regexp {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := patterns.LoadOrStore(pattern, regexp.MustCompile(PatternRegexp(pattern)))
	return re.(*regexp.Regexp)
}

// PatternRegexp converts a class-name pattern such as "riid.app.*" into an
// anchored regular expression.
func PatternRegexp(pattern string) string {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return "^" + strings.Join(parts, ".*") + "$"
}
