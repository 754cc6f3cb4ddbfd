package quality

import (
	"os"
	"strings"
)

// Vars holds the values substituted into analyzer command templates.
type Vars struct {
	Sources     []string
	SourceFiles []string
	Classes     []string
	Classpath   []string
	Report      string
	ReportDir   string
	Config      string
	JavaVersion string
	BuildDir    string
}

// Expand substitutes placeholders in args.
//
// An argument that is exactly {sources}, {sourceFiles} or {classes} expands
// to one argument per value and disappears when there are none. Embedded in
// a longer argument the same lists are joined with commas. {classpath} is
// always joined with the platform path list separator.
func Expand(args []string, v Vars) []string {
	lists := map[string][]string{
		"{sources}":     v.Sources,
		"{sourceFiles}": v.SourceFiles,
		"{classes}":     v.Classes,
	}

	out := make([]string, 0, len(args))
	for _, arg := range args {
		if list, ok := lists[arg]; ok {
			out = append(out, list...)
			continue
		}
		out = append(out, expandScalar(arg, v, lists))
	}
	return out
}

func expandScalar(arg string, v Vars, lists map[string][]string) string {
	if !strings.Contains(arg, "{") {
		return arg
	}
	pairs := []string{
		"{classpath}", strings.Join(v.Classpath, string(os.PathListSeparator)),
		"{reportDir}", v.ReportDir,
		"{report}", v.Report,
		"{config}", v.Config,
		"{javaVersion}", v.JavaVersion,
		"{buildDir}", v.BuildDir,
	}
	for name, list := range lists {
		pairs = append(pairs, name, strings.Join(list, ","))
	}
	return strings.NewReplacer(pairs...).Replace(arg)
}
