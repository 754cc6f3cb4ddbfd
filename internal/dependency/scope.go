// Package dependency declares the dependency scopes of the build, their
// fixed inheritance edges, and resolves scopes into classpath entries.
package dependency

import "github.com/UsatovPavel/RIID/internal/constants"

// Scope is a named bucket of coordinates. Extends lists the scopes whose
// coordinates are inherited.
type Scope struct {
	Name        string
	Extends     []string
	Coordinates []Coordinate
}

// Recognized scope names.
const (
	Implementation             = "implementation"
	CompileOnly                = "compileOnly"
	RuntimeOnly                = "runtimeOnly"
	TestImplementation         = "testImplementation"
	TestCompileOnly            = "testCompileOnly"
	TestRuntimeOnly            = "testRuntimeOnly"
	TestFixturesImplementation = "testFixturesImplementation"
	TestFixturesAPI            = "testFixturesApi"
)

// ImplementationScope returns the implementation scope name of a source set.
func ImplementationScope(set string) string {
	switch set {
	case constants.SourceSetMain:
		return Implementation
	case constants.SourceSetTest:
		return TestImplementation
	default:
		return set + "Implementation"
	}
}

// RuntimeOnlyScope returns the runtime-only scope name of a source set.
func RuntimeOnlyScope(set string) string {
	switch set {
	case constants.SourceSetMain:
		return RuntimeOnly
	case constants.SourceSetTest:
		return TestRuntimeOnly
	default:
		return set + "RuntimeOnly"
	}
}

// extraTestSets are the test source sets that inherit from the test scopes.
func extraTestSets() []string {
	return []string{
		constants.SourceSetIntegrationTest,
		constants.SourceSetPerformanceTest,
		constants.SourceSetModuledTest,
	}
}

// builtinScopes returns every recognized scope with its fixed edges, in
// declaration order.
func builtinScopes() []Scope {
	scopes := []Scope{
		{Name: Implementation},
		{Name: CompileOnly},
		{Name: RuntimeOnly},
		{Name: TestImplementation, Extends: []string{Implementation}},
		{Name: TestCompileOnly},
		{Name: TestRuntimeOnly, Extends: []string{RuntimeOnly}},
		{Name: TestFixturesAPI},
		{Name: TestFixturesImplementation, Extends: []string{Implementation, TestFixturesAPI}},
	}
	for _, set := range extraTestSets() {
		scopes = append(scopes,
			Scope{Name: ImplementationScope(set), Extends: []string{TestImplementation}},
			Scope{Name: RuntimeOnlyScope(set), Extends: []string{TestRuntimeOnly}},
		)
	}
	return scopes
}
