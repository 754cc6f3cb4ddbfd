package dependency

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/UsatovPavel/RIID/internal/errors"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in   string
		want Coordinate
	}{
		{"org.slf4j:slf4j-api:2.0.13", Coordinate{Group: "org.slf4j", Artifact: "slf4j-api", Version: "2.0.13"}},
		{"org.junit.jupiter:junit-jupiter", Coordinate{Group: "org.junit.jupiter", Artifact: "junit-jupiter"}},
		{"project:testFixtures", Coordinate{Project: "testFixtures"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseCoordinate(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, got.String())
		})
	}
}

func TestParseCoordinate_Invalid(t *testing.T) {
	for _, in := range []string{"", "justone", "a::c", "a:b:c:d", "project:", "project:a:b"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseCoordinate(in)
			require.ErrorIs(t, err, rerrors.ErrInvalidCoordinate)
		})
	}
}

func TestCoordinate_JarPath(t *testing.T) {
	c := Coordinate{Group: "com.fasterxml.jackson.core", Artifact: "jackson-databind", Version: "2.17.2"}
	p, ok := c.JarPath("/repo")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/repo", "com", "fasterxml", "jackson", "core",
		"jackson-databind", "2.17.2", "jackson-databind-2.17.2.jar"), p)

	_, ok = Coordinate{Group: "g", Artifact: "a"}.JarPath("/repo")
	assert.False(t, ok)
	_, ok = Coordinate{Project: "main"}.JarPath("/repo")
	assert.False(t, ok)
}

func TestResolver_RecognizedScopes(t *testing.T) {
	r := NewResolver("/repo")

	names := r.Scopes()
	assert.Contains(t, names, "implementation")
	assert.Contains(t, names, "testFixturesApi")
	assert.Contains(t, names, "moduledTestRuntimeOnly")
	assert.Len(t, names, 14)

	for _, set := range []string{"integrationTest", "performanceTest", "moduledTest"} {
		impl, ok := r.Scope(set + "Implementation")
		require.True(t, ok)
		assert.Equal(t, []string{"testImplementation"}, impl.Extends)

		rt, ok := r.Scope(set + "RuntimeOnly")
		require.True(t, ok)
		assert.Equal(t, []string{"testRuntimeOnly"}, rt.Extends)
	}

	fixtures, ok := r.Scope("testFixturesImplementation")
	require.True(t, ok)
	assert.Equal(t, []string{"implementation", "testFixturesApi"}, fixtures.Extends)
}

func TestResolver_Declare_UnknownScope(t *testing.T) {
	r := NewResolver("/repo")
	require.ErrorIs(t, r.Declare("api", "g:a:1"), rerrors.ErrUnknownScope)
}

func TestResolver_Resolve_InheritanceOrder(t *testing.T) {
	r := NewResolver("/repo")
	require.NoError(t, r.Declare("implementation", "org.slf4j:slf4j-api:2.0.13"))
	require.NoError(t, r.Declare("testImplementation", "org.junit.jupiter:junit-jupiter:5.10.0", "org.slf4j:slf4j-api:2.0.13"))
	require.NoError(t, r.Declare("integrationTestImplementation", "project:testFixtures"))

	coords, err := r.Resolve("integrationTestImplementation")
	require.NoError(t, err)

	var got []string
	for _, c := range coords {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{
		"project:testFixtures",
		"org.junit.jupiter:junit-jupiter:5.10.0",
		"org.slf4j:slf4j-api:2.0.13",
	}, got)
}

func TestResolver_Resolve_Unknown(t *testing.T) {
	_, err := NewResolver("/repo").Resolve("nope")
	require.ErrorIs(t, err, rerrors.ErrUnknownScope)
}

func TestResolver_Classpath(t *testing.T) {
	repo := t.TempDir()
	r := NewResolver(repo)
	require.NoError(t, r.Declare("implementation", "org.slf4j:slf4j-api:2.0.13"))
	require.NoError(t, r.Declare("testImplementation", "org.junit.jupiter:junit-jupiter", "project:testFixtures"))
	require.NoError(t, r.Declare("testRuntimeOnly", "org.junit.platform:junit-platform-launcher:1.10.0"))

	projects := func(_ context.Context, set string) ([]string, error) {
		return []string{"/build/classes/java/" + set}, nil
	}

	cp, err := r.Classpath(testContext(), projects, "testImplementation", "testRuntimeOnly")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/build/classes/java/testFixtures",
		filepath.Join(repo, "org", "slf4j", "slf4j-api", "2.0.13", "slf4j-api-2.0.13.jar"),
		filepath.Join(repo, "org", "junit", "platform", "junit-platform-launcher", "1.10.0", "junit-platform-launcher-1.10.0.jar"),
	}, cp, "version-less coordinates contribute no entry")
}

func TestParseManifest(t *testing.T) {
	src := []byte(`
constraints = {
  "org.junit.jupiter:junit-jupiter" = "5.10.0"
}

scope "implementation" {
  dependencies = ["org.slf4j:slf4j-api:2.0.13"]
}

scope "testImplementation" {
  dependencies = ["org.junit.jupiter:junit-jupiter"]
}
`)
	r := NewResolver("/repo")
	require.NoError(t, ParseManifest(testContext(), src, "dependencies.hcl", r))

	coords, err := r.Resolve("testImplementation")
	require.NoError(t, err)
	require.Len(t, coords, 2)
	assert.Equal(t, "org.junit.jupiter:junit-jupiter:5.10.0", coords[0].String(), "constraint supplies the version")
	assert.Equal(t, "org.slf4j:slf4j-api:2.0.13", coords[1].String())
}

func TestParseManifest_Variables(t *testing.T) {
	src := []byte(`
scope "runtimeOnly" {
  dependencies = ["org.example:jdk-shim:${java_version}.0.1"]
}
`)
	r := NewResolver("/repo")
	r.SetVariable("java_version", "21")
	require.NoError(t, ParseManifest(testContext(), src, "dependencies.hcl", r))

	coords, err := r.Resolve("runtimeOnly")
	require.NoError(t, err)
	require.Len(t, coords, 1)
	assert.Equal(t, "21.0.1", coords[0].Version)

	err = ParseManifest(testContext(), []byte(`scope "implementation" {
  dependencies = ["g:a:${undefined_var}"]
}`), "dependencies.hcl", NewResolver("/repo"))
	require.ErrorIs(t, err, rerrors.ErrInvalidManifest)
}

func TestParseManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `scope "implementation" {`},
		{"unknown scope", `scope "api" { dependencies = [] }`},
		{"bad coordinate", `scope "implementation" { dependencies = ["nope"] }`},
		{"bad constraint", `constraints = { "g:a:1" = "2" }`},
		{"missing attribute", `scope "implementation" {}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ParseManifest(testContext(), []byte(tc.src), "dependencies.hcl", NewResolver("/repo"))
			require.ErrorIs(t, err, rerrors.ErrInvalidManifest)
		})
	}
}

func TestLoadManifest_MissingFile(t *testing.T) {
	r := NewResolver("/repo")
	require.NoError(t, LoadManifest(testContext(), filepath.Join(t.TempDir(), "dependencies.hcl"), r))

	coords, err := r.Resolve("implementation")
	require.NoError(t, err)
	assert.Empty(t, coords)
}

func TestLoadManifest_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dependencies.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`scope "compileOnly" {
  dependencies = ["com.github.spotbugs:spotbugs-annotations:4.9.8"]
}`), 0o600))

	r := NewResolver("/repo")
	require.NoError(t, LoadManifest(testContext(), path, r))

	coords, err := r.Resolve("compileOnly")
	require.NoError(t, err)
	require.Len(t, coords, 1)
	assert.Equal(t, "spotbugs-annotations", coords[0].Artifact)
}
