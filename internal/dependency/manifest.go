package dependency

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"

	"github.com/UsatovPavel/RIID/internal/errors"
)

// manifestFile is the HCL schema of dependencies.hcl.
//
//	constraints = {
//	  "org.junit.jupiter:junit-jupiter" = "5.10.0"
//	}
//
//	scope "implementation" {
//	  dependencies = ["org.slf4j:slf4j-api:2.0.13"]
//	}
//
// Expressions may reference the variables set on the resolver, e.g.
// "org.example:jdk-shim:${java_version}".
type manifestFile struct {
	Constraints map[string]string `hcl:"constraints,optional"`
	Scopes      []scopeBlock      `hcl:"scope,block"`
}

type scopeBlock struct {
	Name         string   `hcl:"name,label"`
	Dependencies []string `hcl:"dependencies"`
}

// LoadManifest reads the HCL manifest at path into r. A missing file leaves r
// with empty scopes.
func LoadManifest(ctx context.Context, path string, r *Resolver) error {
	src, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no dependency manifest")
			return nil
		}
		return errors.Wrapf(errors.ErrInvalidManifest, "read %s: %v", path, err)
	}
	return ParseManifest(ctx, src, path, r)
}

// ParseManifest decodes HCL manifest bytes into r.
func ParseManifest(ctx context.Context, src []byte, filename string, r *Resolver) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return errors.Wrap(errors.ErrInvalidManifest, diags.Error())
	}

	var m manifestFile
	if diags := gohcl.DecodeBody(file.Body, r.evalContext(), &m); diags.HasErrors() {
		return errors.Wrap(errors.ErrInvalidManifest, diags.Error())
	}

	for module, version := range m.Constraints {
		c, err := ParseCoordinate(module)
		if err != nil || c.IsProject() || c.Version != "" {
			return errors.Wrapf(errors.ErrInvalidManifest, "constraint key %q must be group:artifact", module)
		}
		r.Constrain(module, version)
	}

	count := 0
	for _, block := range m.Scopes {
		if err := r.Declare(block.Name, block.Dependencies...); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrInvalidManifest, err)
		}
		count += len(block.Dependencies)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", filename).
		Int("scopes", len(m.Scopes)).
		Int("dependencies", count).
		Msg("dependency manifest loaded")
	return nil
}

func (r *Resolver) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(r.variables))
	for name, value := range r.variables {
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{Variables: vars}
}
