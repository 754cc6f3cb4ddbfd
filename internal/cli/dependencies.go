package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UsatovPavel/RIID/internal/dependency"
	"github.com/UsatovPavel/RIID/internal/tui"
)

// scopeInfo is the JSON form of one resolved scope.
type scopeInfo struct {
	Scope        string   `json:"scope"`
	Extends      []string `json:"extends,omitempty"`
	Dependencies []string `json:"dependencies"`
}

// AddDependenciesCommand adds the dependencies subcommand.
func AddDependenciesCommand(root *cobra.Command, flags *GlobalFlags, env *environment) {
	cmd := &cobra.Command{
		Use:   "dependencies [scope]",
		Short: "Print the resolved dependency scopes",
		Long: `Print the resolved dependency scopes.

Each scope lists its own coordinates followed by those inherited from the
scopes it extends, with versions filled in from constraints. Without an
argument every scope is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, project, err := loadProject(cmd.Context(), projectRequest{flags: flags, env: env})
			if err != nil {
				return err
			}
			scopes, err := resolveScopes(project.Resolver(), args)
			if err != nil {
				return err
			}
			return printScopes(tui.NewOutput(cmd.OutOrStdout(), flags.Output), scopes)
		},
	}

	root.AddCommand(cmd)
}

func resolveScopes(r *dependency.Resolver, only []string) ([]scopeInfo, error) {
	names := only
	if len(names) == 0 {
		names = r.Scopes()
	}

	infos := make([]scopeInfo, 0, len(names))
	for _, name := range names {
		coords, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		scope, _ := r.Scope(name)
		info := scopeInfo{Scope: name, Extends: scope.Extends, Dependencies: make([]string, 0, len(coords))}
		for _, c := range coords {
			info.Dependencies = append(info.Dependencies, c.String())
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func printScopes(out tui.Output, scopes []scopeInfo) error {
	if _, ok := out.(*tui.JSONOutput); ok {
		return out.JSON(scopes)
	}

	for i, s := range scopes {
		if i > 0 {
			out.Info("")
		}
		header := s.Scope
		if len(s.Extends) > 0 {
			header += fmt.Sprintf(" (extends %v)", s.Extends)
		}
		out.Info(header)
		if len(s.Dependencies) == 0 {
			out.Info("  No dependencies")
			continue
		}
		for _, d := range s.Dependencies {
			out.Info("  " + d)
		}
	}
	return nil
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
