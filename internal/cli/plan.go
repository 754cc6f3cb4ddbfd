package cli

import (
	"github.com/spf13/cobra"

	"github.com/UsatovPavel/RIID/internal/testplan"
	"github.com/UsatovPavel/RIID/internal/tui"
)

// testPlan is the JSON form of a test task's selection.
type testPlan struct {
	Task      string              `json:"task"`
	SourceSet string              `json:"source_set"`
	Filter    []string            `json:"filter"`
	Classes   []testplan.Selected `json:"classes"`
}

// AddPlanCommand adds the plan subcommand.
func AddPlanCommand(root *cobra.Command, flags *GlobalFlags, env *environment) {
	cmd := &cobra.Command{
		Use:   "plan <testTask>",
		Short: "Show the test classes and methods a test task selects",
		Long: `Show the test classes and methods a test task selects.

The test sources are scanned for JUnit test methods and @Tag annotations and
the task's tag and class name filters are applied. Build parameters such as
-PincludeStress change the selection of 'test'.`,
		Example: `  riid-build plan test
  riid-build -PincludeStress plan test
  riid-build plan testDispatcher --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, project, err := loadProject(cmd.Context(), projectRequest{flags: flags, env: env})
			if err != nil {
				return err
			}
			task, selected, err := project.TestSelection(args[0])
			if err != nil {
				return err
			}
			return printTestPlan(tui.NewOutput(cmd.OutOrStdout(), flags.Output), task, selected)
		},
	}

	root.AddCommand(cmd)
}

func printTestPlan(out tui.Output, task testplan.TestTask, selected []testplan.Selected) error {
	if _, ok := out.(*tui.JSONOutput); ok {
		if selected == nil {
			selected = []testplan.Selected{}
		}
		return out.JSON(testPlan{
			Task:      task.Name,
			SourceSet: task.SourceSet,
			Filter:    task.Selection.Args(),
			Classes:   selected,
		})
	}

	out.Info(task.Name + " (" + task.SourceSet + "): " + task.Description)
	rows := make([][]string, 0, len(selected))
	methods := 0
	for _, s := range selected {
		for _, m := range s.Methods {
			rows = append(rows, []string{s.Class, m})
		}
		methods += len(s.Methods)
	}
	out.Table([]string{"CLASS", "METHOD"}, rows)
	out.Success(pluralize(len(selected), "class", "classes") + ", " + pluralize(methods, "test", "tests") + " selected")
	return nil
}
