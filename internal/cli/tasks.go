package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/graph"
	"github.com/UsatovPavel/RIID/internal/tui"
)

// taskInfo is the JSON form of one listed task.
type taskInfo struct {
	Name        string   `json:"name"`
	Group       string   `json:"group"`
	Description string   `json:"description,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty"`
	FinalizedBy []string `json:"finalized_by,omitempty"`
	Enabled     bool     `json:"enabled"`
}

// AddTasksCommand adds the tasks subcommand.
func AddTasksCommand(root *cobra.Command, flags *GlobalFlags, env *environment) {
	var all bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks of the build by group",
		Long: `List the tasks of the build by group.

Tasks without a group, such as the per-source-set compile tasks, are only
listed with --all.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, project, err := loadProject(cmd.Context(), projectRequest{flags: flags, env: env})
			if err != nil {
				return err
			}
			return listTasks(tui.NewOutput(cmd.OutOrStdout(), flags.Output), project.Graph(), all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also list tasks without a group")

	root.AddCommand(cmd)
}

// taskGroups returns the display order of task groups.
func taskGroups() []string {
	return []string{
		constants.GroupBuild,
		constants.GroupVerification,
		constants.GroupQuality,
		constants.GroupDocker,
		constants.GroupReporting,
		constants.GroupOther,
	}
}

func listTasks(out tui.Output, g *graph.Graph, all bool) error {
	byGroup := make(map[string][]*graph.Task)
	for _, name := range g.Names() {
		t, _ := g.Task(name)
		group := t.Group
		if group == "" {
			if !all {
				continue
			}
			group = constants.GroupOther
		}
		byGroup[group] = append(byGroup[group], t)
	}

	if _, ok := out.(*tui.JSONOutput); ok {
		infos := make([]taskInfo, 0)
		for _, group := range taskGroups() {
			for _, t := range byGroup[group] {
				infos = append(infos, taskInfo{
					Name:        t.Name,
					Group:       group,
					Description: t.Description,
					DependsOn:   t.DependsOn,
					FinalizedBy: t.FinalizedBy,
					Enabled:     t.Enabled,
				})
			}
		}
		return out.JSON(infos)
	}

	first := true
	for _, group := range taskGroups() {
		tasks := byGroup[group]
		if len(tasks) == 0 {
			continue
		}
		if !first {
			out.Info("")
		}
		first = false

		out.Info(groupTitle(group))
		rows := make([][]string, 0, len(tasks))
		for _, t := range tasks {
			desc := t.Description
			if !t.Enabled {
				desc += " (disabled)"
			}
			rows = append(rows, []string{t.Name, desc})
		}
		out.Table([]string{"TASK", "DESCRIPTION"}, rows)
	}
	return nil
}

// groupTitle renders "quality" as "Quality tasks".
func groupTitle(group string) string {
	if group == "" {
		return "Tasks"
	}
	return strings.ToUpper(group[:1]) + group[1:] + " tasks"
}
