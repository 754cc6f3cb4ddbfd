package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/UsatovPavel/RIID/internal/clock"
	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/graph"
	"github.com/UsatovPavel/RIID/internal/signal"
	"github.com/UsatovPavel/RIID/internal/tui"
)

type runOutcome struct {
	report *graph.Report
	err    error
}

// runTasks plans and executes the requested tasks.
func runTasks(cmd *cobra.Command, flags *GlobalFlags, runFlags *RunFlags, env *environment, tasks []string) error {
	h := signal.NewHandler(cmd.Context())
	defer h.Stop()

	out := cmd.OutOrStdout()
	announce := out
	var live io.Writer
	if flags.Output == OutputJSON {
		announce = io.Discard
	} else if flags.Verbose {
		live = cmd.ErrOrStderr()
	}

	ctx, project, err := loadProject(h.Context(), projectRequest{
		flags:   flags,
		env:     env,
		workers: runFlags.Workers,
		stdout:  announce,
		live:    live,
	})
	if err != nil {
		return err
	}
	log := zerolog.Ctx(ctx)

	plan, err := project.Plan(tasks...)
	if err != nil {
		return errors.NewExitCode2Error(err)
	}

	if runFlags.DryRun {
		return printPlan(out, flags.Output, plan)
	}

	log.Info().
		Strs("tasks", tasks).
		Int("planned", plan.Len()).
		Str("build_id", project.BuildID()).
		Msg("starting build")

	progress := tui.NewProgress(out, flags.Output, flags.Verbose)
	clk := clock.RealClock{}
	started := clk.Now()

	done := make(chan runOutcome, 1)
	go func() {
		rep, runErr := project.Run(ctx, plan, runFlags.Workers, progress)
		done <- runOutcome{report: rep, err: runErr}
	}()

	var res runOutcome
	select {
	case res = <-done:
	case <-h.Forced():
		log.Warn().Msg("second interrupt received, not waiting for running tasks")
		return fmt.Errorf("%w: forced by a second interrupt", errors.ErrOperationCanceled)
	}

	if res.report != nil {
		progress.Finish(res.report, clk.Now().Sub(started))
	}
	if res.err != nil {
		return res.err
	}

	log.Debug().Str("summary", project.SummaryPath()).Msg("build finished")
	return nil
}

type planEntry struct {
	Task      string   `json:"task"`
	DependsOn []string `json:"depends_on,omitempty"`
	Finalizes []string `json:"finalizes,omitempty"`
}

// printPlan renders the execution order the way a dry run shows it.
func printPlan(w io.Writer, format string, plan *graph.Plan) error {
	order := plan.Order()
	if format == OutputJSON {
		entries := make([]planEntry, 0, len(order))
		for _, name := range order {
			entries = append(entries, planEntry{
				Task:      name,
				DependsOn: plan.Dependencies(name),
				Finalizes: plan.FinalizerTargets(name),
			})
		}
		return tui.NewJSONOutput(w).JSON(map[string]any{
			"requested": plan.Requested(),
			"tasks":     entries,
		})
	}

	for _, name := range order {
		if _, err := fmt.Fprintf(w, ":%s SKIPPED\n", name); err != nil {
			return err
		}
	}
	return nil
}
