package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaki95/showcut/internal/pipeline"
	"github.com/jaki95/showcut/internal/progress"
)

// PlanCmd creates the plan command.
func PlanCmd(env *Env, global *globalFlags) *cobra.Command {
	var flags cutFlags

	cmd := &cobra.Command{
		Use:   "plan <show>",
		Short: "Show what download would keep and cut, without downloading",
		Example: `  showcut plan "Morning Show" -c W
  showcut plan "Morning Show" -n`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.loadConfig(global.configPath)
			if err != nil {
				return err
			}
			SetupLogger(env.Stderr, cfg.LogLevel, cfg.LogFormat, global.verbose)

			runner, closer, err := env.NewRunner(cmd.Context(), cfg, progress.NewProgressTracker())
			if err != nil {
				return err
			}
			defer closer.Close()

			plans, err := runner.Plan(cmd.Context(), strings.TrimSpace(args[0]), pipeline.Options{
				CutTypes:    pipeline.ParseCutTypes(flags.cut),
				IgnoreMarks: flags.ignore,
				NewestOnly:  flags.newest,
			})
			if err != nil {
				return err
			}

			for i, plan := range plans {
				if i > 0 {
					fmt.Fprintln(env.Stdout)
				}
				printPlan(env.Stdout, plan)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func printPlan(w io.Writer, plan *pipeline.Plan) {
	fmt.Fprintln(w, plan.Filename)
	if plan.Err != nil {
		fmt.Fprintf(w, "  skipped: %v\n", plan.Err)
		return
	}

	fmt.Fprintf(w, "  keeps %s of %s\n", clock(plan.Duration()), clock(plan.Broadcast.Duration()))
	for _, km := range plan.Keepmarks {
		fmt.Fprintf(w, "  keep     %s - %s\n", clock(km.Start), clock(km.End))
	}
	for _, c := range plan.Emitted() {
		title := c.Title
		if c.Hidden {
			title += " (hidden)"
		}
		fmt.Fprintf(w, "  %-8s %s - %s  [%s] %s\n", c.ID, clock(c.Start), clock(c.End), c.Type, title)
	}
}
