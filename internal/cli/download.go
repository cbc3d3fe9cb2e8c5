package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jaki95/showcut/config"
	"github.com/jaki95/showcut/internal/job"
	"github.com/jaki95/showcut/internal/pipeline"
	"github.com/jaki95/showcut/internal/progress"
	"github.com/jaki95/showcut/internal/tagging"
)

// DownloadCmd creates the download command.
func DownloadCmd(env *Env, global *globalFlags) *cobra.Command {
	var flags cutFlags

	cmd := &cobra.Command{
		Use:   "download <show> [target-dir]",
		Short: "Download all available broadcasts of a show",
		Long: `Find all available recordings of a show, download them as MP3 files
and save the broadcast metadata and chapters in their ID3 tags.

Files that already exist in the target directory are skipped.`,
		Example: `  showcut download "Morning Show"
  showcut download "FM4 Homebase" ~/Music/Homebase -c W,N
  showcut download "Morning Show" -n -i`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.loadConfig(global.configPath)
			if err != nil {
				return err
			}
			if len(args) == 2 {
				if err := useTargetDir(cfg, args[1]); err != nil {
					return err
				}
			}
			SetupLogger(env.Stderr, cfg.LogLevel, cfg.LogFormat, global.verbose)

			tracker := progress.NewProgressTracker()
			if !global.quiet {
				bars := newBarListener(env.Progress)
				listener := bars.handle
				tracker.AddListener(listener)
				defer func() {
					tracker.RemoveListener(listener)
					bars.close()
				}()
			}

			runner, closer, err := env.NewRunner(cmd.Context(), cfg, tracker)
			if err != nil {
				return err
			}
			defer closer.Close()

			summary, err := runner.Run(cmd.Context(), strings.TrimSpace(args[0]), pipeline.Options{
				CutTypes:    pipeline.ParseCutTypes(flags.cut),
				IgnoreMarks: flags.ignore,
				NewestOnly:  flags.newest,
			})
			if summary.Total > 0 {
				printSummary(env.Stdout, runner.Jobs().Jobs(), summary)
			}
			if err != nil {
				return err
			}
			if !summary.OK() {
				return fmt.Errorf("%w: %d of %d", ErrBroadcastsFailed, summary.Failed+summary.Cancelled, summary.Total)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// useTargetDir points local storage at dir, which must exist.
func useTargetDir(cfg *config.Config, dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) || (err == nil && !info.IsDir()) {
		return fmt.Errorf("%w: %w: %s", ErrSetup, ErrTargetDir, dir)
	}
	if err != nil {
		return setupError("failed to check target directory", err)
	}
	cfg.Storage.OutputDir = dir
	return nil
}

func printSummary(w io.Writer, jobs []job.Status, summary job.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, j := range jobs {
		detail := j.Output
		if j.Error != "" {
			detail = j.Error
		} else if j.Status == job.StatusSkipped || j.Status == job.StatusCancelled {
			detail = strings.TrimSpace(j.Message + " " + j.Output)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", j.Status, j.Title, j.Airdate.Format(tagging.AirdateLayout), detail)
	}
	tw.Flush()

	fmt.Fprintf(w, "%d saved, %d skipped, %d failed", summary.Completed, summary.Skipped, summary.Failed)
	if summary.Cancelled > 0 {
		fmt.Fprintf(w, ", %d cancelled", summary.Cancelled)
	}
	fmt.Fprintln(w)
}
