// Package cli implements the showcut command line.
package cli

import (
	"github.com/spf13/cobra"
)

// globalFlags are shared by all commands.
type globalFlags struct {
	configPath string
	verbose    bool
	quiet      bool
}

// RootCmd creates the showcut root command with all subcommands.
func RootCmd(env *Env, version string) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "showcut",
		Short: "Download radio broadcasts with ads and news cut out",
		Long: `showcut finds the recordings of a radio show, downloads them and
removes unwanted parts such as advertisements or news. Chapter marks are
moved so that they still match the trimmed audio.`,
		Version: version,
		// Silence Cobra's default error/usage printing; main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $SHOWCUT_CONFIG or "+DefaultConfigPath+")")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not show progress bars")

	cmd.AddCommand(DownloadCmd(env, &flags))
	cmd.AddCommand(PlanCmd(env, &flags))
	cmd.AddCommand(InspectCmd(env))
	return cmd
}

// cutFlags select what a run removes from the broadcasts.
type cutFlags struct {
	cut    string
	ignore bool
	newest bool
}

func (f *cutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.cut, "cut", "c", "", "cut all chapters of the given types, comma separated. Known types: "+chapterTypesHelp())
	cmd.Flags().BoolVarP(&f.ignore, "ignore", "i", false, "ignore the recommended removals, typically the news")
	cmd.Flags().BoolVarP(&f.newest, "newest", "n", false, "process the newest broadcast only")
}
