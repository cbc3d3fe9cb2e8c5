package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaki95/showcut/internal/tagging"
)

// InspectCmd creates the inspect command.
func InspectCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the tags and chapters of a saved broadcast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := tagging.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(env.Stdout, "Format:   %s\n", s.Format)
			fmt.Fprintf(env.Stdout, "Title:    %s\n", s.Title)
			fmt.Fprintf(env.Stdout, "Album:    %s\n", s.Album)
			fmt.Fprintf(env.Stdout, "Artist:   %s\n", s.Artist)
			fmt.Fprintf(env.Stdout, "Duration: %s\n", s.Duration)
			fmt.Fprintf(env.Stdout, "Chapters: %d\n", len(s.Chapters))
			for i, c := range s.Chapters {
				fmt.Fprintf(env.Stdout, "  %3d  %s - %s  %s\n", i+1, clock(c.Start.Milliseconds()), clock(c.End.Milliseconds()), c.Title)
			}
			return nil
		},
	}
}
