package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dropfour/connect4/internal/terminal"
)

// connect4 play
func Play() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a hot-seat game in the terminal",
		Long: heredoc.Doc(`play starts a two-player game on this terminal. Players
			take turns typing the number of the column to drop a piece
			into; "q" ends the game early.`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}

			_, err := terminal.Play(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().Bool("no-color", false, "Disable coloured pieces")
	return cmd
}
