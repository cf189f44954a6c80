package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
)

func newFilterCommand(container *app.Container) *cobra.Command {
	var showHistory bool

	cmd := &cobra.Command{
		Use:   "filter [file]",
		Short: "Extract and classify commands from AI output without executing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}

			result := container.Filter.Process(text)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Extracted %d command(s)\n", len(result.ExtractedCommands))
			if len(result.SafeCommands) > 0 {
				fmt.Fprintln(out, "Safe:")
				for _, safe := range result.SafeCommands {
					fmt.Fprintf(out, "  %s (%s/%s)\n", safe.Sanitized, safe.Category, safe.RiskLevel)
				}
			}
			if len(result.UnsafeCommands) > 0 {
				fmt.Fprintln(out, "Unsafe:")
				for _, unsafe := range result.UnsafeCommands {
					fmt.Fprintf(out, "  %s\n", unsafe.Original)
					for _, issue := range unsafe.Issues {
						fmt.Fprintf(out, "    - %s\n", issue)
					}
				}
			}

			if showHistory {
				for _, rec := range container.Filter.History(10) {
					fmt.Fprintf(out, "%s  extracted=%d safe=%d unsafe=%d\n",
						rec.ID, rec.Extracted, rec.Safe, rec.Unsafe)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showHistory, "history", false, "show recent processing history")
	return cmd
}
