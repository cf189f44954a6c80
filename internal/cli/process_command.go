package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
)

func newProcessCommand(container *app.Container) *cobra.Command {
	var (
		exportPath string
		exportFmt  string
		showStats  bool
	)

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Filter an AI response and execute its safe commands",
		Long: "Reads a block of AI output from a file (or stdin when omitted or \"-\"),\n" +
			"extracts candidate commands, executes the safe subset and reports the result.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}

			result, err := container.Pipeline.ProcessAIResponse(cmd.Context(), text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Extracted %d command(s): %d safe, %d unsafe\n",
				len(result.Filtered.ExtractedCommands),
				len(result.Filtered.SafeCommands),
				len(result.Filtered.UnsafeCommands))
			for _, unsafe := range result.Filtered.UnsafeCommands {
				fmt.Fprintf(out, "  rejected: %s\n", unsafe.Original)
				for _, issue := range unsafe.Issues {
					fmt.Fprintf(out, "            - %s\n", issue)
				}
			}
			for _, rec := range result.Executions {
				printRecord(cmd, rec)
			}
			printAlerts(cmd, container.Monitor.Alerts(0, false))
			if showStats {
				printStatistics(cmd, result.Statistics.Monitoring)
			}
			return exportIfRequested(container, exportPath, exportFmt)
		},
	}

	cmd.Flags().BoolVar(&showStats, "stats", false, "print monitor statistics afterwards")
	cmd.Flags().StringVar(&exportPath, "export", "", "write the execution ledger to this file")
	cmd.Flags().StringVar(&exportFmt, "export-format", "json", "export format: json, csv or sqlite")
	return cmd
}

// readInput returns file contents for a path argument, stdin otherwise.
func readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
