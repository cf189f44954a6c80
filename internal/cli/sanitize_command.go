package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
)

func newSanitizeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize <text>",
		Short: "Show the sanitization diagnostics for a command string",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			report := container.Sanitizer.Report(text)
			fmt.Fprintf(out, "Sanitized: %s\n", report.Sanitized)
			fmt.Fprintf(out, "Removed %d character(s): thai=%d invisible=%d control=%d\n",
				report.CharactersRemoved,
				report.CategoryCounts.Thai,
				report.CategoryCounts.Invisible,
				report.CategoryCounts.Control)

			if container.Sanitizer.DetectEncodingIssues(text) {
				fmt.Fprintln(out, "Warning: mixed Thai/Latin script detected")
			}
			for _, entry := range container.Sanitizer.ProblematicCharacters(text) {
				fmt.Fprintf(out, "  %s\n", entry)
			}

			validation := container.Sanitizer.Validate(text)
			if validation.IsValid {
				fmt.Fprintln(out, "Validation: ok")
			} else {
				fmt.Fprintln(out, "Validation issues:")
				for _, issue := range validation.Issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
			}

			fmt.Fprintf(out, "Category: %s, risk: %s\n",
				container.Classifier.Category(report.Sanitized),
				container.Classifier.Risk(report.Sanitized))
			return nil
		},
	}
}
