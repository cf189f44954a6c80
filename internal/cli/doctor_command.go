package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
	"github.com/doeshing/cmdgate/internal/policy"
)

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Report pipeline configuration and health",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := container.Config

			fmt.Fprintf(out, "Config file:   %s\n", container.ConfigLoader.Path())
			fmt.Fprintf(out, "Policy file:   %s\n", policy.ResolvePath(cfg.Security.PolicyFile))
			fmt.Fprintf(out, "Backend:       %s\n", cfg.Execution.Backend)
			fmt.Fprintf(out, "Shell:         %s\n", cfg.Execution.Shell)
			fmt.Fprintf(out, "Timeout:       %d ms\n", cfg.Execution.TimeoutMS)
			fmt.Fprintf(out, "Security:      enabled=%v\n", cfg.Security.IsEnabled())
			fmt.Fprintf(out, "Danger rules:  %d (max length %d)\n",
				container.Sanitizer.PatternCount(), container.Sanitizer.MaxLength())
			fmt.Fprintf(out, "Ledger:        %d record(s) held by the monitor\n", container.Monitor.Size())
			return nil
		},
	}
}
