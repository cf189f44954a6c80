// Package cli exposes the pipeline through a cobra command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "cmdgate",
		Short: "cmdgate - command protection pipeline",
		Long: "cmdgate sanitizes, validates and executes shell command text,\n" +
			"filters AI-generated output down to its safe commands, and watches\n" +
			"execution history for failure patterns.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCommand(container))
	root.AddCommand(newProcessCommand(container))
	root.AddCommand(newFilterCommand(container))
	root.AddCommand(newSanitizeCommand(container))
	root.AddCommand(newPolicyCommand(container))
	root.AddCommand(newDoctorCommand(container))
	return root, nil
}
