package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
	"github.com/doeshing/cmdgate/internal/policy"
)

func newPolicyCommand(container *app.Container) *cobra.Command {
	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Manage the sanitization and classification policy",
	}
	policyCmd.AddCommand(
		newPolicyShowCommand(container),
		newPolicyInitCommand(container),
		newPolicyPathCommand(container),
	)
	return policyCmd
}

func newPolicyShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the loaded rule tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := policy.Load(container.Config.Security.PolicyFile)
			if err != nil {
				return fmt.Errorf("load policy: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Danger patterns (%d):\n", len(doc.Rules.DangerPatterns))
			for _, pattern := range doc.Rules.DangerPatterns {
				fmt.Fprintf(out, "  [%s] %s  %s\n", pattern.Level, pattern.Pattern, pattern.Message)
			}
			fmt.Fprintf(out, "Category rules: %d\n", len(doc.Rules.CategoryRules))
			fmt.Fprintf(out, "Risk rules: %d\n", len(doc.Rules.RiskRules))
			fmt.Fprintf(out, "Max command length: %d\n", doc.Rules.MaxCommandLength)
			return nil
		},
	}
}

func newPolicyInitCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default policy file for editing",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := container.Config.Security.PolicyFile
			doc, err := policy.Load("")
			if err != nil {
				return err
			}
			if err := policy.Save(path, doc); err != nil {
				return fmt.Errorf("save policy: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Policy written to %s\n", policy.ResolvePath(path))
			return nil
		},
	}
}

func newPolicyPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved policy file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), policy.ResolvePath(container.Config.Security.PolicyFile))
			return nil
		},
	}
}
