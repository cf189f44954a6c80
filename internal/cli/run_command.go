package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdgate/internal/app"
	"github.com/doeshing/cmdgate/internal/domain"
)

func newRunCommand(container *app.Container) *cobra.Command {
	var (
		timeoutMS  int
		noSanitize bool
		noValidate bool
		retry      bool
		maxRetries int
		parallel   bool
		showStats  bool
		exportPath string
		exportFmt  string
	)

	cmd := &cobra.Command{
		Use:   "run <command> [command...]",
		Short: "Execute one or more commands through the protection pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := domain.ExecOptions{
				TimeoutMS:      timeoutMS,
				NoSanitize:     noSanitize,
				NoValidate:     noValidate,
				RetryOnFailure: retry,
				MaxRetries:     maxRetries,
			}

			var records []domain.ExecutionRecord
			if parallel {
				records = container.Executor.ExecuteAllParallel(cmd.Context(), args, opts)
			} else {
				records = container.Executor.ExecuteAll(cmd.Context(), args, opts)
			}
			for _, rec := range records {
				container.Monitor.LogExecution(rec)
				printRecord(cmd, rec)
			}

			printAlerts(cmd, container.Monitor.Alerts(0, false))
			if showStats {
				printStatistics(cmd, container.Monitor.Statistics())
			}
			return exportIfRequested(container, exportPath, exportFmt)
		},
	}

	cmd.Flags().IntVar(&timeoutMS, "timeout-ms", 0, "per-command timeout in milliseconds (default 30000)")
	cmd.Flags().BoolVar(&noSanitize, "no-sanitize", false, "skip character sanitization")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip validation (not recommended)")
	cmd.Flags().BoolVar(&retry, "retry", false, "retry non-timeout failures")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 0, "retry budget when --retry is set (default 3)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "run all commands concurrently")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print monitor statistics afterwards")
	cmd.Flags().StringVar(&exportPath, "export", "", "write the execution ledger to this file")
	cmd.Flags().StringVar(&exportFmt, "export-format", "json", "export format: json, csv or sqlite")
	return cmd
}

func printRecord(cmd *cobra.Command, rec domain.ExecutionRecord) {
	status := "ok"
	if !rec.Success {
		status = "failed"
	}
	if rec.TimeoutUsed {
		status = "timeout"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s (%dms, %s/%s) %s\n",
		status, rec.SanitizedCommand, rec.ExecutionTimeMS, rec.Category, rec.RiskLevel, rec.ID)
	if rec.Error != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "       %s\n", rec.Error)
	}
	if rec.Sanitization != nil && rec.Sanitization.CharactersRemoved > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "       sanitized: removed %d character(s) (thai=%d invisible=%d control=%d)\n",
			rec.Sanitization.CharactersRemoved,
			rec.Sanitization.CategoryCounts.Thai,
			rec.Sanitization.CategoryCounts.Invisible,
			rec.Sanitization.CategoryCounts.Control)
	}
}
