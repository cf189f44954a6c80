// Package pipeline ties the filter, executor and monitor into the one
// combined operation: ingest AI text, execute the safe subset, log
// every result, report the aggregates.
package pipeline

import (
	"context"
	"errors"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/executor"
	"github.com/doeshing/cmdgate/internal/filter"
	"github.com/doeshing/cmdgate/internal/monitor"
	"github.com/doeshing/cmdgate/internal/ports"
)

// Pipeline is the long-lived context object owning the four component
// states. Hosts construct it once and pass it into every call.
type Pipeline struct {
	Filter   *filter.Filter
	Executor *executor.Executor
	Monitor  *monitor.Monitor
	Logger   ports.Logger

	// ExecOptions applies to every command the facade executes.
	ExecOptions domain.ExecOptions
}

// ProcessAIResponse filters the text, runs the safe commands
// sequentially, feeds each record to the monitor and returns the
// combined result. Unsafe commands never reach execution. The only
// error condition is missing wiring; execution failures are data on
// the returned records.
func (p *Pipeline) ProcessAIResponse(ctx context.Context, text string) (domain.PipelineResult, error) {
	if p.Filter == nil || p.Executor == nil || p.Monitor == nil || p.Logger == nil {
		return domain.PipelineResult{}, errors.New("pipeline dependencies not satisfied")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	filtered := p.Filter.Process(text)

	var executions []domain.ExecutionRecord
	for _, cmd := range filtered.SafeCommands {
		rec := p.Executor.Execute(ctx, cmd.Original, p.ExecOptions)
		executions = append(executions, rec)
		p.Monitor.LogExecution(rec)
	}
	for _, cmd := range filtered.UnsafeCommands {
		p.Logger.Warn("unsafe command rejected", map[string]interface{}{
			"command": cmd.Sanitized,
			"issues":  cmd.Issues,
			"risk":    string(cmd.RiskLevel),
		})
	}

	return domain.PipelineResult{
		Filtered:   filtered,
		Executions: executions,
		Statistics: domain.PipelineStatistics{
			AI:         p.Filter.Statistics(),
			Execution:  p.Executor.Stats(),
			Monitoring: p.Monitor.Statistics(),
		},
	}, nil
}

// Reset clears every ledger and the alert store. Callers run it
// between logical sessions; nothing else tears state down.
func (p *Pipeline) Reset() {
	if p.Filter != nil {
		p.Filter.Clear()
	}
	if p.Executor != nil {
		p.Executor.Reset()
	}
	if p.Monitor != nil {
		p.Monitor.Reset()
	}
}
