package pipeline

import (
	"context"
	"testing"

	"github.com/doeshing/cmdgate/internal/classify"
	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/executor"
	"github.com/doeshing/cmdgate/internal/filter"
	"github.com/doeshing/cmdgate/internal/monitor"
	"github.com/doeshing/cmdgate/internal/pkg/logger"
	"github.com/doeshing/cmdgate/internal/policy"
	"github.com/doeshing/cmdgate/internal/sanitize"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	s, err := sanitize.New(policy.DefaultDangerPatterns(), 0)
	if err != nil {
		t.Fatalf("sanitize.New error: %v", err)
	}
	c, err := classify.New(policy.DefaultCategoryRules(), policy.DefaultRiskRules())
	if err != nil {
		t.Fatalf("classify.New error: %v", err)
	}
	log := logger.Nop{}
	runner := executor.NewSimulatedRunnerWithLatency(0, 0)
	return &Pipeline{
		Filter:   filter.New(s, c, log),
		Executor: executor.New(runner, s, c, log),
		Monitor:  monitor.New(log),
		Logger:   log,
	}
}

func TestZeroValueExecOptionsKeepProtections(t *testing.T) {
	opts := domain.ExecOptions{}.Normalized()
	if opts.NoSanitize || opts.NoValidate || opts.NoLog {
		t.Fatalf("zero-value options disabled protections: %+v", opts)
	}
	if opts.TimeoutMS != domain.DefaultTimeoutMS {
		t.Fatalf("timeout = %d, want %d", opts.TimeoutMS, domain.DefaultTimeoutMS)
	}
}

func TestProcessAIResponse(t *testing.T) {
	p := newTestPipeline(t)
	result, err := p.ProcessAIResponse(context.Background(), "แgit add .\ngit status\nnpm install")
	if err != nil {
		t.Fatalf("ProcessAIResponse error: %v", err)
	}

	if len(result.Filtered.UnsafeCommands) < 1 {
		t.Fatalf("expected the Thai-prefixed line to be unsafe: %+v", result.Filtered)
	}
	if len(result.Filtered.SafeCommands) < 1 {
		t.Fatalf("expected clean lines to be safe: %+v", result.Filtered)
	}

	// every execution corresponds to a safe command, never an unsafe one
	if len(result.Executions) != len(result.Filtered.SafeCommands) {
		t.Fatalf("executions %d != safe commands %d", len(result.Executions), len(result.Filtered.SafeCommands))
	}
	safe := map[string]bool{}
	for _, cmd := range result.Filtered.SafeCommands {
		safe[cmd.Original] = true
	}
	for _, rec := range result.Executions {
		if !safe[rec.OriginalCommand] {
			t.Fatalf("executed a command outside the safe set: %q", rec.OriginalCommand)
		}
	}

	if result.Statistics.AI.ResponsesProcessed != 1 {
		t.Fatalf("ai stats = %+v", result.Statistics.AI)
	}
	if result.Statistics.Execution.Total != len(result.Executions) {
		t.Fatalf("execution stats = %+v", result.Statistics.Execution)
	}
	if result.Statistics.Monitoring.TotalExecutions != len(result.Executions) {
		t.Fatalf("monitoring stats = %+v", result.Statistics.Monitoring)
	}
}

func TestProcessAIResponseDeterministicPartition(t *testing.T) {
	p := newTestPipeline(t)
	first, err := p.ProcessAIResponse(context.Background(), "git status\nrm -rf /")
	if err != nil {
		t.Fatalf("ProcessAIResponse error: %v", err)
	}
	second, err := p.ProcessAIResponse(context.Background(), "git status\nrm -rf /")
	if err != nil {
		t.Fatalf("ProcessAIResponse error: %v", err)
	}
	if len(first.Filtered.SafeCommands) != len(second.Filtered.SafeCommands) {
		t.Fatalf("partition not deterministic")
	}
	if len(first.Filtered.UnsafeCommands) != 1 || len(second.Filtered.UnsafeCommands) != 1 {
		t.Fatalf("dangerous command slipped the unsafe bucket")
	}
}

func TestProcessAIResponseMissingDependencies(t *testing.T) {
	p := &Pipeline{}
	if _, err := p.ProcessAIResponse(context.Background(), "git status"); err == nil {
		t.Fatalf("expected wiring error")
	}
}

func TestResetClearsAllLedgers(t *testing.T) {
	p := newTestPipeline(t)
	if _, err := p.ProcessAIResponse(context.Background(), "git status"); err != nil {
		t.Fatalf("ProcessAIResponse error: %v", err)
	}
	p.Reset()

	if p.Executor.Stats().Total != 0 {
		t.Fatalf("executor ledger not cleared")
	}
	if p.Monitor.Size() != 0 {
		t.Fatalf("monitor ledger not cleared")
	}
	if p.Filter.Statistics().ResponsesProcessed != 0 {
		t.Fatalf("filter stats not cleared")
	}
}
