package executor

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
)

// SimulatedRunner fakes process execution with a bounded random
// latency. Commands containing "fail" fail deterministically, which
// keeps failure-pattern behavior reproducible.
type SimulatedRunner struct {
	minLatency time.Duration
	maxLatency time.Duration
}

// NewSimulatedRunner uses the stock 50-400ms latency band.
func NewSimulatedRunner() *SimulatedRunner {
	return NewSimulatedRunnerWithLatency(50*time.Millisecond, 400*time.Millisecond)
}

// NewSimulatedRunnerWithLatency pins the latency band, min == max
// makes runs fully deterministic.
func NewSimulatedRunnerWithLatency(min, max time.Duration) *SimulatedRunner {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return &SimulatedRunner{minLatency: min, maxLatency: max}
}

// Run implements ports.CommandRunner.
func (r *SimulatedRunner) Run(ctx context.Context, command string) (domain.RunnerResult, error) {
	latency := r.minLatency
	if span := r.maxLatency - r.minLatency; span > 0 {
		latency += time.Duration(rand.Int63n(int64(span) + 1))
	}

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return domain.RunnerResult{}, ctx.Err()
	}

	if strings.Contains(command, "fail") {
		return domain.RunnerResult{
			Stderr:   "simulated failure",
			ExitCode: 1,
		}, errors.New("exit status 1")
	}
	return domain.RunnerResult{
		Stdout: "Simulated execution of: " + command,
	}, nil
}

var _ ports.CommandRunner = (*SimulatedRunner)(nil)
