package executor

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
)

// ShellRunner invokes commands on the host shell. The executor's
// timeout race cancels the context, which kills the process.
type ShellRunner struct {
	shell string
}

// NewShellRunner builds a runner, shell defaults to /bin/sh.
func NewShellRunner(shell string) *ShellRunner {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &ShellRunner{shell: shell}
}

// Run implements ports.CommandRunner.
func (r *ShellRunner) Run(ctx context.Context, command string) (domain.RunnerResult, error) {
	c := exec.CommandContext(ctx, r.shell, "-c", command)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := domain.RunnerResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		return result, err
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

var _ ports.CommandRunner = (*ShellRunner)(nil)
