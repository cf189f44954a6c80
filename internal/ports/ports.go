// Package ports defines the interfaces between the pipeline core and
// its adapters.
//
// The pipeline itself owns no process spawning, no console and no
// config file format; those concerns arrive through the interfaces
// below so the core stays testable and hosts can substitute their own
// implementations.
package ports

import (
	"context"

	"github.com/doeshing/cmdgate/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.cmdgate/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CommandRunner is the process-invocation seam behind the executor's
// timeout race. Run must return once the command completes or the
// context is canceled; a non-nil error marks the attempt failed.
type CommandRunner interface {
	Run(ctx context.Context, command string) (domain.RunnerResult, error)
}

// Logger is the structured logging abstraction the pipeline emits its
// trace and alert events through, instead of writing to any console
// directly.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
