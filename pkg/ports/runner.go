package ports

import (
	"context"

	"github.com/aretw0/sprout/pkg/domain"
)

// CommandRunner is the narrow command-execution interface every phase goes through.
// It follows the probe → invoke → inspect pattern: phases never look at the internal
// state of the external tools, only at binary availability and exit codes.
type CommandRunner interface {
	// LookPath reports the resolved path of an executable, or an error if it is not invocable.
	LookPath(name string) (string, error)

	// Run executes cmd attached to the user's terminal and waits for it.
	// A command that could not start is reported through CommandResult.Error, not a Go error.
	Run(ctx context.Context, cmd domain.Command) domain.CommandResult

	// Output executes cmd and captures its standard output.
	Output(ctx context.Context, cmd domain.Command) (string, domain.CommandResult)
}
