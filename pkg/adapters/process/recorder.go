package process

import (
	"context"
	"sync"

	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/ports"
)

// Recorder is a dry-run CommandRunner. Availability probes and read-only lookups
// (Output) go to the host runner so the plan reflects the machine; commands passed
// to Run are only recorded and reported as successful.
type Recorder struct {
	mu       sync.Mutex
	host     ports.CommandRunner
	commands []domain.Command
}

var _ ports.CommandRunner = (*Recorder)(nil)

// NewRecorder creates a Recorder over host. A nil host uses a plain process Runner.
func NewRecorder(host ports.CommandRunner) *Recorder {
	if host == nil {
		host = NewRunner()
	}
	return &Recorder{host: host}
}

// LookPath delegates to the host runner.
func (r *Recorder) LookPath(name string) (string, error) {
	return r.host.LookPath(name)
}

// Run records cmd without starting it.
func (r *Recorder) Run(_ context.Context, cmd domain.Command) domain.CommandResult {
	r.record(cmd)
	return domain.CommandResult{Command: cmd}
}

// Output records cmd and runs it on the host. Callers only pass lookups that
// leave the machine unchanged.
func (r *Recorder) Output(ctx context.Context, cmd domain.Command) (string, domain.CommandResult) {
	r.record(cmd)
	return r.host.Output(ctx, cmd)
}

// Commands returns a copy of the recorded commands in issue order.
func (r *Recorder) Commands() []domain.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Command, len(r.commands))
	copy(out, r.commands)
	return out
}

func (r *Recorder) record(cmd domain.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}
