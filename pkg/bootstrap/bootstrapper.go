package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/sprout/internal/logging"
	"github.com/aretw0/sprout/pkg/adapters/process"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/ports"
	"github.com/aretw0/sprout/pkg/prompt"
	"github.com/google/uuid"
)

// NextSteps is printed after every run that was not aborted.
const NextSteps = `Next steps:

1. Update the .env file with your API keys
2. Run 'npm run dev' to start the development server
3. Visit http://localhost:3000 to view your application
`

// Bootstrapper orchestrates the bootstrap phases.
type Bootstrapper struct {
	settings Settings
	runner   ports.CommandRunner
	prompter ports.Prompter
	out      io.Writer
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	renderer Renderer
	runID    string
	now      func() time.Time
}

// step binds a phase name to its implementation.
type step struct {
	name domain.PhaseName
	run  func(context.Context, *phase) error
}

// New creates a Bootstrapper. Without options it bootstraps the current directory
// of the current host with real processes.
func New(opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		settings: DefaultSettings(),
		out:      os.Stdout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.runner == nil {
		b.runner = process.NewRunner(process.WithBaseDir(b.settings.ProjectDir))
	}
	if b.prompter == nil {
		b.prompter = prompt.New(nil, b.out)
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if b.settings.ProjectDir == "" {
		b.settings.ProjectDir = "."
	}
	return b
}

// Settings returns the effective settings.
func (b *Bootstrapper) Settings() Settings {
	return b.settings
}

func (b *Bootstrapper) steps() []step {
	return []step{
		{domain.PhaseSystem, b.installSystem},
		{domain.PhaseGit, b.configureGit},
		{domain.PhaseNode, b.installNode},
		{domain.PhasePython, b.installPython},
		{domain.PhaseEnv, b.writeEnvFile},
	}
}

// Run executes every phase in order and returns the report.
// The error is non-nil only for terminal conditions (see domain.IsTerminal) and cancellation;
// the report is returned in every case.
func (b *Bootstrapper) Run(ctx context.Context) (*domain.Report, error) {
	report := &domain.Report{
		ID:         b.runID,
		ProjectDir: b.settings.ProjectDir,
		Platform:   b.settings.Platform,
		DryRun:     b.settings.DryRun,
		StartedAt:  b.now(),
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	b.logger.Debug("bootstrap started", "run_id", report.ID, "dir", report.ProjectDir, "platform", report.Platform)
	b.say("Starting project setup...")

	var runErr error
	for _, s := range b.steps() {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		res, err := b.runPhase(ctx, report.ID, s)
		report.Phases = append(report.Phases, res)
		if err != nil {
			runErr = err
			break
		}
	}

	report.FinishedAt = b.now()
	if runErr != nil {
		report.Error = runErr.Error()
	}
	report.Summarize()

	b.logger.Debug("bootstrap finished", "run_id", report.ID, "status", report.Status)
	b.finish(report)
	return report, runErr
}

func (b *Bootstrapper) runPhase(ctx context.Context, runID string, s step) (domain.PhaseResult, error) {
	p := &phase{
		b:     b,
		ctx:   ctx,
		runID: runID,
		result: domain.PhaseResult{
			Phase:     s.name,
			StartedAt: b.now(),
		},
	}

	if b.hooks.OnPhaseStart != nil {
		b.hooks.OnPhaseStart(ctx, &domain.PhaseEvent{
			EventBase: domain.EventBase{Timestamp: p.result.StartedAt, Type: domain.EventPhaseStart, RunID: runID},
			Phase:     s.name,
		})
	}

	var err error
	if slices.Contains(b.settings.Skip, s.name) {
		p.skip("disabled by configuration")
	} else {
		err = s.run(ctx, p)
	}
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	switch {
	case err != nil:
		p.result.Status = domain.StatusAborted
		if p.result.Reason == "" {
			p.result.Reason = err.Error()
		}
	case p.result.Status != "":
	case len(p.result.FailedCommands()) > 0:
		p.result.Status = domain.StatusFailed
	default:
		p.result.Status = domain.StatusSuccess
	}
	p.result.Duration = b.now().Sub(p.result.StartedAt)

	b.logger.Debug("phase finished", "phase", s.name, "status", p.result.Status, "reason", p.result.Reason, "duration", p.result.Duration)
	if b.hooks.OnPhaseEnd != nil {
		b.hooks.OnPhaseEnd(ctx, &domain.PhaseEvent{
			EventBase: domain.EventBase{Timestamp: b.now(), Type: domain.EventPhaseEnd, RunID: runID},
			Phase:     s.name,
			Status:    p.result.Status,
			Reason:    p.result.Reason,
			Duration:  p.result.Duration,
		})
	}

	if err != nil {
		return p.result, fmt.Errorf("%s: %w", s.name, err)
	}
	return p.result, nil
}

func (b *Bootstrapper) finish(r *domain.Report) {
	switch r.Status {
	case domain.StatusAborted:
		return
	case domain.StatusFailed:
		b.say("\nSetup completed with errors:")
		for _, p := range r.Phases {
			if p.Status != domain.StatusFailed {
				continue
			}
			failed := p.FailedCommands()
			if len(failed) == 0 {
				b.say("  - %s: %s", p.Phase, p.Reason)
			}
			for _, c := range failed {
				b.say("  - %s: %s (exit %d)", p.Phase, c.Command, c.ExitCode)
			}
		}
	default:
		b.say("\nSetup completed successfully!")
	}

	steps := NextSteps
	if b.renderer != nil {
		if rendered, err := b.renderer(NextSteps); err == nil {
			steps = rendered
		}
	}
	b.say("\n%s", strings.TrimRight(steps, "\n"))
}

func (b *Bootstrapper) say(format string, args ...any) {
	fmt.Fprintf(b.out, format+"\n", args...)
}

func (b *Bootstrapper) interactive() bool {
	return b.settings.Interactive && !b.settings.DryRun && b.prompter.Interactive()
}
